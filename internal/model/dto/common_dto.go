package dto

// PageQuery 分页查询参数
type PageQuery struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// MessageResponse 只包含提示信息的响应
type MessageResponse struct {
	Message string `json:"message"`
}
