package dto

// NotificationListRequest 通知列表查询
type NotificationListRequest struct {
	PageQuery
	IsRead *bool  `form:"is_read"`
	Type   string `form:"type"`
}

// UnreadCountResponse 未读数
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

// MarkAllReadResponse 批量已读结果
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// CheckExpiringResponse 到期检查结果
type CheckExpiringResponse struct {
	Created int `json:"created"`
	Checked int `json:"checked"`
}
