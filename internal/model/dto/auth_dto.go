package dto

// RegisterRequest 健身房注册请求
type RegisterRequest struct {
	Email              string `json:"email" binding:"required,email"`
	Password           string `json:"password" binding:"required,min=8,max=128"`
	FirstName          string `json:"first_name" binding:"required,max=150"`
	LastName           string `json:"last_name" binding:"max=150"`
	GymName            string `json:"gym_name" binding:"required,max=200"`
	GymAddress         string `json:"gym_address"`
	GymDescription     string `json:"gym_description"`
	PhoneNumber        string `json:"phone_number" binding:"omitempty,max=15"`
	GymEstablishedDate string `json:"gym_established_date" binding:"omitempty,datetime=2006-01-02"`
	SubscriptionPlan   string `json:"subscription_plan" binding:"omitempty,gym_plan"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest 客户端拿到的 Google id_token
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleURLResponse 授权码流程的跳转地址
type GoogleURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token    string        `json:"token"`
	User     *UserInfo     `json:"user"`
	GymOwner *GymOwnerInfo `json:"gym_owner"`
	Created  bool          `json:"created,omitempty"` // Google 登录时新建了账号
}

// UserInfo 账号信息
type UserInfo struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// GymOwnerInfo 健身房资料（返回给前端）
type GymOwnerInfo struct {
	ID                 int64     `json:"id"`
	User               *UserInfo `json:"user,omitempty"`
	GymName            string    `json:"gym_name"`
	GymAddress         string    `json:"gym_address"`
	GymDescription     string    `json:"gym_description"`
	PhoneNumber        string    `json:"phone_number"`
	GymEstablishedDate string    `json:"gym_established_date,omitempty"`
	SubscriptionPlan   string    `json:"subscription_plan"`
	IsActive           bool      `json:"is_active"`
	QRCodeToken        string    `json:"qr_code_token"`
	QRCodeURL          string    `json:"qr_code_url"`
	ProfilePictureURL  string    `json:"profile_picture_url"`
	CreatedAt          string    `json:"created_at"`
}

// UpdateProfileRequest 更新账号与健身房资料，未传的字段保持不变
type UpdateProfileRequest struct {
	FirstName          *string `json:"first_name" binding:"omitempty,max=150"`
	LastName           *string `json:"last_name" binding:"omitempty,max=150"`
	Email              *string `json:"email" binding:"omitempty,email"`
	GymName            *string `json:"gym_name" binding:"omitempty,min=1,max=200"`
	GymAddress         *string `json:"gym_address"`
	GymDescription     *string `json:"gym_description"`
	PhoneNumber        *string `json:"phone_number" binding:"omitempty,max=15"`
	GymEstablishedDate *string `json:"gym_established_date" binding:"omitempty,datetime=2006-01-02"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// UploadPictureRequest JSON 方式上传头像
type UploadPictureRequest struct {
	ProfilePictureBase64 string `json:"profile_picture_base64" binding:"required"`
	ContentType          string `json:"content_type"`
}

// PictureResponse 头像地址
type PictureResponse struct {
	ProfilePictureURL string `json:"profile_picture_url"`
}

// QRCodeResponse 签到二维码
type QRCodeResponse struct {
	GymName     string `json:"gym_name"`
	QRCodeToken string `json:"qr_code_token"`
	QRCodeURL   string `json:"qr_code_url"`
}

// VerifyQRRequest 校验签到二维码
type VerifyQRRequest struct {
	QRToken string `json:"qr_token" binding:"required"`
}

// VerifyQRResponse 校验结果；无效时只有 valid=false
type VerifyQRResponse struct {
	Valid      bool   `json:"valid"`
	GymName    string `json:"gym_name,omitempty"`
	GymAddress string `json:"gym_address,omitempty"`
	QRCodeURL  string `json:"qr_code_url,omitempty"`
}
