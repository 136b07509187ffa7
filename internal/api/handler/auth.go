package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/api/middleware"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type AuthHandler struct {
	authService   *service.AuthService
	maxUploadSize int64
}

func NewAuthHandler(authService *service.AuthService, maxUploadSize int64) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		maxUploadSize: maxUploadSize,
	}
}

// Register 注册健身房
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, "Gym owner registered successfully", resp)
}

// Login 邮箱密码登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Login successful", resp)
}

// GoogleLogin 客户端 id_token 登录
// POST /api/v1/auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Login successful", resp)
}

// GoogleURL 授权码流程跳转地址
// GET /api/v1/auth/google/url
func (h *AuthHandler) GoogleURL(c *gin.Context) {
	resp, err := h.authService.GoogleAuthURL(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}

// GoogleCallback 授权码流程回调
// GET /api/v1/auth/google/callback?code=&state=
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.ParamError(c, "code is required")
		return
	}

	resp, err := h.authService.GoogleCallback(c.Request.Context(), code, c.Query("state"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Login successful", resp)
}

// Logout JWT 无状态，客户端丢弃 token 即可
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	response.SuccessWithMessage(c, "Logged out successfully", nil)
}

// GetProfile 当前健身房资料
// GET /api/v1/auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	profile, err := h.authService.GetProfile(gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateProfile 更新资料
// PUT /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.authService.UpdateProfile(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Profile updated successfully", profile)
}

// ChangePassword 修改密码
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(userID, &req); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Password changed successfully", nil)
}

// UploadPicture 上传健身房头像
// POST /api/v1/auth/upload-picture
func (h *AuthHandler) UploadPicture(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	pic, err := readPicture(c, h.maxUploadSize)
	if err != nil {
		handleError(c, err)
		return
	}

	resp, err := h.authService.UploadPicture(gymOwnerID, pic)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Profile picture updated successfully", resp)
}

// GetQRCode 当前签到二维码
// GET /api/v1/gym/qr-code
func (h *AuthHandler) GetQRCode(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	resp, err := h.authService.GetQRCode(gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}

// RegenerateQR 重新生成签到二维码
// POST /api/v1/auth/qr/regenerate
func (h *AuthHandler) RegenerateQR(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	resp, err := h.authService.RegenerateQR(gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "QR code regenerated successfully", resp)
}

// VerifyQR 校验签到二维码（公开）
// POST /api/v1/auth/qr/verify
func (h *AuthHandler) VerifyQR(c *gin.Context) {
	var req dto.VerifyQRRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.VerifyQR(req.QRToken)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}
