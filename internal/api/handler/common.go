package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/api/middleware"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/pkg/validation"
	"github.com/qs3c/gym_go_server/internal/service"
)

// 业务错误到响应码的映射，未列出的按服务器错误处理
var errorCodes = []struct {
	err  error
	code int
}{
	{service.ErrMemberNotFound, response.CodeResourceNotFound},
	{service.ErrTrainerNotFound, response.CodeResourceNotFound},
	{service.ErrAssociationNotFound, response.CodeResourceNotFound},
	{service.ErrEquipmentNotFound, response.CodeResourceNotFound},
	{service.ErrPlanNotFound, response.CodeResourceNotFound},
	{service.ErrSubscriptionNotFound, response.CodeResourceNotFound},
	{service.ErrPaymentNotFound, response.CodeResourceNotFound},
	{service.ErrNotificationNotFound, response.CodeResourceNotFound},
	{service.ErrNoCheckIn, response.CodeResourceNotFound},
	{service.ErrInvalidQRCode, response.CodeResourceNotFound},
	{service.ErrQRMemberNotFound, response.CodeResourceNotFound},
	{service.ErrUserNotFound, response.CodeResourceNotFound},

	{service.ErrAlreadyCheckedIn, response.CodeDuplicateAction},
	{service.ErrAlreadyCheckedOut, response.CodeDuplicateAction},
	{service.ErrAlreadyAssociated, response.CodeDuplicateAction},

	{service.ErrEmailExists, response.CodeParamError},
	{service.ErrInvalidDate, response.CodeParamError},
	{service.ErrInvalidDateRange, response.CodeParamError},
	{service.ErrInvalidImageType, response.CodeParamError},
	{service.ErrImageTooLarge, response.CodeParamError},
	{service.ErrInvalidImageData, response.CodeParamError},
	{service.ErrMemberIdentifier, response.CodeParamError},
	{service.ErrWrongPassword, response.CodeParamError},
	{service.ErrInvalidOAuthState, response.CodeParamError},
	{service.ErrGoogleNotConfigured, response.CodeParamError},
	{errNoPicture, response.CodeParamError},

	{service.ErrInvalidCredentials, response.CodeAuthFailed},
	{service.ErrGoogleTokenInvalid, response.CodeAuthFailed},

	{service.ErrNotGymOwner, response.CodePermissionDenied},
	{service.ErrGymInactive, response.CodePermissionDenied},
	{service.ErrMembershipInactive, response.CodePermissionDenied},
}

// handleError 把服务层错误写成统一响应
func handleError(c *gin.Context, err error) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			response.Error(c, e.code, e.err.Error())
			return
		}
	}
	if errors.Is(err, service.ErrGoogleUnavailable) {
		response.ServerError(c, err.Error())
		return
	}

	logging.Ctx(c.Request.Context()).Error().Err(err).
		Str("path", c.FullPath()).
		Msg("request failed")
	response.ServerError(c, "")
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ParamError(c, validation.Message(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.ParamError(c, validation.Message(err))
		return false
	}
	return true
}

// pathID 解析路径中的 :id
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// currentGym 当前租户，由 RequireGymOwner 中间件写入
func currentGym(c *gin.Context) (int64, bool) {
	id, ok := middleware.GetGymOwnerID(c)
	if !ok {
		response.PermissionError(c, "Gym owner profile not found")
		return 0, false
	}
	return id, true
}
