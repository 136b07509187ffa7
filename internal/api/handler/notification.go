package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.NotificationListRequest
	if !bindQuery(c, &req) {
		return
	}

	items, total, err := h.notificationService.List(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, items)
}

// UnreadCount GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	resp, err := h.notificationService.UnreadCount(gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}

// MarkRead POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	n, err := h.notificationService.MarkRead(gymOwnerID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Notification marked as read", n)
}

// MarkAllRead POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	resp, err := h.notificationService.MarkAllRead(gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "All notifications marked as read", resp)
}

// CheckExpiring 为 7 天内到期的会员生成提醒
// POST /api/v1/notifications/check-expiring
func (h *NotificationHandler) CheckExpiring(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	resp, err := h.notificationService.CheckExpiring(c.Request.Context(), gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}
