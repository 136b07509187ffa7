package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// CheckIn 前台签到
// POST /api/v1/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.CheckInRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.attendanceService.CheckIn(c.Request.Context(), gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Check-in successful", record)
}

// CheckOut 前台签退
// POST /api/v1/attendance/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.CheckOutRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.attendanceService.CheckOut(c.Request.Context(), gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Check-out successful", record)
}

// QRCheckIn 会员扫码签到（公开，按 IP 限流）
// POST /api/v1/attendance/qr-checkin/:token
func (h *AttendanceHandler) QRCheckIn(c *gin.Context) {
	var req dto.QRCheckInRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.attendanceService.QRCheckIn(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, resp.Message, resp)
}

// List GET /api/v1/attendance
func (h *AttendanceHandler) List(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.AttendanceListRequest
	if !bindQuery(c, &req) {
		return
	}

	items, total, err := h.attendanceService.List(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, items)
}

// Today GET /api/v1/attendance/today
func (h *AttendanceHandler) Today(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	resp, err := h.attendanceService.Today(gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}

// Analytics GET /api/v1/attendance/analytics
func (h *AttendanceHandler) Analytics(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	resp, err := h.attendanceService.Analytics(c.Request.Context(), gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}
