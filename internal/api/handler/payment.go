package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create 记录付款，已完成的付款会顺延会员有效期
// POST /api/v1/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Payment recorded successfully", payment)
}

// List GET /api/v1/payments
func (h *PaymentHandler) List(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.PaymentListRequest
	if !bindQuery(c, &req) {
		return
	}

	payments, total, err := h.paymentService.List(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, payments)
}

// Get GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.Get(gymOwnerID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, payment)
}

// Update PUT /api/v1/payments/:id
func (h *PaymentHandler) Update(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), gymOwnerID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Payment updated successfully", payment)
}

// Delete DELETE /api/v1/payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), gymOwnerID, id); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Payment deleted successfully", nil)
}

// MonthlyRevenue 指定月份已完成付款总额，默认本月
// GET /api/v1/payments/monthly-revenue?year=&month=
func (h *PaymentHandler) MonthlyRevenue(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.MonthlyRevenueRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.paymentService.MonthlyRevenue(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}

// RevenueAnalytics GET /api/v1/payments/revenue-analytics
func (h *PaymentHandler) RevenueAnalytics(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	resp, err := h.paymentService.RevenueAnalytics(c.Request.Context(), gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resp)
}
