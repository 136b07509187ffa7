package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

// PlanHandler 套餐与会员订阅
type PlanHandler struct {
	planService         *service.PlanService
	subscriptionService *service.SubscriptionService
}

func NewPlanHandler(planService *service.PlanService, subscriptionService *service.SubscriptionService) *PlanHandler {
	return &PlanHandler{
		planService:         planService,
		subscriptionService: subscriptionService,
	}
}

// CreatePlan POST /api/v1/subscription-plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.Create(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Subscription plan created successfully", plan)
}

// ListPlans GET /api/v1/subscription-plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.PlanListRequest
	if !bindQuery(c, &req) {
		return
	}

	plans, total, err := h.planService.List(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, plans)
}

// ListActivePlans GET /api/v1/subscription-plans/active
func (h *PlanHandler) ListActivePlans(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	plans, total, err := h.planService.ListActive(gymOwnerID, q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, q.Page, q.PageSize, plans)
}

// GetPlan GET /api/v1/subscription-plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	plan, err := h.planService.Get(gymOwnerID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, plan)
}

// UpdatePlan PUT /api/v1/subscription-plans/:id
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdatePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.Update(gymOwnerID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Subscription plan updated successfully", plan)
}

// DeletePlan DELETE /api/v1/subscription-plans/:id
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.planService.Delete(gymOwnerID, id); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Subscription plan deleted successfully", nil)
}

// CreateSubscription POST /api/v1/member-subscriptions
func (h *PlanHandler) CreateSubscription(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.CreateSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.Create(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Member subscription created successfully", sub)
}

// ListSubscriptions GET /api/v1/member-subscriptions
func (h *PlanHandler) ListSubscriptions(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.SubscriptionListRequest
	if !bindQuery(c, &req) {
		return
	}

	subs, total, err := h.subscriptionService.List(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, subs)
}

// ListActiveSubscriptions GET /api/v1/member-subscriptions/active
func (h *PlanHandler) ListActiveSubscriptions(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	subs, err := h.subscriptionService.ListActive(gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, subs)
}

// ListExpiringSubscriptions GET /api/v1/member-subscriptions/expiring-soon
func (h *PlanHandler) ListExpiringSubscriptions(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	subs, err := h.subscriptionService.ListExpiringSoon(gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, subs)
}

// GetSubscription GET /api/v1/member-subscriptions/:id
func (h *PlanHandler) GetSubscription(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Get(gymOwnerID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, sub)
}

// UpdateSubscription PUT /api/v1/member-subscriptions/:id
func (h *PlanHandler) UpdateSubscription(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.Update(gymOwnerID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Member subscription updated successfully", sub)
}

// DeleteSubscription DELETE /api/v1/member-subscriptions/:id
func (h *PlanHandler) DeleteSubscription(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Delete(gymOwnerID, id); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Member subscription deleted successfully", nil)
}
