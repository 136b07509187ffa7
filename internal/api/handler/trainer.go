package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type TrainerHandler struct {
	trainerService *service.TrainerService
}

func NewTrainerHandler(trainerService *service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// Create 新建教练
// POST /api/v1/trainers
func (h *TrainerHandler) Create(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.CreateTrainerRequest
	if !bindJSON(c, &req) {
		return
	}

	trainer, err := h.trainerService.Create(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Trainer created successfully", trainer)
}

// List 教练列表
// GET /api/v1/trainers
func (h *TrainerHandler) List(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.TrainerListRequest
	if !bindQuery(c, &req) {
		return
	}

	trainers, total, err := h.trainerService.List(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, trainers)
}

// ListAvailable 可预约教练
// GET /api/v1/trainers/available
func (h *TrainerHandler) ListAvailable(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	trainers, total, err := h.trainerService.ListAvailable(gymOwnerID, q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, q.Page, q.PageSize, trainers)
}

// Get 教练详情
// GET /api/v1/trainers/:id
func (h *TrainerHandler) Get(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	trainer, err := h.trainerService.Get(gymOwnerID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, trainer)
}

// Update 更新教练
// PUT /api/v1/trainers/:id
func (h *TrainerHandler) Update(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateTrainerRequest
	if !bindJSON(c, &req) {
		return
	}

	trainer, err := h.trainerService.Update(gymOwnerID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Trainer updated successfully", trainer)
}

// Delete 删除教练
// DELETE /api/v1/trainers/:id
func (h *TrainerHandler) Delete(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.trainerService.Delete(gymOwnerID, id); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Trainer deleted successfully", nil)
}

// Members 教练名下的会员
// GET /api/v1/trainers/:id/members
func (h *TrainerHandler) Members(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	members, err := h.trainerService.Members(gymOwnerID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, members)
}

// Associate 分配会员给教练
// POST /api/v1/trainers/:id/associate
func (h *TrainerHandler) Associate(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.AssociateRequest
	if !bindJSON(c, &req) {
		return
	}

	association, err := h.trainerService.Associate(gymOwnerID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Member assigned to trainer successfully", association)
}

// Unassociate 取消分配
// POST /api/v1/trainers/:id/unassociate
func (h *TrainerHandler) Unassociate(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UnassociateRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.trainerService.Unassociate(gymOwnerID, id, &req); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Member unassigned from trainer successfully", nil)
}

// ListAssociations 教练与会员关系
// GET /api/v1/associations
func (h *TrainerHandler) ListAssociations(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.AssociationListRequest
	if !bindQuery(c, &req) {
		return
	}
	h.listAssociations(c, gymOwnerID, &req)
}

// ListActiveAssociations 当前有效的分配
// GET /api/v1/associations/active
func (h *TrainerHandler) ListActiveAssociations(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.AssociationListRequest
	if !bindQuery(c, &req) {
		return
	}
	active := true
	req.IsActive = &active
	h.listAssociations(c, gymOwnerID, &req)
}

func (h *TrainerHandler) listAssociations(c *gin.Context, gymOwnerID int64, req *dto.AssociationListRequest) {
	items, total, err := h.trainerService.ListAssociations(gymOwnerID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, items)
}
