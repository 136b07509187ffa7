package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type EquipmentHandler struct {
	equipmentService *service.EquipmentService
}

func NewEquipmentHandler(equipmentService *service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService}
}

// Create POST /api/v1/equipment
func (h *EquipmentHandler) Create(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.CreateEquipmentRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.equipmentService.Create(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Equipment created successfully", item)
}

// List GET /api/v1/equipment
func (h *EquipmentHandler) List(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.EquipmentListRequest
	if !bindQuery(c, &req) {
		return
	}

	items, total, err := h.equipmentService.List(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, items)
}

// ListWorking GET /api/v1/equipment/working
func (h *EquipmentHandler) ListWorking(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	items, total, err := h.equipmentService.ListWorking(gymOwnerID, q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, q.Page, q.PageSize, items)
}

// ByType GET /api/v1/equipment/by-type
func (h *EquipmentHandler) ByType(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	summary, err := h.equipmentService.ByType(gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, summary)
}

// MaintenanceDue GET /api/v1/equipment/maintenance-due
func (h *EquipmentHandler) MaintenanceDue(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	items, err := h.equipmentService.MaintenanceDue(gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

// Get GET /api/v1/equipment/:id
func (h *EquipmentHandler) Get(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := h.equipmentService.Get(gymOwnerID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, item)
}

// Update PUT /api/v1/equipment/:id
func (h *EquipmentHandler) Update(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateEquipmentRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.equipmentService.Update(gymOwnerID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Equipment updated successfully", item)
}

// Delete DELETE /api/v1/equipment/:id
func (h *EquipmentHandler) Delete(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.equipmentService.Delete(gymOwnerID, id); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Equipment deleted successfully", nil)
}
