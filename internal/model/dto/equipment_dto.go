package dto

import (
	"github.com/qs3c/gym_go_server/internal/model"
)

// CreateEquipmentRequest 新建器械
type CreateEquipmentRequest struct {
	Name                string  `json:"name" binding:"required,max=100"`
	EquipmentType       string  `json:"equipment_type" binding:"required,equipment_type"`
	Brand               string  `json:"brand" binding:"omitempty,max=50"`
	Model               string  `json:"model" binding:"omitempty,max=50"`
	PurchaseDate        string  `json:"purchase_date" binding:"required,datetime=2006-01-02"`
	Price               float64 `json:"price" binding:"min=0"`
	WarrantyExpiry      string  `json:"warranty_expiry" binding:"omitempty,datetime=2006-01-02"`
	IsWorking           *bool   `json:"is_working"`
	Condition           string  `json:"condition" binding:"omitempty,equipment_condition"`
	LastMaintenanceDate string  `json:"last_maintenance_date" binding:"omitempty,datetime=2006-01-02"`
	NextMaintenanceDate string  `json:"next_maintenance_date" binding:"omitempty,datetime=2006-01-02"`
	Quantity            int     `json:"quantity" binding:"omitempty,min=1"`
	SerialNumber        string  `json:"serial_number" binding:"omitempty,max=100"`
	Location            string  `json:"location" binding:"omitempty,max=100"`
	Notes               string  `json:"notes"`
}

// UpdateEquipmentRequest 更新器械
type UpdateEquipmentRequest struct {
	Name                *string  `json:"name" binding:"omitempty,min=1,max=100"`
	EquipmentType       *string  `json:"equipment_type" binding:"omitempty,equipment_type"`
	Brand               *string  `json:"brand" binding:"omitempty,max=50"`
	Model               *string  `json:"model" binding:"omitempty,max=50"`
	PurchaseDate        *string  `json:"purchase_date" binding:"omitempty,datetime=2006-01-02"`
	Price               *float64 `json:"price" binding:"omitempty,min=0"`
	WarrantyExpiry      *string  `json:"warranty_expiry" binding:"omitempty,datetime=2006-01-02"`
	IsWorking           *bool    `json:"is_working"`
	Condition           *string  `json:"condition" binding:"omitempty,equipment_condition"`
	LastMaintenanceDate *string  `json:"last_maintenance_date" binding:"omitempty,datetime=2006-01-02"`
	NextMaintenanceDate *string  `json:"next_maintenance_date" binding:"omitempty,datetime=2006-01-02"`
	Quantity            *int     `json:"quantity" binding:"omitempty,min=1"`
	SerialNumber        *string  `json:"serial_number" binding:"omitempty,max=100"`
	Location            *string  `json:"location" binding:"omitempty,max=100"`
	Notes               *string  `json:"notes"`
}

// EquipmentListRequest 器械列表查询
type EquipmentListRequest struct {
	PageQuery
	Search        string `form:"search"`
	EquipmentType string `form:"equipment_type" binding:"omitempty,equipment_type"`
	Condition     string `form:"condition" binding:"omitempty,equipment_condition"`
	IsWorking     *bool  `form:"is_working"`
}

// EquipmentInfo 器械详情
type EquipmentInfo struct {
	*model.Equipment
	IsUnderWarranty  bool `json:"is_under_warranty"`
	IsMaintenanceDue bool `json:"is_maintenance_due"`
}

// EquipmentTypeSummary 按类型汇总
type EquipmentTypeSummary struct {
	EquipmentType string `json:"equipment_type"`
	Count         int64  `json:"count"`
	Quantity      int64  `json:"quantity"`
}
