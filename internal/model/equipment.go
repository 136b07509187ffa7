package model

import (
	"time"
)

type Equipment struct {
	ID                  int64      `gorm:"primaryKey" json:"id"`
	GymOwnerID          int64      `gorm:"not null;uniqueIndex:uk_equipment_code,priority:1;index" json:"gym_owner_id"`
	EquipmentID         string     `gorm:"column:equipment_id;size:20;not null;uniqueIndex:uk_equipment_code,priority:2" json:"equipment_id"`
	Name                string     `gorm:"size:100;not null" json:"name"`
	EquipmentType       string     `gorm:"size:20;not null" json:"equipment_type"`
	Brand               string     `gorm:"size:50" json:"brand"`
	Model               string     `gorm:"size:50" json:"model"`
	PurchaseDate        time.Time  `gorm:"type:date;not null" json:"purchase_date"`
	Price               float64    `gorm:"type:decimal(10,2)" json:"price"`
	WarrantyExpiry      *time.Time `gorm:"type:date" json:"warranty_expiry,omitempty"`
	IsWorking           bool       `gorm:"index" json:"is_working"`
	Condition           string     `gorm:"size:20;default:good" json:"condition"`
	LastMaintenanceDate *time.Time `gorm:"type:date" json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time `gorm:"type:date;index" json:"next_maintenance_date,omitempty"`
	Quantity            int        `gorm:"default:1" json:"quantity"`
	SerialNumber        string     `gorm:"size:100" json:"serial_number"`
	Location            string     `gorm:"size:100" json:"location"`
	Notes               string     `gorm:"type:text" json:"notes"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (Equipment) TableName() string {
	return "equipment"
}

// IsUnderWarranty 保修期内
func (e *Equipment) IsUnderWarranty(today time.Time) bool {
	return e.WarrantyExpiry != nil && !e.WarrantyExpiry.Before(today)
}

// IsMaintenanceDue 到了计划维护日期
func (e *Equipment) IsMaintenanceDue(today time.Time) bool {
	return e.NextMaintenanceDate != nil && !e.NextMaintenanceDate.After(today)
}
