package model

import (
	"time"
)

// 通知类型
const (
	NotificationMemberExpiry       = "member_expiry"
	NotificationMemberExpiringSoon = "member_expiring_soon"
	NotificationPaymentReceived    = "payment_received"
	NotificationSystemAlert        = "system_alert"
)

// 通知优先级
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Notification struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	GymOwnerID       int64      `gorm:"not null;index:idx_notification_owner_read,priority:1" json:"gym_owner_id"`
	Type             string     `gorm:"column:notification_type;size:30;not null" json:"notification_type"`
	Priority         string     `gorm:"size:10;default:medium" json:"priority"`
	Title            string     `gorm:"size:200;not null" json:"title"`
	Message          string     `gorm:"type:text" json:"message"`
	IsRead           bool       `gorm:"default:false;index:idx_notification_owner_read,priority:2" json:"is_read"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	RelatedMemberID  *int64     `gorm:"index" json:"related_member_id,omitempty"`
	RelatedPaymentID *int64     `json:"related_payment_id,omitempty"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
