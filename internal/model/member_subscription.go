package model

import (
	"time"
)

// MemberSubscription 会员在某个套餐下的一段有效期
type MemberSubscription struct {
	ID                 int64     `gorm:"primaryKey" json:"id"`
	GymOwnerID         int64     `gorm:"not null;uniqueIndex:uk_subscription_code,priority:1;index" json:"gym_owner_id"`
	SubscriptionID     string    `gorm:"column:subscription_id;size:20;not null;uniqueIndex:uk_subscription_code,priority:2" json:"subscription_id"`
	MemberID           int64     `gorm:"not null;index:idx_member_plan,priority:1" json:"member_id"`
	SubscriptionPlanID int64     `gorm:"not null;index:idx_member_plan,priority:2" json:"subscription_plan_id"`
	StartDate          time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate            time.Time `gorm:"type:date;not null;index" json:"end_date"`
	Status             string    `gorm:"size:20;default:active;index" json:"status"`
	AutoRenew          bool      `gorm:"default:false" json:"auto_renew"`
	AmountPaid         float64   `gorm:"type:decimal(10,2)" json:"amount_paid"`
	PaymentMethod      string    `gorm:"size:20" json:"payment_method"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Member           *Member           `gorm:"foreignKey:MemberID;references:ID" json:"member,omitempty"`
	SubscriptionPlan *SubscriptionPlan `gorm:"foreignKey:SubscriptionPlanID;references:ID" json:"subscription_plan,omitempty"`
}

func (MemberSubscription) TableName() string {
	return "member_subscriptions"
}

func (s *MemberSubscription) IsActiveOn(today time.Time) bool {
	return s.Status == SubscriptionActive && !s.EndDate.Before(today)
}

func (s *MemberSubscription) IsExpiredOn(today time.Time) bool {
	return s.EndDate.Before(today)
}

// IsExpiringSoonOn 七天内到期（含已过期）
func (s *MemberSubscription) IsExpiringSoonOn(today time.Time) bool {
	return !s.EndDate.After(today.AddDate(0, 0, 7))
}

func (s *MemberSubscription) DaysRemainingOn(today time.Time) int {
	if s.EndDate.Before(today) {
		return 0
	}
	return int(s.EndDate.Sub(today).Hours() / 24)
}
