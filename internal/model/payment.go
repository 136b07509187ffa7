package model

import (
	"time"
)

type MembershipPayment struct {
	ID                   int64     `gorm:"primaryKey" json:"id"`
	GymOwnerID           int64     `gorm:"not null;uniqueIndex:uk_payment_code,priority:1;index:idx_payment_owner_date,priority:1" json:"gym_owner_id"`
	PaymentID            string    `gorm:"column:payment_id;size:20;not null;uniqueIndex:uk_payment_code,priority:2" json:"payment_id"`
	MemberID             int64     `gorm:"not null;index" json:"member_id"`
	SubscriptionPlanID   *int64    `json:"subscription_plan_id,omitempty"`
	MemberSubscriptionID *int64    `json:"member_subscription_id,omitempty"`
	Amount               float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentDate          time.Time `gorm:"not null;index:idx_payment_owner_date,priority:2" json:"payment_date"`
	PaymentMethod        string    `gorm:"size:15;not null" json:"payment_method"`
	Status               string    `gorm:"size:10;default:completed;index" json:"status"`
	MembershipMonths     int       `gorm:"not null" json:"membership_months"`
	TransactionID        string    `gorm:"size:100" json:"transaction_id"`
	DiscountAmount       float64   `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`
	TaxAmount            float64   `gorm:"type:decimal(10,2);default:0" json:"tax_amount"`
	ReceiptNumber        string    `gorm:"size:50" json:"receipt_number"`
	Notes                string    `gorm:"type:text" json:"notes"`
	MembershipApplied    bool      `gorm:"default:false" json:"membership_applied"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	Member           *Member           `gorm:"foreignKey:MemberID;references:ID" json:"member,omitempty"`
	SubscriptionPlan *SubscriptionPlan `gorm:"foreignKey:SubscriptionPlanID;references:ID" json:"subscription_plan,omitempty"`
}

func (MembershipPayment) TableName() string {
	return "membership_payments"
}

// ExtendsMembership 已完成且购买了月数的支付才会延长会员期
func (p *MembershipPayment) ExtendsMembership() bool {
	return p.Status == PaymentStatusCompleted && p.MembershipMonths > 0
}
