package dto

import (
	"github.com/qs3c/gym_go_server/internal/model"
)

// CreateSubscriptionRequest 新建会员订阅；end_date 缺省按套餐时长推算
type CreateSubscriptionRequest struct {
	MemberID           int64   `json:"member_id" binding:"required,gt=0"`
	SubscriptionPlanID int64   `json:"subscription_plan_id" binding:"required,gt=0"`
	StartDate          string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate            string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Status             string  `json:"status" binding:"omitempty,subscription_status"`
	AutoRenew          bool    `json:"auto_renew"`
	AmountPaid         float64 `json:"amount_paid" binding:"min=0"`
	PaymentMethod      string  `json:"payment_method" binding:"omitempty,payment_method"`
}

// UpdateSubscriptionRequest 更新会员订阅
type UpdateSubscriptionRequest struct {
	StartDate     *string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate       *string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Status        *string  `json:"status" binding:"omitempty,subscription_status"`
	AutoRenew     *bool    `json:"auto_renew"`
	AmountPaid    *float64 `json:"amount_paid" binding:"omitempty,min=0"`
	PaymentMethod *string  `json:"payment_method" binding:"omitempty,payment_method"`
}

// SubscriptionListRequest 会员订阅列表查询
type SubscriptionListRequest struct {
	PageQuery
	MemberID int64  `form:"member_id"`
	PlanID   int64  `form:"subscription_plan_id"`
	Status   string `form:"status" binding:"omitempty,subscription_status"`
}

// SubscriptionInfo 会员订阅详情
type SubscriptionInfo struct {
	*model.MemberSubscription
	MemberName     string `json:"member_name"`
	PlanName       string `json:"plan_name"`
	IsActive       bool   `json:"is_active"`
	IsExpired      bool   `json:"is_expired"`
	IsExpiringSoon bool   `json:"is_expiring_soon"`
	DaysRemaining  int    `json:"days_remaining"`
}
