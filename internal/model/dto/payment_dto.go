package dto

import (
	"github.com/qs3c/gym_go_server/internal/model"
)

// CreatePaymentRequest 记录一笔会员费；completed 且 membership_months>0 时自动延长会员期
type CreatePaymentRequest struct {
	MemberID           int64   `json:"member_id" binding:"required,gt=0"`
	SubscriptionPlanID *int64  `json:"subscription_plan_id" binding:"omitempty,gt=0"`
	Amount             float64 `json:"amount" binding:"required,gt=0"`
	PaymentDate        string  `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	PaymentMethod      string  `json:"payment_method" binding:"required,payment_method"`
	Status             string  `json:"status" binding:"omitempty,payment_status"`
	MembershipMonths   *int    `json:"membership_months" binding:"omitempty,min=0,max=120"`
	TransactionID      string  `json:"transaction_id" binding:"omitempty,max=100"`
	DiscountAmount     float64 `json:"discount_amount" binding:"min=0"`
	TaxAmount          float64 `json:"tax_amount" binding:"min=0"`
	ReceiptNumber      string  `json:"receipt_number" binding:"omitempty,max=50"`
	Notes              string  `json:"notes"`
}

// UpdatePaymentRequest 更新支付；改为 completed 且尚未延期时触发延期
type UpdatePaymentRequest struct {
	Amount           *float64 `json:"amount" binding:"omitempty,gt=0"`
	PaymentDate      *string  `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	PaymentMethod    *string  `json:"payment_method" binding:"omitempty,payment_method"`
	Status           *string  `json:"status" binding:"omitempty,payment_status"`
	MembershipMonths *int     `json:"membership_months" binding:"omitempty,min=0,max=120"`
	TransactionID    *string  `json:"transaction_id" binding:"omitempty,max=100"`
	DiscountAmount   *float64 `json:"discount_amount" binding:"omitempty,min=0"`
	TaxAmount        *float64 `json:"tax_amount" binding:"omitempty,min=0"`
	ReceiptNumber    *string  `json:"receipt_number" binding:"omitempty,max=50"`
	Notes            *string  `json:"notes"`
}

// PaymentListRequest 支付列表查询
type PaymentListRequest struct {
	PageQuery
	MemberID      int64  `form:"member_id"`
	Status        string `form:"status" binding:"omitempty,payment_status"`
	PaymentMethod string `form:"payment_method" binding:"omitempty,payment_method"`
	DateFrom      string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo        string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// PaymentInfo 支付详情
type PaymentInfo struct {
	*model.MembershipPayment
	MemberName string `json:"member_name"`
	MemberCode string `json:"member_code"`
	PlanName   string `json:"plan_name,omitempty"`
}

// MonthlyRevenueRequest 月收入查询，缺省为当月
type MonthlyRevenueRequest struct {
	Year  int `form:"year" binding:"omitempty,min=2000,max=2100"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// MonthlyRevenueResponse 月收入
type MonthlyRevenueResponse struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

// MethodRevenue 按支付方式的收入
type MethodRevenue struct {
	PaymentMethod string  `json:"payment_method"`
	Total         float64 `json:"total"`
	Count         int64   `json:"count"`
}

// MonthRevenue 月度趋势中的一个月
type MonthRevenue struct {
	Month   string  `json:"month"` // 2025-03
	Revenue float64 `json:"revenue"`
}

// RevenueAnalytics 收入分析
type RevenueAnalytics struct {
	TotalRevenue         float64         `json:"total_revenue"`
	CurrentMonthRevenue  float64         `json:"current_month_revenue"`
	PreviousMonthRevenue float64         `json:"previous_month_revenue"`
	GrowthRate           float64         `json:"growth_rate"`
	RevenueByMethod      []MethodRevenue `json:"revenue_by_method"`
	MonthlyTrends        []MonthRevenue  `json:"monthly_trends"`
}
