package dto

import (
	"github.com/qs3c/gym_go_server/internal/model"
)

// CreatePlanRequest 新建套餐
type CreatePlanRequest struct {
	Name               string   `json:"name" binding:"required,max=100"`
	Description        string   `json:"description"`
	Price              float64  `json:"price" binding:"min=0"`
	DurationValue      int      `json:"duration_value" binding:"omitempty,min=1"`
	DurationType       string   `json:"duration_type" binding:"omitempty,duration_type"`
	Features           []string `json:"features"`
	DiscountPercentage float64  `json:"discount_percentage" binding:"min=0,max=100"`
	IsActive           *bool    `json:"is_active"`
	MaxMembers         *int     `json:"max_members" binding:"omitempty,min=1"`
	IncludesTrainer    bool     `json:"includes_trainer"`
	IncludesNutrition  bool     `json:"includes_nutrition"`
}

// UpdatePlanRequest 更新套餐
type UpdatePlanRequest struct {
	Name               *string   `json:"name" binding:"omitempty,min=1,max=100"`
	Description        *string   `json:"description"`
	Price              *float64  `json:"price" binding:"omitempty,min=0"`
	DurationValue      *int      `json:"duration_value" binding:"omitempty,min=1"`
	DurationType       *string   `json:"duration_type" binding:"omitempty,duration_type"`
	Features           *[]string `json:"features"`
	DiscountPercentage *float64  `json:"discount_percentage" binding:"omitempty,min=0,max=100"`
	IsActive           *bool     `json:"is_active"`
	MaxMembers         *int      `json:"max_members" binding:"omitempty,min=1"`
	IncludesTrainer    *bool     `json:"includes_trainer"`
	IncludesNutrition  *bool     `json:"includes_nutrition"`
}

// PlanListRequest 套餐列表查询
type PlanListRequest struct {
	PageQuery
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
}

// PlanInfo 套餐详情
type PlanInfo struct {
	*model.SubscriptionPlan
	DurationInMonths float64 `json:"duration_in_months"`
	DiscountedPrice  float64 `json:"discounted_price"`
}
