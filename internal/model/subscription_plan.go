package model

import (
	"math"
	"time"
)

type SubscriptionPlan struct {
	ID                 int64       `gorm:"primaryKey" json:"id"`
	GymOwnerID         int64       `gorm:"not null;uniqueIndex:uk_plan_code,priority:1;index" json:"gym_owner_id"`
	PlanID             string      `gorm:"column:plan_id;size:20;not null;uniqueIndex:uk_plan_code,priority:2" json:"plan_id"`
	Name               string      `gorm:"size:100;not null" json:"name"`
	Description        string      `gorm:"type:text" json:"description"`
	Price              float64     `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationValue      int         `gorm:"not null;default:1" json:"duration_value"`
	DurationType       string      `gorm:"size:10;default:months" json:"duration_type"`
	Features           StringArray `gorm:"type:text" json:"features"`
	DiscountPercentage float64     `gorm:"type:decimal(5,2);default:0" json:"discount_percentage"`
	IsActive           bool        `gorm:"index" json:"is_active"`
	MaxMembers         *int        `json:"max_members,omitempty"`
	IncludesTrainer    bool        `gorm:"default:false" json:"includes_trainer"`
	IncludesNutrition  bool        `gorm:"default:false" json:"includes_nutrition"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// DurationInMonths 把套餐时长换算成月（天/30，周/4，年*12）
func (p *SubscriptionPlan) DurationInMonths() float64 {
	v := float64(p.DurationValue)
	switch p.DurationType {
	case "days":
		return v / 30
	case "weeks":
		return v / 4
	case "years":
		return v * 12
	default:
		return v
	}
}

// DiscountedPrice 折后价，保留两位小数
func (p *SubscriptionPlan) DiscountedPrice() float64 {
	price := p.Price * (1 - p.DiscountPercentage/100)
	return math.Round(price*100) / 100
}
