package dto

import (
	"github.com/qs3c/gym_go_server/internal/model"
)

// CreateMemberRequest 新建会员；同时创建会员登录账号
type CreateMemberRequest struct {
	FirstName             string   `json:"first_name" binding:"required,max=150"`
	LastName              string   `json:"last_name" binding:"max=150"`
	Email                 string   `json:"email" binding:"required,email"`
	Phone                 string   `json:"phone" binding:"omitempty,max=15"`
	DateOfBirth           string   `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Gender                string   `json:"gender" binding:"omitempty,gender"`
	Address               string   `json:"address"`
	MembershipType        string   `json:"membership_type" binding:"omitempty,membership_type"`
	JoinDate              string   `json:"join_date" binding:"omitempty,datetime=2006-01-02"`
	MembershipExpiry      string   `json:"membership_expiry" binding:"required,datetime=2006-01-02"`
	IsActive              *bool    `json:"is_active"`
	EmergencyContactName  string   `json:"emergency_contact_name" binding:"omitempty,max=100"`
	EmergencyContactPhone string   `json:"emergency_contact_phone" binding:"omitempty,max=15"`
	HeightCm              *float64 `json:"height_cm" binding:"omitempty,gt=0,lte=300"`
	WeightKg              *float64 `json:"weight_kg" binding:"omitempty,gt=0,lte=500"`
	Notes                 string   `json:"notes"`
}

// UpdateMemberRequest 更新会员；member_id 编号不可修改
type UpdateMemberRequest struct {
	FirstName             *string  `json:"first_name" binding:"omitempty,max=150"`
	LastName              *string  `json:"last_name" binding:"omitempty,max=150"`
	Email                 *string  `json:"email" binding:"omitempty,email"`
	Phone                 *string  `json:"phone" binding:"omitempty,max=15"`
	DateOfBirth           *string  `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Gender                *string  `json:"gender" binding:"omitempty,gender"`
	Address               *string  `json:"address"`
	MembershipType        *string  `json:"membership_type" binding:"omitempty,membership_type"`
	JoinDate              *string  `json:"join_date" binding:"omitempty,datetime=2006-01-02"`
	MembershipExpiry      *string  `json:"membership_expiry" binding:"omitempty,datetime=2006-01-02"`
	IsActive              *bool    `json:"is_active"`
	EmergencyContactName  *string  `json:"emergency_contact_name" binding:"omitempty,max=100"`
	EmergencyContactPhone *string  `json:"emergency_contact_phone" binding:"omitempty,max=15"`
	HeightCm              *float64 `json:"height_cm" binding:"omitempty,gt=0,lte=300"`
	WeightKg              *float64 `json:"weight_kg" binding:"omitempty,gt=0,lte=500"`
	Notes                 *string  `json:"notes"`
}

// MemberListRequest 会员列表查询
type MemberListRequest struct {
	PageQuery
	Search         string `form:"search"`
	MembershipType string `form:"membership_type" binding:"omitempty,membership_type"`
	IsActive       *bool  `form:"is_active"`
}

// ExpiringQuery 即将到期查询
type ExpiringQuery struct {
	Days int `form:"days,default=7" binding:"min=0,max=365"`
}

// MemberInfo 会员详情，附带派生字段
type MemberInfo struct {
	*model.Member
	FullName            string   `json:"full_name"`
	Email               string   `json:"email"`
	ProfilePictureURL   string   `json:"profile_picture_url"`
	BMI                 *float64 `json:"bmi"`
	BMICategory         string   `json:"bmi_category"`
	IsMembershipExpired bool     `json:"is_membership_expired"`
	DaysUntilExpiry     int      `json:"days_until_expiry"`
}

// BMIResponse 会员 BMI
type BMIResponse struct {
	MemberID    string   `json:"member_id"`
	FullName    string   `json:"full_name"`
	HeightCm    *float64 `json:"height_cm"`
	WeightKg    *float64 `json:"weight_kg"`
	BMI         *float64 `json:"bmi"`
	BMICategory string   `json:"bmi_category"`
}
