package dto

import (
	"github.com/qs3c/gym_go_server/internal/model"
)

// CreateTrainerRequest 新建教练；同时创建教练登录账号
type CreateTrainerRequest struct {
	FirstName       string   `json:"first_name" binding:"required,max=150"`
	LastName        string   `json:"last_name" binding:"max=150"`
	Email           string   `json:"email" binding:"required,email"`
	Phone           string   `json:"phone" binding:"omitempty,max=15"`
	Specialization  string   `json:"specialization" binding:"omitempty,specialization"`
	ExperienceYears int      `json:"experience_years" binding:"min=0,max=80"`
	Certification   string   `json:"certification" binding:"omitempty,max=200"`
	HourlyRate      float64  `json:"hourly_rate" binding:"min=0"`
	MonthlySalary   *float64 `json:"monthly_salary" binding:"omitempty,min=0"`
	IsAvailable     *bool    `json:"is_available"`
	JoinDate        string   `json:"join_date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateTrainerRequest 更新教练；trainer_id 编号不可修改
type UpdateTrainerRequest struct {
	FirstName       *string  `json:"first_name" binding:"omitempty,max=150"`
	LastName        *string  `json:"last_name" binding:"omitempty,max=150"`
	Email           *string  `json:"email" binding:"omitempty,email"`
	Phone           *string  `json:"phone" binding:"omitempty,max=15"`
	Specialization  *string  `json:"specialization" binding:"omitempty,specialization"`
	ExperienceYears *int     `json:"experience_years" binding:"omitempty,min=0,max=80"`
	Certification   *string  `json:"certification" binding:"omitempty,max=200"`
	HourlyRate      *float64 `json:"hourly_rate" binding:"omitempty,min=0"`
	MonthlySalary   *float64 `json:"monthly_salary" binding:"omitempty,min=0"`
	IsAvailable     *bool    `json:"is_available"`
	JoinDate        *string  `json:"join_date" binding:"omitempty,datetime=2006-01-02"`
}

// TrainerListRequest 教练列表查询
type TrainerListRequest struct {
	PageQuery
	Search         string `form:"search"`
	Specialization string `form:"specialization" binding:"omitempty,specialization"`
	IsAvailable    *bool  `form:"is_available"`
}

// TrainerInfo 教练详情
type TrainerInfo struct {
	*model.Trainer
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// AssociateRequest 绑定会员
type AssociateRequest struct {
	MemberID int64  `json:"member_id" binding:"required,gt=0"`
	Notes    string `json:"notes"`
}

// UnassociateRequest 解除绑定
type UnassociateRequest struct {
	MemberID int64 `json:"member_id" binding:"required,gt=0"`
}

// AssociationListRequest 绑定列表查询
type AssociationListRequest struct {
	PageQuery
	TrainerID int64 `form:"trainer_id"`
	MemberID  int64 `form:"member_id"`
	IsActive  *bool `form:"is_active"`
}

// AssociationInfo 绑定详情
type AssociationInfo struct {
	ID           int64  `json:"id"`
	TrainerID    int64  `json:"trainer_id"`
	TrainerCode  string `json:"trainer_code"`
	TrainerName  string `json:"trainer_name"`
	MemberID     int64  `json:"member_id"`
	MemberCode   string `json:"member_code"`
	MemberName   string `json:"member_name"`
	AssignedDate string `json:"assigned_date"`
	IsActive     bool   `json:"is_active"`
	Notes        string `json:"notes"`
}
