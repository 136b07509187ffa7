package model

import (
	"time"
)

type Trainer struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	GymOwnerID      int64     `gorm:"not null;uniqueIndex:uk_trainer_code,priority:1;index" json:"gym_owner_id"`
	UserID          int64     `gorm:"not null;index" json:"user_id"`
	TrainerID       string    `gorm:"column:trainer_id;size:20;not null;uniqueIndex:uk_trainer_code,priority:2" json:"trainer_id"`
	Phone           string    `gorm:"size:15" json:"phone"`
	Specialization  string    `gorm:"size:30;default:general" json:"specialization"`
	ExperienceYears int       `gorm:"default:0" json:"experience_years"`
	Certification   string    `gorm:"size:200" json:"certification"`
	HourlyRate      float64   `gorm:"type:decimal(8,2)" json:"hourly_rate"`
	MonthlySalary   float64   `gorm:"type:decimal(10,2)" json:"monthly_salary"`
	IsAvailable     bool      `gorm:"index" json:"is_available"`
	JoinDate        time.Time `gorm:"type:date;not null" json:"join_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Trainer) TableName() string {
	return "trainers"
}
