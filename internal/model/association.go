package model

import (
	"time"
)

// TrainerMemberAssociation 教练与会员的绑定，停用而不删除
type TrainerMemberAssociation struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	GymOwnerID   int64     `gorm:"not null;uniqueIndex:uk_trainer_member,priority:1" json:"gym_owner_id"`
	TrainerID    int64     `gorm:"not null;uniqueIndex:uk_trainer_member,priority:2" json:"trainer_id"`
	MemberID     int64     `gorm:"not null;uniqueIndex:uk_trainer_member,priority:3;index" json:"member_id"`
	AssignedDate time.Time `gorm:"type:date;not null" json:"assigned_date"`
	IsActive     bool      `gorm:"index" json:"is_active"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Trainer *Trainer `gorm:"foreignKey:TrainerID;references:ID" json:"trainer,omitempty"`
	Member  *Member  `gorm:"foreignKey:MemberID;references:ID" json:"member,omitempty"`
}

func (TrainerMemberAssociation) TableName() string {
	return "trainer_member_associations"
}
