package model

import (
	"time"
)

// Attendance 每个会员每天最多一条
type Attendance struct {
	ID                     int64      `gorm:"primaryKey" json:"id"`
	GymOwnerID             int64      `gorm:"not null;uniqueIndex:uk_attendance_day,priority:1" json:"gym_owner_id"`
	MemberID               int64      `gorm:"not null;uniqueIndex:uk_attendance_day,priority:2" json:"member_id"`
	Date                   time.Time  `gorm:"type:date;not null;uniqueIndex:uk_attendance_day,priority:3;index" json:"date"`
	AttendanceID           string     `gorm:"column:attendance_id;size:20;not null;uniqueIndex" json:"attendance_id"`
	CheckInTime            time.Time  `gorm:"not null" json:"check_in_time"`
	CheckOutTime           *time.Time `json:"check_out_time,omitempty"`
	SessionDurationMinutes *int       `json:"session_duration_minutes,omitempty"`
	QRCodeUsed             bool       `gorm:"column:qr_code_used;default:false" json:"qr_code_used"`
	Notes                  string     `gorm:"type:text" json:"notes"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`

	Member *Member `gorm:"foreignKey:MemberID;references:ID" json:"member,omitempty"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// CheckOut 记录签退时间并计算时长（分钟，向下取整）
func (a *Attendance) CheckOut(at time.Time) {
	a.CheckOutTime = &at
	minutes := int(at.Sub(a.CheckInTime).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	a.SessionDurationMinutes = &minutes
}
