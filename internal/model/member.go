package model

import (
	"math"
	"time"
)

type Member struct {
	ID                        int64      `gorm:"primaryKey" json:"id"`
	GymOwnerID                int64      `gorm:"not null;uniqueIndex:uk_member_code,priority:1;index" json:"gym_owner_id"`
	UserID                    int64      `gorm:"not null;index" json:"user_id"`
	MemberID                  string     `gorm:"column:member_id;size:20;not null;uniqueIndex:uk_member_code,priority:2" json:"member_id"`
	Phone                     string     `gorm:"size:15" json:"phone"`
	DateOfBirth               *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender                    string     `gorm:"size:10" json:"gender"`
	Address                   string     `gorm:"type:text" json:"address"`
	MembershipType            string     `gorm:"size:20;default:basic" json:"membership_type"`
	JoinDate                  time.Time  `gorm:"type:date;not null" json:"join_date"`
	MembershipExpiry          time.Time  `gorm:"type:date;not null;index" json:"membership_expiry"`
	IsActive                  bool       `gorm:"index" json:"is_active"`
	EmergencyContactName      string     `gorm:"size:100" json:"emergency_contact_name"`
	EmergencyContactPhone     string     `gorm:"size:15" json:"emergency_contact_phone"`
	HeightCm                  *float64   `gorm:"column:height_cm;type:decimal(5,2)" json:"height_cm,omitempty"`
	WeightKg                  *float64   `gorm:"column:weight_kg;type:decimal(5,2)" json:"weight_kg,omitempty"`
	ProfilePictureURL         string     `gorm:"size:500" json:"-"`
	ProfilePictureBase64      string     `gorm:"type:longtext" json:"-"`
	ProfilePictureContentType string     `gorm:"size:50" json:"-"`
	Notes                     string     `gorm:"type:text" json:"notes"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) FullName() string {
	if m.User == nil {
		return m.MemberID
	}
	return m.User.FullName()
}

func (m *Member) PictureURL() string {
	return pictureURL(m.ProfilePictureURL, m.ProfilePictureBase64, m.ProfilePictureContentType)
}

// BMI 保留一位小数；身高或体重缺失时返回 nil
func (m *Member) BMI() *float64 {
	return CalculateBMI(m.HeightCm, m.WeightKg)
}

// BMICategory 依据 BMI 给出分类；无 BMI 时为空串
func (m *Member) BMICategory() string {
	return BMICategory(m.BMI())
}

func CalculateBMI(heightCm, weightKg *float64) *float64 {
	if heightCm == nil || weightKg == nil || *heightCm <= 0 || *weightKg <= 0 {
		return nil
	}
	h := *heightCm / 100
	bmi := math.Round(*weightKg/(h*h)*10) / 10
	return &bmi
}

func BMICategory(bmi *float64) string {
	if bmi == nil {
		return ""
	}
	switch {
	case *bmi < 18.5:
		return "Underweight"
	case *bmi < 25:
		return "Normal weight"
	case *bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// IsExpiredOn 会员在 today 是否已过期
func (m *Member) IsExpiredOn(today time.Time) bool {
	return m.MembershipExpiry.Before(today)
}

// DaysUntilExpiry 距离到期的天数，已过期为负数
func (m *Member) DaysUntilExpiry(today time.Time) int {
	return int(m.MembershipExpiry.Sub(today).Hours() / 24)
}
