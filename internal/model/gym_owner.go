package model

import (
	"time"
)

// GymOwner 租户根：一个健身房
type GymOwner struct {
	ID                        int64      `gorm:"primaryKey" json:"id"`
	UserID                    int64      `gorm:"not null;uniqueIndex" json:"user_id"`
	GymName                   string     `gorm:"size:200;not null" json:"gym_name"`
	GymAddress                string     `gorm:"type:text" json:"gym_address"`
	GymDescription            string     `gorm:"type:text" json:"gym_description"`
	PhoneNumber               string     `gorm:"size:15" json:"phone_number"`
	GymEstablishedDate        *time.Time `gorm:"type:date" json:"gym_established_date,omitempty"`
	SubscriptionPlan          string     `gorm:"size:20;default:basic" json:"subscription_plan"`
	IsActive                  bool       `json:"is_active"`
	QRCodeToken               string     `gorm:"column:qr_code_token;size:36;uniqueIndex;not null" json:"qr_code_token"`
	ProfilePictureURL         string     `gorm:"size:500" json:"profile_picture_url,omitempty"`
	ProfilePictureBase64      string     `gorm:"type:longtext" json:"-"`
	ProfilePictureContentType string     `gorm:"size:50" json:"-"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (GymOwner) TableName() string {
	return "gym_owners"
}

// PictureURL OSS 地址优先，否则返回内联 data URL
func (g *GymOwner) PictureURL() string {
	return pictureURL(g.ProfilePictureURL, g.ProfilePictureBase64, g.ProfilePictureContentType)
}

func pictureURL(url, base64Data, contentType string) string {
	if url != "" {
		return url
	}
	if base64Data == "" {
		return ""
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return "data:" + contentType + ";base64," + base64Data
}
