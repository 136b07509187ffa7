package dto

import (
	"github.com/qs3c/gym_go_server/internal/model"
)

// CheckInRequest 前台签到
type CheckInRequest struct {
	MemberID int64  `json:"member_id" binding:"required,gt=0"`
	Notes    string `json:"notes"`
}

// CheckOutRequest 前台签退
type CheckOutRequest struct {
	MemberID int64 `json:"member_id" binding:"required,gt=0"`
}

// QRCheckInRequest 扫码签到：邮箱，或会员编号/数字 ID 二选一
type QRCheckInRequest struct {
	MemberEmail string `json:"member_email" binding:"omitempty,email"`
	MemberID    string `json:"member_id"`
}

// QRCheckInResponse 扫码签到结果
type QRCheckInResponse struct {
	Message    string          `json:"message"`
	GymName    string          `json:"gym_name"`
	Attendance *AttendanceInfo `json:"attendance"`
}

// AttendanceListRequest 签到列表查询
type AttendanceListRequest struct {
	PageQuery
	MemberID int64  `form:"member_id"`
	Date     string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// AttendanceInfo 签到详情
type AttendanceInfo struct {
	*model.Attendance
	MemberName string `json:"member_name"`
	MemberCode string `json:"member_code"`
}

// TodayAttendanceResponse 今日签到
type TodayAttendanceResponse struct {
	Date           string            `json:"date"`
	TotalCheckIns  int               `json:"total_checkins"`
	TotalCheckOuts int               `json:"total_checkouts"`
	Attendances    []*AttendanceInfo `json:"attendances"`
}

// DailyCount 某天签到人数
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// HourCount 某小时签到人数
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// AttendanceAnalytics 签到分析
type AttendanceAnalytics struct {
	TodayCount            int          `json:"today_count"`
	WeeklyTotal           int          `json:"weekly_total"`
	MonthlyTotal          int          `json:"monthly_total"`
	AverageSessionMinutes float64      `json:"average_session_minutes"`
	DailyCounts           []DailyCount `json:"daily_counts"`
	PeakHours             []HourCount  `json:"peak_hours"`
}
