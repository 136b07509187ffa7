package dto

// DashboardStats 仪表盘统计
type DashboardStats struct {
	TotalMembers        int64   `json:"total_members"`
	ActiveMembers       int64   `json:"active_members"`
	ExpiredMembers      int64   `json:"expired_members"`
	ExpiringMembers     int64   `json:"expiring_members"`
	TotalTrainers       int64   `json:"total_trainers"`
	AvailableTrainers   int64   `json:"available_trainers"`
	TotalEquipment      int64   `json:"total_equipment"`
	WorkingEquipment    int64   `json:"working_equipment"`
	TodayAttendance     int64   `json:"today_attendance"`
	MonthlyRevenue      float64 `json:"monthly_revenue"`
	UnreadNotifications int64   `json:"unread_notifications"`
}
