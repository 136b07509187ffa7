package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/gym_go_server/internal/model"
)

// AttendanceFilter 签到记录筛选条件；日期为日历日期
type AttendanceFilter struct {
	MemberID int64
	Date     *time.Time
	DateFrom *time.Time
	DateTo   *time.Time
}

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) WithTx(tx *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: tx}
}

func (r *AttendanceRepository) Create(attendance *model.Attendance) error {
	return r.db.Omit(clause.Associations).Create(attendance).Error
}

// GetForDay 会员某天的签到记录
func (r *AttendanceRepository) GetForDay(gymOwnerID, memberID int64, date time.Time) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.db.Where("gym_owner_id = ? AND member_id = ? AND date = ?", gymOwnerID, memberID, date).
		First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

// SaveCheckOut 只写签退相关列；已签退的记录不会被覆盖
func (r *AttendanceRepository) SaveCheckOut(attendance *model.Attendance) (bool, error) {
	result := r.db.Model(&model.Attendance{}).
		Where("id = ? AND check_out_time IS NULL", attendance.ID).
		Updates(map[string]interface{}{
			"check_out_time":           attendance.CheckOutTime,
			"session_duration_minutes": attendance.SessionDurationMinutes,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *AttendanceRepository) List(gymOwnerID int64, filter AttendanceFilter, p Pagination) ([]*model.Attendance, int64, error) {
	var records []*model.Attendance

	query := r.db.Model(&model.Attendance{}).Where("gym_owner_id = ?", gymOwnerID)
	if filter.MemberID > 0 {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}

	total, err := paginate(query, p, "check_in_time DESC, id DESC", &records, "Member.User")
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListByDate 某天的全部签到
func (r *AttendanceRepository) ListByDate(gymOwnerID int64, date time.Time) ([]*model.Attendance, error) {
	var records []*model.Attendance
	err := r.db.Preload("Member.User").
		Where("gym_owner_id = ? AND date = ?", gymOwnerID, date).
		Order("check_in_time DESC").
		Find(&records).Error
	return records, err
}

// ListBetween [from, to] 内的签到，只取统计需要的列
func (r *AttendanceRepository) ListBetween(gymOwnerID int64, from, to time.Time) ([]*model.Attendance, error) {
	var records []*model.Attendance
	err := r.db.Select("id", "date", "check_in_time", "session_duration_minutes").
		Where("gym_owner_id = ? AND date BETWEEN ? AND ?", gymOwnerID, from, to).
		Order("check_in_time ASC").
		Find(&records).Error
	return records, err
}

// CountOn 某天签到人数
func (r *AttendanceRepository) CountOn(gymOwnerID int64, date time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Attendance{}).Where("gym_owner_id = ? AND date = ?", gymOwnerID, date).Count(&count).Error
	return count, err
}
