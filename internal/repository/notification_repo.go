package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

// NotificationFilter 通知筛选条件
type NotificationFilter struct {
	IsRead *bool
	Type   string
}

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) GetByID(gymOwnerID, id int64) (*model.Notification, error) {
	var n model.Notification
	err := r.db.Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) List(gymOwnerID int64, filter NotificationFilter, p Pagination) ([]*model.Notification, int64, error) {
	var items []*model.Notification

	query := r.db.Model(&model.Notification{}).Where("gym_owner_id = ?", gymOwnerID)
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	if filter.Type != "" {
		query = query.Where("notification_type = ?", filter.Type)
	}

	total, err := paginate(query, p, "created_at DESC, id DESC", &items)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *NotificationRepository) CountUnread(gymOwnerID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).Where("gym_owner_id = ? AND is_read = ?", gymOwnerID, false).Count(&count).Error
	return count, err
}

// MarkRead 标记单条已读，返回是否有记录被更新
func (r *NotificationRepository) MarkRead(gymOwnerID, id int64, at time.Time) (bool, error) {
	result := r.db.Model(&model.Notification{}).
		Where("id = ? AND gym_owner_id = ? AND is_read = ?", id, gymOwnerID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return result.RowsAffected > 0, result.Error
}

// MarkAllRead 全部标记已读，返回更新条数
func (r *NotificationRepository) MarkAllRead(gymOwnerID int64, at time.Time) (int64, error) {
	result := r.db.Model(&model.Notification{}).
		Where("gym_owner_id = ? AND is_read = ?", gymOwnerID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return result.RowsAffected, result.Error
}

// HasUnreadFor 会员是否已有该类型的未读通知
func (r *NotificationRepository) HasUnreadFor(gymOwnerID int64, notificationType string, memberID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("gym_owner_id = ? AND notification_type = ? AND related_member_id = ? AND is_read = ?",
			gymOwnerID, notificationType, memberID, false).
		Count(&count).Error
	return count > 0, err
}

// DeleteByMember 删除会员相关的通知
func (r *NotificationRepository) DeleteByMember(memberID int64) error {
	return r.db.Where("related_member_id = ?", memberID).Delete(&model.Notification{}).Error
}
