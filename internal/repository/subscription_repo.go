package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/gym_go_server/internal/model"
)

// SubscriptionFilter 会员订阅筛选条件
type SubscriptionFilter struct {
	MemberID int64
	PlanID   int64
	Status   string
}

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) WithTx(tx *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: tx}
}

func (r *SubscriptionRepository) Create(sub *model.MemberSubscription) error {
	return r.db.Omit(clause.Associations).Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(gymOwnerID, id int64) (*model.MemberSubscription, error) {
	var sub model.MemberSubscription
	err := r.db.Preload("Member.User").Preload("SubscriptionPlan").
		Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetByMemberAndPlan 会员在某套餐下的订阅，有多条时取最早的一条
func (r *SubscriptionRepository) GetByMemberAndPlan(memberID, planID int64) (*model.MemberSubscription, error) {
	var sub model.MemberSubscription
	err := r.db.Where("member_id = ? AND subscription_plan_id = ?", memberID, planID).
		Order("id ASC").First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(sub *model.MemberSubscription) error {
	return r.db.Omit(clause.Associations, "subscription_id", "gym_owner_id", "created_at").Save(sub).Error
}

func (r *SubscriptionRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.MemberSubscription{}).Where("id = ?", id).Updates(fields).Error
}

func (r *SubscriptionRepository) Delete(gymOwnerID, id int64) error {
	return r.db.Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).Delete(&model.MemberSubscription{}).Error
}

func (r *SubscriptionRepository) List(gymOwnerID int64, filter SubscriptionFilter, p Pagination) ([]*model.MemberSubscription, int64, error) {
	var subs []*model.MemberSubscription

	query := r.db.Model(&model.MemberSubscription{}).Where("gym_owner_id = ?", gymOwnerID)
	if filter.MemberID > 0 {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.PlanID > 0 {
		query = query.Where("subscription_plan_id = ?", filter.PlanID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	total, err := paginate(query, p, "end_date DESC, id DESC", &subs, "Member.User", "SubscriptionPlan")
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// ListActive 状态为 active 且未过期
func (r *SubscriptionRepository) ListActive(gymOwnerID int64, today time.Time) ([]*model.MemberSubscription, error) {
	var subs []*model.MemberSubscription
	err := r.db.Preload("Member.User").Preload("SubscriptionPlan").
		Where("gym_owner_id = ? AND status = ? AND end_date >= ?", gymOwnerID, model.SubscriptionActive, today).
		Order("end_date ASC").
		Find(&subs).Error
	return subs, err
}

// ListExpiringSoon 状态为 active 且在 [today, until] 内结束
func (r *SubscriptionRepository) ListExpiringSoon(gymOwnerID int64, today, until time.Time) ([]*model.MemberSubscription, error) {
	var subs []*model.MemberSubscription
	err := r.db.Preload("Member.User").Preload("SubscriptionPlan").
		Where("gym_owner_id = ? AND status = ? AND end_date BETWEEN ? AND ?", gymOwnerID, model.SubscriptionActive, today, until).
		Order("end_date ASC").
		Find(&subs).Error
	return subs, err
}
