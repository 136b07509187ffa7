package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

// PlanFilter 套餐列表筛选条件
type PlanFilter struct {
	Search   string
	IsActive *bool
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) WithTx(tx *gorm.DB) *PlanRepository {
	return &PlanRepository{db: tx}
}

func (r *PlanRepository) Create(plan *model.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepository) GetByID(gymOwnerID, id int64) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.db.Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) Update(plan *model.SubscriptionPlan) error {
	return r.db.Omit("plan_id", "gym_owner_id", "created_at").Save(plan).Error
}

func (r *PlanRepository) Delete(gymOwnerID, id int64) error {
	return r.db.Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).Delete(&model.SubscriptionPlan{}).Error
}

// DeleteWithDependents 删除套餐及其会员订阅；历史支付保留，只解除与套餐和订阅的关联。调用方负责事务
func (r *PlanRepository) DeleteWithDependents(gymOwnerID, id int64) error {
	subs := r.db.Model(&model.MemberSubscription{}).Select("id").Where("subscription_plan_id = ?", id)
	err := r.db.Model(&model.MembershipPayment{}).
		Where("gym_owner_id = ? AND member_subscription_id IN (?)", gymOwnerID, subs).
		Update("member_subscription_id", nil).Error
	if err != nil {
		return err
	}
	err = r.db.Model(&model.MembershipPayment{}).
		Where("gym_owner_id = ? AND subscription_plan_id = ?", gymOwnerID, id).
		Update("subscription_plan_id", nil).Error
	if err != nil {
		return err
	}
	if err := r.db.Where("subscription_plan_id = ?", id).Delete(&model.MemberSubscription{}).Error; err != nil {
		return err
	}
	return r.Delete(gymOwnerID, id)
}

func (r *PlanRepository) List(gymOwnerID int64, filter PlanFilter, p Pagination) ([]*model.SubscriptionPlan, int64, error) {
	var plans []*model.SubscriptionPlan

	query := r.db.Model(&model.SubscriptionPlan{}).Where("gym_owner_id = ?", gymOwnerID)
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	total, err := paginate(query, p, "price ASC, id ASC", &plans)
	if err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}
