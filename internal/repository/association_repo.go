package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/gym_go_server/internal/model"
)

// AssociationFilter 教练会员绑定筛选条件
type AssociationFilter struct {
	TrainerID int64
	MemberID  int64
	IsActive  *bool
}

type AssociationRepository struct {
	db *gorm.DB
}

func NewAssociationRepository(db *gorm.DB) *AssociationRepository {
	return &AssociationRepository{db: db}
}

func (r *AssociationRepository) WithTx(tx *gorm.DB) *AssociationRepository {
	return &AssociationRepository{db: tx}
}

func (r *AssociationRepository) Create(assoc *model.TrainerMemberAssociation) error {
	return r.db.Omit(clause.Associations).Create(assoc).Error
}

// Get 按 (健身房, 教练, 会员) 查找绑定，无论是否启用
func (r *AssociationRepository) Get(gymOwnerID, trainerID, memberID int64) (*model.TrainerMemberAssociation, error) {
	var assoc model.TrainerMemberAssociation
	err := r.db.Where("gym_owner_id = ? AND trainer_id = ? AND member_id = ?", gymOwnerID, trainerID, memberID).
		First(&assoc).Error
	if err != nil {
		return nil, err
	}
	return &assoc, nil
}

func (r *AssociationRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.TrainerMemberAssociation{}).Where("id = ?", id).Updates(fields).Error
}

func (r *AssociationRepository) List(gymOwnerID int64, filter AssociationFilter, p Pagination) ([]*model.TrainerMemberAssociation, int64, error) {
	var assocs []*model.TrainerMemberAssociation

	query := r.db.Model(&model.TrainerMemberAssociation{}).Where("gym_owner_id = ?", gymOwnerID)
	if filter.TrainerID > 0 {
		query = query.Where("trainer_id = ?", filter.TrainerID)
	}
	if filter.MemberID > 0 {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	total, err := paginate(query, p, "assigned_date DESC, id DESC", &assocs, "Trainer.User", "Member.User")
	if err != nil {
		return nil, 0, err
	}
	return assocs, total, nil
}

// ListMembersOfTrainer 教练当前带的会员
func (r *AssociationRepository) ListMembersOfTrainer(gymOwnerID, trainerID int64) ([]*model.Member, error) {
	var members []*model.Member
	err := r.db.Preload("User").
		Joins("JOIN trainer_member_associations tma ON tma.member_id = members.id").
		Where("tma.gym_owner_id = ? AND tma.trainer_id = ? AND tma.is_active = ?", gymOwnerID, trainerID, true).
		Order("tma.assigned_date DESC").
		Find(&members).Error
	return members, err
}

// DeleteByTrainer 删除教练的全部绑定
func (r *AssociationRepository) DeleteByTrainer(gymOwnerID, trainerID int64) error {
	return r.db.Where("gym_owner_id = ? AND trainer_id = ?", gymOwnerID, trainerID).
		Delete(&model.TrainerMemberAssociation{}).Error
}
