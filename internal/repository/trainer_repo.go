package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/gym_go_server/internal/model"
)

// TrainerFilter 教练列表筛选条件
type TrainerFilter struct {
	Search         string
	Specialization string
	IsAvailable    *bool
}

type TrainerRepository struct {
	db *gorm.DB
}

func NewTrainerRepository(db *gorm.DB) *TrainerRepository {
	return &TrainerRepository{db: db}
}

func (r *TrainerRepository) WithTx(tx *gorm.DB) *TrainerRepository {
	return &TrainerRepository{db: tx}
}

func (r *TrainerRepository) Create(trainer *model.Trainer) error {
	return r.db.Omit(clause.Associations).Create(trainer).Error
}

func (r *TrainerRepository) GetByID(gymOwnerID, id int64) (*model.Trainer, error) {
	var trainer model.Trainer
	err := r.db.Preload("User").Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).First(&trainer).Error
	if err != nil {
		return nil, err
	}
	return &trainer, nil
}

// Update 保存资料；教练编号不可修改
func (r *TrainerRepository) Update(trainer *model.Trainer) error {
	return r.db.Omit(clause.Associations, "trainer_id", "gym_owner_id", "created_at").Save(trainer).Error
}

func (r *TrainerRepository) Delete(gymOwnerID, id int64) error {
	return r.db.Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).Delete(&model.Trainer{}).Error
}

func (r *TrainerRepository) List(gymOwnerID int64, filter TrainerFilter, p Pagination) ([]*model.Trainer, int64, error) {
	var trainers []*model.Trainer

	query := r.db.Model(&model.Trainer{}).Where("trainers.gym_owner_id = ?", gymOwnerID)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Joins("JOIN users ON users.id = trainers.user_id").
			Where("trainers.trainer_id LIKE ? OR users.first_name LIKE ? OR users.last_name LIKE ? OR users.email LIKE ?",
				like, like, like, like)
	}
	if filter.Specialization != "" {
		query = query.Where("trainers.specialization = ?", filter.Specialization)
	}
	if filter.IsAvailable != nil {
		query = query.Where("trainers.is_available = ?", *filter.IsAvailable)
	}

	total, err := paginate(query, p, "trainers.created_at DESC, trainers.id DESC", &trainers, "User")
	if err != nil {
		return nil, 0, err
	}
	return trainers, total, nil
}

// Count 教练总数与可预约数
func (r *TrainerRepository) Count(gymOwnerID int64) (total, available int64, err error) {
	if err = r.db.Model(&model.Trainer{}).Where("gym_owner_id = ?", gymOwnerID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.Model(&model.Trainer{}).Where("gym_owner_id = ? AND is_available = ?", gymOwnerID, true).Count(&available).Error
	return total, available, err
}
