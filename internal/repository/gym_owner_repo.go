package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

type GymOwnerRepository struct {
	db *gorm.DB
}

func NewGymOwnerRepository(db *gorm.DB) *GymOwnerRepository {
	return &GymOwnerRepository{db: db}
}

func (r *GymOwnerRepository) WithTx(tx *gorm.DB) *GymOwnerRepository {
	return &GymOwnerRepository{db: tx}
}

func (r *GymOwnerRepository) Create(owner *model.GymOwner) error {
	return r.db.Omit("User").Create(owner).Error
}

func (r *GymOwnerRepository) GetByID(id int64) (*model.GymOwner, error) {
	var owner model.GymOwner
	err := r.db.Preload("User").Where("id = ?", id).First(&owner).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *GymOwnerRepository) GetByUserID(userID int64) (*model.GymOwner, error) {
	var owner model.GymOwner
	err := r.db.Preload("User").Where("user_id = ?", userID).First(&owner).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

// GetByQRToken 通过签到二维码找到启用中的健身房
func (r *GymOwnerRepository) GetByQRToken(token string) (*model.GymOwner, error) {
	var owner model.GymOwner
	err := r.db.Where("qr_code_token = ? AND is_active = ?", token, true).First(&owner).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *GymOwnerRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.GymOwner{}).Where("id = ?", id).Updates(fields).Error
}

// ListActive 所有启用中的健身房
func (r *GymOwnerRepository) ListActive() ([]*model.GymOwner, error) {
	var owners []*model.GymOwner
	err := r.db.Preload("User").Where("is_active = ?", true).Order("id ASC").Find(&owners).Error
	return owners, err
}

// GetByIDs 批量查询，供维护任务按健身房分组使用
func (r *GymOwnerRepository) GetByIDs(ids []int64) ([]*model.GymOwner, error) {
	var owners []*model.GymOwner
	if len(ids) == 0 {
		return owners, nil
	}
	err := r.db.Preload("User").Where("id IN ?", ids).Find(&owners).Error
	return owners, err
}
