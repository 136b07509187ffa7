package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

// EquipmentFilter 器械列表筛选条件
type EquipmentFilter struct {
	Search        string
	EquipmentType string
	Condition     string
	IsWorking     *bool
}

// TypeCount 按类型汇总的器械数量
type TypeCount struct {
	EquipmentType string `json:"equipment_type"`
	Count         int64  `json:"count"`
	Quantity      int64  `json:"quantity"`
}

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) WithTx(tx *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: tx}
}

func (r *EquipmentRepository) Create(equipment *model.Equipment) error {
	return r.db.Create(equipment).Error
}

func (r *EquipmentRepository) GetByID(gymOwnerID, id int64) (*model.Equipment, error) {
	var equipment model.Equipment
	err := r.db.Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).First(&equipment).Error
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *EquipmentRepository) Update(equipment *model.Equipment) error {
	return r.db.Omit("equipment_id", "gym_owner_id", "created_at").Save(equipment).Error
}

func (r *EquipmentRepository) Delete(gymOwnerID, id int64) error {
	return r.db.Where("id = ? AND gym_owner_id = ?", id, gymOwnerID).Delete(&model.Equipment{}).Error
}

func (r *EquipmentRepository) List(gymOwnerID int64, filter EquipmentFilter, p Pagination) ([]*model.Equipment, int64, error) {
	var items []*model.Equipment

	query := r.db.Model(&model.Equipment{}).Where("gym_owner_id = ?", gymOwnerID)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR brand LIKE ? OR equipment_id LIKE ?", like, like, like)
	}
	if filter.EquipmentType != "" {
		query = query.Where("equipment_type = ?", filter.EquipmentType)
	}
	if filter.Condition != "" {
		query = query.Where("`condition` = ?", filter.Condition)
	}
	if filter.IsWorking != nil {
		query = query.Where("is_working = ?", *filter.IsWorking)
	}

	total, err := paginate(query, p, "created_at DESC, id DESC", &items)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListMaintenanceDue 计划维护日期不晚于 today 的器械
func (r *EquipmentRepository) ListMaintenanceDue(gymOwnerID int64, today time.Time) ([]*model.Equipment, error) {
	var items []*model.Equipment
	err := r.db.Where("gym_owner_id = ? AND next_maintenance_date IS NOT NULL AND next_maintenance_date <= ?", gymOwnerID, today).
		Order("next_maintenance_date ASC").
		Find(&items).Error
	return items, err
}

// CountByType 按类型统计
func (r *EquipmentRepository) CountByType(gymOwnerID int64) ([]TypeCount, error) {
	var rows []TypeCount
	err := r.db.Model(&model.Equipment{}).
		Select("equipment_type, COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS quantity").
		Where("gym_owner_id = ?", gymOwnerID).
		Group("equipment_type").
		Order("equipment_type ASC").
		Scan(&rows).Error
	return rows, err
}

// Count 器械总数与正常工作的数量
func (r *EquipmentRepository) Count(gymOwnerID int64) (total, working int64, err error) {
	if err = r.db.Model(&model.Equipment{}).Where("gym_owner_id = ?", gymOwnerID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.Model(&model.Equipment{}).Where("gym_owner_id = ? AND is_working = ?", gymOwnerID, true).Count(&working).Error
	return total, working, err
}
