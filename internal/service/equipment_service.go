package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrEquipmentNotFound = errors.New("Equipment not found")
)

type EquipmentService struct {
	db            *gorm.DB
	equipmentRepo *repository.EquipmentRepository
}

func NewEquipmentService(db *gorm.DB, equipmentRepo *repository.EquipmentRepository) *EquipmentService {
	return &EquipmentService{db: db, equipmentRepo: equipmentRepo}
}

func (s *EquipmentService) Create(gymOwnerID int64, req *dto.CreateEquipmentRequest) (*dto.EquipmentInfo, error) {
	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	warranty, err := parseOptionalDate(req.WarrantyExpiry)
	if err != nil {
		return nil, err
	}
	lastMaintenance, err := parseOptionalDate(req.LastMaintenanceDate)
	if err != nil {
		return nil, err
	}
	nextMaintenance, err := parseOptionalDate(req.NextMaintenanceDate)
	if err != nil {
		return nil, err
	}

	condition := req.Condition
	if condition == "" {
		condition = "good"
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	equipment := &model.Equipment{
		GymOwnerID:          gymOwnerID,
		Name:                req.Name,
		EquipmentType:       req.EquipmentType,
		Brand:               req.Brand,
		Model:               req.Model,
		PurchaseDate:        purchaseDate,
		Price:               req.Price,
		WarrantyExpiry:      warranty,
		IsWorking:           boolValue(req.IsWorking, true),
		Condition:           condition,
		LastMaintenanceDate: lastMaintenance,
		NextMaintenanceDate: nextMaintenance,
		Quantity:            quantity,
		SerialNumber:        req.SerialNumber,
		Location:            req.Location,
		Notes:               req.Notes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		code, err := repository.NextCode(tx, repository.EquipmentCode, gymOwnerID)
		if err != nil {
			return err
		}
		equipment.EquipmentID = code
		return s.equipmentRepo.WithTx(tx).Create(equipment)
	})
	if err != nil {
		return nil, err
	}

	return buildEquipmentInfo(equipment, clock.Today()), nil
}

func (s *EquipmentService) Get(gymOwnerID, id int64) (*dto.EquipmentInfo, error) {
	equipment, err := s.equipmentRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrEquipmentNotFound)
	}
	return buildEquipmentInfo(equipment, clock.Today()), nil
}

func (s *EquipmentService) List(gymOwnerID int64, req *dto.EquipmentListRequest) ([]*dto.EquipmentInfo, int64, error) {
	filter := repository.EquipmentFilter{
		Search:        req.Search,
		EquipmentType: req.EquipmentType,
		Condition:     req.Condition,
		IsWorking:     req.IsWorking,
	}
	items, total, err := s.equipmentRepo.List(gymOwnerID, filter, toPagination(req.PageQuery))
	if err != nil {
		return nil, 0, err
	}
	return buildEquipmentInfos(items), total, nil
}

// ListWorking 正常工作的器械
func (s *EquipmentService) ListWorking(gymOwnerID int64, q dto.PageQuery) ([]*dto.EquipmentInfo, int64, error) {
	working := true
	items, total, err := s.equipmentRepo.List(gymOwnerID, repository.EquipmentFilter{IsWorking: &working}, toPagination(q))
	if err != nil {
		return nil, 0, err
	}
	return buildEquipmentInfos(items), total, nil
}

// ByType 按类型汇总
func (s *EquipmentService) ByType(gymOwnerID int64) ([]*dto.EquipmentTypeSummary, error) {
	rows, err := s.equipmentRepo.CountByType(gymOwnerID)
	if err != nil {
		return nil, err
	}
	summaries := make([]*dto.EquipmentTypeSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, &dto.EquipmentTypeSummary{
			EquipmentType: row.EquipmentType,
			Count:         row.Count,
			Quantity:      row.Quantity,
		})
	}
	return summaries, nil
}

// MaintenanceDue 到期需要维护的器械
func (s *EquipmentService) MaintenanceDue(gymOwnerID int64) ([]*dto.EquipmentInfo, error) {
	items, err := s.equipmentRepo.ListMaintenanceDue(gymOwnerID, clock.Today())
	if err != nil {
		return nil, err
	}
	return buildEquipmentInfos(items), nil
}

func (s *EquipmentService) Update(gymOwnerID, id int64, req *dto.UpdateEquipmentRequest) (*dto.EquipmentInfo, error) {
	equipment, err := s.equipmentRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrEquipmentNotFound)
	}

	if req.Name != nil {
		equipment.Name = *req.Name
	}
	if req.EquipmentType != nil {
		equipment.EquipmentType = *req.EquipmentType
	}
	if req.Brand != nil {
		equipment.Brand = *req.Brand
	}
	if req.Model != nil {
		equipment.Model = *req.Model
	}
	if req.PurchaseDate != nil {
		if equipment.PurchaseDate, err = parseDate(*req.PurchaseDate); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		equipment.Price = *req.Price
	}
	if req.WarrantyExpiry != nil {
		if equipment.WarrantyExpiry, err = parseOptionalDate(*req.WarrantyExpiry); err != nil {
			return nil, err
		}
	}
	if req.IsWorking != nil {
		equipment.IsWorking = *req.IsWorking
	}
	if req.Condition != nil {
		equipment.Condition = *req.Condition
	}
	if req.LastMaintenanceDate != nil {
		if equipment.LastMaintenanceDate, err = parseOptionalDate(*req.LastMaintenanceDate); err != nil {
			return nil, err
		}
	}
	if req.NextMaintenanceDate != nil {
		if equipment.NextMaintenanceDate, err = parseOptionalDate(*req.NextMaintenanceDate); err != nil {
			return nil, err
		}
	}
	if req.Quantity != nil {
		equipment.Quantity = *req.Quantity
	}
	if req.SerialNumber != nil {
		equipment.SerialNumber = *req.SerialNumber
	}
	if req.Location != nil {
		equipment.Location = *req.Location
	}
	if req.Notes != nil {
		equipment.Notes = *req.Notes
	}

	if err := s.equipmentRepo.Update(equipment); err != nil {
		return nil, err
	}
	return buildEquipmentInfo(equipment, clock.Today()), nil
}

func (s *EquipmentService) Delete(gymOwnerID, id int64) error {
	if _, err := s.equipmentRepo.GetByID(gymOwnerID, id); err != nil {
		return notFound(err, ErrEquipmentNotFound)
	}
	return s.equipmentRepo.Delete(gymOwnerID, id)
}

func buildEquipmentInfo(e *model.Equipment, today time.Time) *dto.EquipmentInfo {
	return &dto.EquipmentInfo{
		Equipment:        e,
		IsUnderWarranty:  e.IsUnderWarranty(today),
		IsMaintenanceDue: e.IsMaintenanceDue(today),
	}
}

func buildEquipmentInfos(items []*model.Equipment) []*dto.EquipmentInfo {
	today := clock.Today()
	infos := make([]*dto.EquipmentInfo, 0, len(items))
	for _, e := range items {
		infos = append(infos, buildEquipmentInfo(e, today))
	}
	return infos
}
