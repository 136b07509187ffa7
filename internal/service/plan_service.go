package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrPlanNotFound = errors.New("Subscription plan not found")
)

type PlanService struct {
	db       *gorm.DB
	planRepo *repository.PlanRepository
}

func NewPlanService(db *gorm.DB, planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{db: db, planRepo: planRepo}
}

func (s *PlanService) Create(gymOwnerID int64, req *dto.CreatePlanRequest) (*dto.PlanInfo, error) {
	durationValue := req.DurationValue
	if durationValue == 0 {
		durationValue = 1
	}
	durationType := req.DurationType
	if durationType == "" {
		durationType = "months"
	}

	plan := &model.SubscriptionPlan{
		GymOwnerID:         gymOwnerID,
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		DurationValue:      durationValue,
		DurationType:       durationType,
		Features:           model.StringArray(req.Features),
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           boolValue(req.IsActive, true),
		MaxMembers:         req.MaxMembers,
		IncludesTrainer:    req.IncludesTrainer,
		IncludesNutrition:  req.IncludesNutrition,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		code, err := repository.NextCode(tx, repository.PlanCode, gymOwnerID)
		if err != nil {
			return err
		}
		plan.PlanID = code
		return s.planRepo.WithTx(tx).Create(plan)
	})
	if err != nil {
		return nil, err
	}
	return buildPlanInfo(plan), nil
}

func (s *PlanService) Get(gymOwnerID, id int64) (*dto.PlanInfo, error) {
	plan, err := s.planRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrPlanNotFound)
	}
	return buildPlanInfo(plan), nil
}

func (s *PlanService) List(gymOwnerID int64, req *dto.PlanListRequest) ([]*dto.PlanInfo, int64, error) {
	filter := repository.PlanFilter{Search: req.Search, IsActive: req.IsActive}
	plans, total, err := s.planRepo.List(gymOwnerID, filter, toPagination(req.PageQuery))
	if err != nil {
		return nil, 0, err
	}
	return buildPlanInfos(plans), total, nil
}

// ListActive 可售卖的套餐
func (s *PlanService) ListActive(gymOwnerID int64, q dto.PageQuery) ([]*dto.PlanInfo, int64, error) {
	active := true
	plans, total, err := s.planRepo.List(gymOwnerID, repository.PlanFilter{IsActive: &active}, toPagination(q))
	if err != nil {
		return nil, 0, err
	}
	return buildPlanInfos(plans), total, nil
}

func (s *PlanService) Update(gymOwnerID, id int64, req *dto.UpdatePlanRequest) (*dto.PlanInfo, error) {
	plan, err := s.planRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrPlanNotFound)
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.DurationValue != nil {
		plan.DurationValue = *req.DurationValue
	}
	if req.DurationType != nil {
		plan.DurationType = *req.DurationType
	}
	if req.Features != nil {
		plan.Features = model.StringArray(*req.Features)
	}
	if req.DiscountPercentage != nil {
		plan.DiscountPercentage = *req.DiscountPercentage
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.MaxMembers != nil {
		plan.MaxMembers = req.MaxMembers
	}
	if req.IncludesTrainer != nil {
		plan.IncludesTrainer = *req.IncludesTrainer
	}
	if req.IncludesNutrition != nil {
		plan.IncludesNutrition = *req.IncludesNutrition
	}

	if err := s.planRepo.Update(plan); err != nil {
		return nil, err
	}
	return buildPlanInfo(plan), nil
}

func (s *PlanService) Delete(gymOwnerID, id int64) error {
	if _, err := s.planRepo.GetByID(gymOwnerID, id); err != nil {
		return notFound(err, ErrPlanNotFound)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.planRepo.WithTx(tx).DeleteWithDependents(gymOwnerID, id)
	})
}

func buildPlanInfo(plan *model.SubscriptionPlan) *dto.PlanInfo {
	if plan.Features == nil {
		plan.Features = model.StringArray{}
	}
	return &dto.PlanInfo{
		SubscriptionPlan: plan,
		DurationInMonths: plan.DurationInMonths(),
		DiscountedPrice:  plan.DiscountedPrice(),
	}
}

func buildPlanInfos(plans []*model.SubscriptionPlan) []*dto.PlanInfo {
	infos := make([]*dto.PlanInfo, 0, len(plans))
	for _, p := range plans {
		infos = append(infos, buildPlanInfo(p))
	}
	return infos
}
