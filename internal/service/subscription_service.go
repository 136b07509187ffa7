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
	ErrSubscriptionNotFound = errors.New("Member subscription not found")
)

// expiringSoonDays 订阅即将到期的提前天数
const expiringSoonDays = 7

type SubscriptionService struct {
	db         *gorm.DB
	subRepo    *repository.SubscriptionRepository
	memberRepo *repository.MemberRepository
	planRepo   *repository.PlanRepository
}

func NewSubscriptionService(
	db *gorm.DB,
	subRepo *repository.SubscriptionRepository,
	memberRepo *repository.MemberRepository,
	planRepo *repository.PlanRepository,
) *SubscriptionService {
	return &SubscriptionService{
		db:         db,
		subRepo:    subRepo,
		memberRepo: memberRepo,
		planRepo:   planRepo,
	}
}

// Create 新建订阅；未给 end_date 时按套餐时长从 start_date 推算
func (s *SubscriptionService) Create(gymOwnerID int64, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionInfo, error) {
	member, err := s.memberRepo.GetByID(gymOwnerID, req.MemberID)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	plan, err := s.planRepo.GetByID(gymOwnerID, req.SubscriptionPlanID)
	if err != nil {
		return nil, notFound(err, ErrPlanNotFound)
	}

	start, err := parseDateOr(req.StartDate, clock.Today())
	if err != nil {
		return nil, err
	}
	end, err := parseDateOr(req.EndDate, PlanEndDate(plan, start))
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	status := req.Status
	if status == "" {
		status = model.SubscriptionActive
	}

	sub := &model.MemberSubscription{
		GymOwnerID:         gymOwnerID,
		MemberID:           member.ID,
		SubscriptionPlanID: plan.ID,
		StartDate:          start,
		EndDate:            end,
		Status:             status,
		AutoRenew:          req.AutoRenew,
		AmountPaid:         req.AmountPaid,
		PaymentMethod:      req.PaymentMethod,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		code, err := repository.NextCode(tx, repository.SubscriptionCode, gymOwnerID)
		if err != nil {
			return err
		}
		sub.SubscriptionID = code
		return s.subRepo.WithTx(tx).Create(sub)
	})
	if err != nil {
		return nil, err
	}

	sub.Member = member
	sub.SubscriptionPlan = plan
	return buildSubscriptionInfo(sub, clock.Today()), nil
}

func (s *SubscriptionService) Get(gymOwnerID, id int64) (*dto.SubscriptionInfo, error) {
	sub, err := s.subRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrSubscriptionNotFound)
	}
	return buildSubscriptionInfo(sub, clock.Today()), nil
}

func (s *SubscriptionService) List(gymOwnerID int64, req *dto.SubscriptionListRequest) ([]*dto.SubscriptionInfo, int64, error) {
	filter := repository.SubscriptionFilter{
		MemberID: req.MemberID,
		PlanID:   req.PlanID,
		Status:   req.Status,
	}
	subs, total, err := s.subRepo.List(gymOwnerID, filter, toPagination(req.PageQuery))
	if err != nil {
		return nil, 0, err
	}
	return buildSubscriptionInfos(subs), total, nil
}

// ListActive 状态有效且未过期
func (s *SubscriptionService) ListActive(gymOwnerID int64) ([]*dto.SubscriptionInfo, error) {
	subs, err := s.subRepo.ListActive(gymOwnerID, clock.Today())
	if err != nil {
		return nil, err
	}
	return buildSubscriptionInfos(subs), nil
}

// ListExpiringSoon 七天内到期
func (s *SubscriptionService) ListExpiringSoon(gymOwnerID int64) ([]*dto.SubscriptionInfo, error) {
	today := clock.Today()
	subs, err := s.subRepo.ListExpiringSoon(gymOwnerID, today, clock.AddDays(today, expiringSoonDays))
	if err != nil {
		return nil, err
	}
	return buildSubscriptionInfos(subs), nil
}

func (s *SubscriptionService) Update(gymOwnerID, id int64, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionInfo, error) {
	sub, err := s.subRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrSubscriptionNotFound)
	}

	if req.StartDate != nil {
		if sub.StartDate, err = parseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if sub.EndDate, err = parseDate(*req.EndDate); err != nil {
			return nil, err
		}
	}
	if sub.EndDate.Before(sub.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if req.Status != nil {
		sub.Status = *req.Status
	}
	if req.AutoRenew != nil {
		sub.AutoRenew = *req.AutoRenew
	}
	if req.AmountPaid != nil {
		sub.AmountPaid = *req.AmountPaid
	}
	if req.PaymentMethod != nil {
		sub.PaymentMethod = *req.PaymentMethod
	}

	if err := s.subRepo.Update(sub); err != nil {
		return nil, err
	}
	return buildSubscriptionInfo(sub, clock.Today()), nil
}

func (s *SubscriptionService) Delete(gymOwnerID, id int64) error {
	if _, err := s.subRepo.GetByID(gymOwnerID, id); err != nil {
		return notFound(err, ErrSubscriptionNotFound)
	}
	return s.subRepo.Delete(gymOwnerID, id)
}

// PlanEndDate 按套餐时长推算结束日期，一个月按 30 天、一年按 365 天计
func PlanEndDate(plan *model.SubscriptionPlan, start time.Time) time.Time {
	v := plan.DurationValue
	switch plan.DurationType {
	case "days":
		return clock.AddDays(start, v)
	case "weeks":
		return clock.AddDays(start, 7*v)
	case "years":
		return clock.AddDays(start, 365*v)
	default:
		return clock.AddDays(start, 30*v)
	}
}

func buildSubscriptionInfo(sub *model.MemberSubscription, today time.Time) *dto.SubscriptionInfo {
	info := &dto.SubscriptionInfo{
		MemberSubscription: sub,
		IsActive:           sub.IsActiveOn(today),
		IsExpired:          sub.IsExpiredOn(today),
		IsExpiringSoon:     sub.IsExpiringSoonOn(today),
		DaysRemaining:      sub.DaysRemainingOn(today),
	}
	if sub.Member != nil {
		info.MemberName = sub.Member.FullName()
	}
	if sub.SubscriptionPlan != nil {
		info.PlanName = sub.SubscriptionPlan.Name
	}
	return info
}

func buildSubscriptionInfos(subs []*model.MemberSubscription) []*dto.SubscriptionInfo {
	today := clock.Today()
	infos := make([]*dto.SubscriptionInfo, 0, len(subs))
	for _, sub := range subs {
		infos = append(infos, buildSubscriptionInfo(sub, today))
	}
	return infos
}
