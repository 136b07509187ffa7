package service

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/cache"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/metrics"
	"github.com/qs3c/gym_go_server/internal/repository"
)

// trendMonths 收入趋势覆盖当月及之前 11 个月
const trendMonths = 12

type PaymentService struct {
	db          *gorm.DB
	paymentRepo *repository.PaymentRepository
	memberRepo  *repository.MemberRepository
	planRepo    *repository.PlanRepository
	membership  *MembershipService
	store       cache.Store
	revenueTTL  time.Duration
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	memberRepo *repository.MemberRepository,
	planRepo *repository.PlanRepository,
	membership *MembershipService,
	store cache.Store,
	cfg config.CacheConfig,
) *PaymentService {
	if store == nil {
		store = cache.NoopStore{}
	}
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		memberRepo:  memberRepo,
		planRepo:    planRepo,
		membership:  membership,
		store:       store,
		revenueTTL:  time.Duration(cfg.RevenueTTLSeconds) * time.Second,
	}
}

// Create 记录支付；已完成且购买了月数时顺带延长会员期
func (s *PaymentService) Create(ctx context.Context, gymOwnerID int64, req *dto.CreatePaymentRequest) (*dto.PaymentInfo, error) {
	member, err := s.memberRepo.GetByID(gymOwnerID, req.MemberID)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}

	var plan *model.SubscriptionPlan
	if req.SubscriptionPlanID != nil {
		plan, err = s.planRepo.GetByID(gymOwnerID, *req.SubscriptionPlanID)
		if err != nil {
			return nil, notFound(err, ErrPlanNotFound)
		}
	}

	paymentDate := clock.Now()
	if req.PaymentDate != "" {
		date, err := parseDate(req.PaymentDate)
		if err != nil {
			return nil, err
		}
		paymentDate = clock.StartOfDay(date)
	}

	status := req.Status
	if status == "" {
		status = model.PaymentStatusCompleted
	}

	payment := &model.MembershipPayment{
		GymOwnerID:         gymOwnerID,
		MemberID:           member.ID,
		SubscriptionPlanID: req.SubscriptionPlanID,
		Amount:             req.Amount,
		PaymentDate:        paymentDate,
		PaymentMethod:      req.PaymentMethod,
		Status:             status,
		MembershipMonths:   membershipMonths(req.MembershipMonths, plan),
		TransactionID:      req.TransactionID,
		DiscountAmount:     req.DiscountAmount,
		TaxAmount:          req.TaxAmount,
		ReceiptNumber:      req.ReceiptNumber,
		Notes:              req.Notes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		code, err := repository.NextCode(tx, repository.PaymentCode, gymOwnerID)
		if err != nil {
			return err
		}
		payment.PaymentID = code
		return s.paymentRepo.WithTx(tx).Create(payment)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPayment(payment.PaymentMethod, payment.Status)
	logging.Ctx(ctx).Info().
		Int64("gym_owner_id", gymOwnerID).
		Str("payment_id", payment.PaymentID).
		Float64("amount", payment.Amount).
		Str("status", payment.Status).
		Msg("payment recorded")

	payment.Member = member
	payment.SubscriptionPlan = plan
	s.invalidateRevenue(ctx, gymOwnerID)
	s.membership.Extend(ctx, payment)

	return s.Get(gymOwnerID, payment.ID)
}

// membershipMonths 未指定时取套餐时长（四舍五入，至少 1 个月），无套餐默认 1
func membershipMonths(requested *int, plan *model.SubscriptionPlan) int {
	if requested != nil {
		return *requested
	}
	if plan == nil {
		return 1
	}
	months := int(math.Round(plan.DurationInMonths()))
	if months < 1 {
		months = 1
	}
	return months
}

func (s *PaymentService) Get(gymOwnerID, id int64) (*dto.PaymentInfo, error) {
	payment, err := s.paymentRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrPaymentNotFound)
	}
	return buildPaymentInfo(payment), nil
}

func (s *PaymentService) List(gymOwnerID int64, req *dto.PaymentListRequest) ([]*dto.PaymentInfo, int64, error) {
	from, err := parseOptionalDate(req.DateFrom)
	if err != nil {
		return nil, 0, err
	}
	to, err := parseOptionalDate(req.DateTo)
	if err != nil {
		return nil, 0, err
	}
	if from != nil {
		start := clock.StartOfDay(*from)
		from = &start
	}
	if to != nil {
		end := clock.StartOfDay(*to)
		to = &end
	}

	filter := repository.PaymentFilter{
		MemberID:      req.MemberID,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		DateFrom:      from,
		DateTo:        to,
	}
	payments, total, err := s.paymentRepo.List(gymOwnerID, filter, toPagination(req.PageQuery))
	if err != nil {
		return nil, 0, err
	}
	return buildPaymentInfos(payments), total, nil
}

// Update 修改支付；状态变为已完成且尚未延期时触发延期
func (s *PaymentService) Update(ctx context.Context, gymOwnerID, id int64, req *dto.UpdatePaymentRequest) (*dto.PaymentInfo, error) {
	payment, err := s.paymentRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrPaymentNotFound)
	}
	previousStatus := payment.Status

	if req.Amount != nil {
		payment.Amount = *req.Amount
	}
	if req.PaymentDate != nil {
		date, err := parseDate(*req.PaymentDate)
		if err != nil {
			return nil, err
		}
		payment.PaymentDate = clock.StartOfDay(date)
	}
	if req.PaymentMethod != nil {
		payment.PaymentMethod = *req.PaymentMethod
	}
	if req.Status != nil {
		payment.Status = *req.Status
	}
	if req.MembershipMonths != nil {
		payment.MembershipMonths = *req.MembershipMonths
	}
	if req.TransactionID != nil {
		payment.TransactionID = *req.TransactionID
	}
	if req.DiscountAmount != nil {
		payment.DiscountAmount = *req.DiscountAmount
	}
	if req.TaxAmount != nil {
		payment.TaxAmount = *req.TaxAmount
	}
	if req.ReceiptNumber != nil {
		payment.ReceiptNumber = *req.ReceiptNumber
	}
	if req.Notes != nil {
		payment.Notes = *req.Notes
	}

	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	if payment.Status != previousStatus {
		metrics.RecordPayment(payment.PaymentMethod, payment.Status)
	}

	s.invalidateRevenue(ctx, gymOwnerID)
	s.membership.Extend(ctx, payment)

	return s.Get(gymOwnerID, payment.ID)
}

// Delete 删除支付；已延长的会员期不回退
func (s *PaymentService) Delete(ctx context.Context, gymOwnerID, id int64) error {
	if _, err := s.paymentRepo.GetByID(gymOwnerID, id); err != nil {
		return notFound(err, ErrPaymentNotFound)
	}
	if err := s.paymentRepo.Delete(gymOwnerID, id); err != nil {
		return err
	}
	s.invalidateRevenue(ctx, gymOwnerID)
	return nil
}

// MonthlyRevenue 某月已完成支付的总额，缺省为当月
func (s *PaymentService) MonthlyRevenue(gymOwnerID int64, req *dto.MonthlyRevenueRequest) (*dto.MonthlyRevenueResponse, error) {
	today := clock.Today()
	year, month := req.Year, time.Month(req.Month)
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = today.Month()
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	revenue, err := s.paymentRepo.SumCompleted(gymOwnerID, clock.StartOfDay(start), clock.StartOfDay(start.AddDate(0, 1, 0)))
	if err != nil {
		return nil, err
	}
	return &dto.MonthlyRevenueResponse{Year: year, Month: int(month), Revenue: roundMoney(revenue)}, nil
}

// RevenueAnalytics 收入分析，结果按租户缓存
func (s *PaymentService) RevenueAnalytics(ctx context.Context, gymOwnerID int64) (*dto.RevenueAnalytics, error) {
	key := cache.RevenueKey(gymOwnerID)

	var cached dto.RevenueAnalytics
	hit, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("revenue cache read failed")
	}
	metrics.RecordCache("revenue", hit)
	if hit {
		return &cached, nil
	}

	analytics, err := s.computeRevenue(gymOwnerID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, key, analytics, s.revenueTTL); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("revenue cache write failed")
	}
	return analytics, nil
}

func (s *PaymentService) computeRevenue(gymOwnerID int64) (*dto.RevenueAnalytics, error) {
	thisMonth := clock.StartOfMonth(clock.Today())
	nextMonth := thisMonth.AddDate(0, 1, 0)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	firstTrendMonth := thisMonth.AddDate(0, -(trendMonths - 1), 0)

	total, err := s.paymentRepo.SumCompleted(gymOwnerID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	byMethod, err := s.paymentRepo.SumCompletedByMethod(gymOwnerID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListCompletedSince(gymOwnerID, clock.StartOfDay(firstTrendMonth))
	if err != nil {
		return nil, err
	}

	// 按业务时区的月份归集
	end := clock.StartOfDay(nextMonth)
	monthly := make(map[string]float64, trendMonths)
	for _, p := range payments {
		local := p.PaymentDate.In(clock.Location())
		if !local.Before(end) {
			continue
		}
		monthly[local.Format("2006-01")] += p.Amount
	}

	analytics := &dto.RevenueAnalytics{
		TotalRevenue:         roundMoney(total),
		CurrentMonthRevenue:  roundMoney(monthly[thisMonth.Format("2006-01")]),
		PreviousMonthRevenue: roundMoney(monthly[lastMonth.Format("2006-01")]),
		RevenueByMethod:      make([]dto.MethodRevenue, 0, len(byMethod)),
		MonthlyTrends:        make([]dto.MonthRevenue, 0, trendMonths),
	}
	if analytics.PreviousMonthRevenue > 0 {
		growth := (analytics.CurrentMonthRevenue - analytics.PreviousMonthRevenue) / analytics.PreviousMonthRevenue * 100
		analytics.GrowthRate = roundMoney(growth)
	}
	for _, m := range byMethod {
		analytics.RevenueByMethod = append(analytics.RevenueByMethod, dto.MethodRevenue{
			PaymentMethod: m.PaymentMethod,
			Total:         roundMoney(m.Total),
			Count:         m.Count,
		})
	}
	for month := firstTrendMonth; !month.After(thisMonth); month = month.AddDate(0, 1, 0) {
		label := month.Format("2006-01")
		analytics.MonthlyTrends = append(analytics.MonthlyTrends, dto.MonthRevenue{
			Month:   label,
			Revenue: roundMoney(monthly[label]),
		})
	}
	return analytics, nil
}

func (s *PaymentService) invalidateRevenue(ctx context.Context, gymOwnerID int64) {
	if err := s.store.Delete(ctx, cache.RevenueKey(gymOwnerID)); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("gym_owner_id", gymOwnerID).Msg("failed to invalidate revenue cache")
	}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func buildPaymentInfo(p *model.MembershipPayment) *dto.PaymentInfo {
	info := &dto.PaymentInfo{MembershipPayment: p}
	if p.Member != nil {
		info.MemberName = p.Member.FullName()
		info.MemberCode = p.Member.MemberID
	}
	if p.SubscriptionPlan != nil {
		info.PlanName = p.SubscriptionPlan.Name
	}
	return info
}

func buildPaymentInfos(payments []*model.MembershipPayment) []*dto.PaymentInfo {
	infos := make([]*dto.PaymentInfo, 0, len(payments))
	for _, p := range payments {
		infos = append(infos, buildPaymentInfo(p))
	}
	return infos
}
