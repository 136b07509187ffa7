package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/cache"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/metrics"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrAlreadyCheckedIn   = errors.New("Already checked in today")
	ErrNoCheckIn          = errors.New("No check-in record found for today")
	ErrAlreadyCheckedOut  = errors.New("Already checked out today")
	ErrInvalidQRCode      = errors.New("Invalid QR code")
	ErrQRMemberNotFound   = errors.New("Member not found or not registered at this gym")
	ErrMembershipInactive = errors.New("Membership is not active")
	ErrMemberIdentifier   = errors.New("Member email or ID required")
)

// 签到来源
const (
	SourceManual = "manual"
	SourceQR     = "qr"
)

const (
	analyticsDays = 7
	peakHourLimit = 5
)

type AttendanceService struct {
	db             *gorm.DB
	attendanceRepo *repository.AttendanceRepository
	memberRepo     *repository.MemberRepository
	gymRepo        *repository.GymOwnerRepository
	store          cache.Store
	publisher      pubsub.EventPublisher
	analyticsTTL   time.Duration
}

func NewAttendanceService(
	db *gorm.DB,
	attendanceRepo *repository.AttendanceRepository,
	memberRepo *repository.MemberRepository,
	gymRepo *repository.GymOwnerRepository,
	store cache.Store,
	publisher pubsub.EventPublisher,
	cfg config.CacheConfig,
) *AttendanceService {
	if store == nil {
		store = cache.NoopStore{}
	}
	if publisher == nil {
		publisher = pubsub.NopPublisher{}
	}
	return &AttendanceService{
		db:             db,
		attendanceRepo: attendanceRepo,
		memberRepo:     memberRepo,
		gymRepo:        gymRepo,
		store:          store,
		publisher:      publisher,
		analyticsTTL:   time.Duration(cfg.AttendanceTTLSeconds) * time.Second,
	}
}

// CheckIn 前台签到
func (s *AttendanceService) CheckIn(ctx context.Context, gymOwnerID int64, req *dto.CheckInRequest) (*dto.AttendanceInfo, error) {
	member, err := s.memberRepo.GetByID(gymOwnerID, req.MemberID)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	attendance, err := s.checkIn(ctx, member, req.Notes, SourceManual)
	if err != nil {
		return nil, err
	}
	return buildAttendanceInfo(attendance), nil
}

// QRCheckIn 会员扫描健身房二维码自助签到
func (s *AttendanceService) QRCheckIn(ctx context.Context, token string, req *dto.QRCheckInRequest) (*dto.QRCheckInResponse, error) {
	gym, err := s.gymRepo.GetByQRToken(token)
	if err != nil {
		return nil, notFound(err, ErrInvalidQRCode)
	}

	member, err := s.resolveMember(gym.ID, req)
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, ErrMembershipInactive
	}

	attendance, err := s.checkIn(ctx, member, "", SourceQR)
	if err != nil {
		return nil, err
	}

	return &dto.QRCheckInResponse{
		Message:    "Successfully checked in to " + gym.GymName,
		GymName:    gym.GymName,
		Attendance: buildAttendanceInfo(attendance),
	}, nil
}

// resolveMember 邮箱优先，其次会员编号，最后数字 ID
func (s *AttendanceService) resolveMember(gymOwnerID int64, req *dto.QRCheckInRequest) (*model.Member, error) {
	email := normalizeEmail(req.MemberEmail)
	code := strings.TrimSpace(req.MemberID)

	var member *model.Member
	var err error
	switch {
	case email != "":
		member, err = s.memberRepo.GetByEmail(gymOwnerID, email)
	case code != "":
		member, err = s.memberRepo.GetByCode(gymOwnerID, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if id, convErr := strconv.ParseInt(code, 10, 64); convErr == nil {
				member, err = s.memberRepo.GetByID(gymOwnerID, id)
			}
		}
	default:
		return nil, ErrMemberIdentifier
	}
	if err != nil {
		return nil, notFound(err, ErrQRMemberNotFound)
	}
	return member, nil
}

func (s *AttendanceService) checkIn(ctx context.Context, member *model.Member, notes, source string) (*model.Attendance, error) {
	now := clock.Now()
	today := clock.DateOf(now)

	attendance := &model.Attendance{
		GymOwnerID:  member.GymOwnerID,
		MemberID:    member.ID,
		Date:        today,
		CheckInTime: now,
		QRCodeUsed:  source == SourceQR,
		Notes:       notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		records := s.attendanceRepo.WithTx(tx)
		_, err := records.GetForDay(member.GymOwnerID, member.ID, today)
		if err == nil {
			return ErrAlreadyCheckedIn
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		code, err := repository.NextCode(tx, repository.AttendanceCode, member.GymOwnerID)
		if err != nil {
			return err
		}
		attendance.AttendanceID = code
		return records.Create(attendance)
	})
	if err != nil {
		// 并发签到由唯一索引兜底
		if repository.IsDuplicateKey(err) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	attendance.Member = member

	metrics.RecordCheckIn(source)
	logging.Ctx(ctx).Info().
		Int64("gym_owner_id", member.GymOwnerID).
		Str("member_id", member.MemberID).
		Str("source", source).
		Msg("member checked in")

	s.invalidateAnalytics(ctx, member.GymOwnerID)
	s.publish(ctx, pubsub.EventMemberCheckedIn, member)
	return attendance, nil
}

// CheckOut 签退并计算本次时长
func (s *AttendanceService) CheckOut(ctx context.Context, gymOwnerID int64, req *dto.CheckOutRequest) (*dto.AttendanceInfo, error) {
	member, err := s.memberRepo.GetByID(gymOwnerID, req.MemberID)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}

	now := clock.Now()
	attendance, err := s.attendanceRepo.GetForDay(gymOwnerID, member.ID, clock.DateOf(now))
	if err != nil {
		return nil, notFound(err, ErrNoCheckIn)
	}
	if attendance.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}

	attendance.CheckOut(now)
	updated, err := s.attendanceRepo.SaveCheckOut(attendance)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlreadyCheckedOut
	}
	attendance.Member = member

	s.invalidateAnalytics(ctx, gymOwnerID)
	s.publish(ctx, pubsub.EventMemberCheckedOut, member)
	return buildAttendanceInfo(attendance), nil
}

func (s *AttendanceService) List(gymOwnerID int64, req *dto.AttendanceListRequest) ([]*dto.AttendanceInfo, int64, error) {
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return nil, 0, err
	}
	from, err := parseOptionalDate(req.DateFrom)
	if err != nil {
		return nil, 0, err
	}
	to, err := parseOptionalDate(req.DateTo)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.AttendanceFilter{
		MemberID: req.MemberID,
		Date:     date,
		DateFrom: from,
		DateTo:   to,
	}
	records, total, err := s.attendanceRepo.List(gymOwnerID, filter, toPagination(req.PageQuery))
	if err != nil {
		return nil, 0, err
	}
	return buildAttendanceInfos(records), total, nil
}

// Today 今日签到列表
func (s *AttendanceService) Today(gymOwnerID int64) (*dto.TodayAttendanceResponse, error) {
	today := clock.Today()
	records, err := s.attendanceRepo.ListByDate(gymOwnerID, today)
	if err != nil {
		return nil, err
	}

	resp := &dto.TodayAttendanceResponse{
		Date:          today.Format(clock.DateLayout),
		TotalCheckIns: len(records),
		Attendances:   buildAttendanceInfos(records),
	}
	for _, r := range records {
		if r.CheckOutTime != nil {
			resp.TotalCheckOuts++
		}
	}
	return resp, nil
}

// Analytics 签到分析，结果按租户缓存
func (s *AttendanceService) Analytics(ctx context.Context, gymOwnerID int64) (*dto.AttendanceAnalytics, error) {
	key := cache.AttendanceKey(gymOwnerID)

	var cached dto.AttendanceAnalytics
	hit, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("attendance cache read failed")
	}
	metrics.RecordCache("attendance", hit)
	if hit {
		return &cached, nil
	}

	analytics, err := s.computeAnalytics(gymOwnerID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, key, analytics, s.analyticsTTL); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("attendance cache write failed")
	}
	return analytics, nil
}

func (s *AttendanceService) computeAnalytics(gymOwnerID int64) (*dto.AttendanceAnalytics, error) {
	today := clock.Today()
	weekStart := clock.AddDays(today, -(analyticsDays - 1))
	monthStart := clock.StartOfMonth(today)

	from := monthStart
	if weekStart.Before(from) {
		from = weekStart
	}
	records, err := s.attendanceRepo.ListBetween(gymOwnerID, from, today)
	if err != nil {
		return nil, err
	}

	daily := make(map[string]int, analyticsDays)
	hours := make(map[int]int)
	var sessionMinutes, sessions int

	analytics := &dto.AttendanceAnalytics{}
	for _, r := range records {
		date := clock.DateOf(r.Date)
		if date.Equal(today) {
			analytics.TodayCount++
		}
		if !date.Before(weekStart) {
			analytics.WeeklyTotal++
			daily[date.Format(clock.DateLayout)]++
		}
		if date.Before(monthStart) {
			continue
		}
		analytics.MonthlyTotal++
		hours[r.CheckInTime.In(clock.Location()).Hour()]++
		if r.SessionDurationMinutes != nil {
			sessionMinutes += *r.SessionDurationMinutes
			sessions++
		}
	}

	if sessions > 0 {
		analytics.AverageSessionMinutes = math.Round(float64(sessionMinutes)/float64(sessions)*10) / 10
	}

	analytics.DailyCounts = make([]dto.DailyCount, 0, analyticsDays)
	for d := weekStart; !d.After(today); d = clock.AddDays(d, 1) {
		label := d.Format(clock.DateLayout)
		analytics.DailyCounts = append(analytics.DailyCounts, dto.DailyCount{Date: label, Count: daily[label]})
	}

	analytics.PeakHours = make([]dto.HourCount, 0, len(hours))
	for hour, count := range hours {
		analytics.PeakHours = append(analytics.PeakHours, dto.HourCount{Hour: hour, Count: count})
	}
	sort.Slice(analytics.PeakHours, func(i, j int) bool {
		a, b := analytics.PeakHours[i], analytics.PeakHours[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Hour < b.Hour
	})
	if len(analytics.PeakHours) > peakHourLimit {
		analytics.PeakHours = analytics.PeakHours[:peakHourLimit]
	}

	return analytics, nil
}

func (s *AttendanceService) invalidateAnalytics(ctx context.Context, gymOwnerID int64) {
	if err := s.store.Delete(ctx, cache.AttendanceKey(gymOwnerID)); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("gym_owner_id", gymOwnerID).Msg("failed to invalidate attendance cache")
	}
}

func (s *AttendanceService) publish(ctx context.Context, eventType string, member *model.Member) {
	event := &pubsub.Event{
		Type:       eventType,
		GymOwnerID: member.GymOwnerID,
		MemberID:   member.ID,
		MemberCode: member.MemberID,
		MemberName: member.FullName(),
		Message:    pubsub.EventMessages[eventType],
		Timestamp:  clock.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("type", eventType).Msg("failed to publish attendance event")
	}
}

func buildAttendanceInfo(a *model.Attendance) *dto.AttendanceInfo {
	info := &dto.AttendanceInfo{Attendance: a}
	if a.Member != nil {
		info.MemberName = a.Member.FullName()
		info.MemberCode = a.Member.MemberID
	}
	return info
}

func buildAttendanceInfos(records []*model.Attendance) []*dto.AttendanceInfo {
	infos := make([]*dto.AttendanceInfo, 0, len(records))
	for _, r := range records {
		infos = append(infos, buildAttendanceInfo(r))
	}
	return infos
}
