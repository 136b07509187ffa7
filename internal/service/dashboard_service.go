package service

import (
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/repository"
)

type DashboardService struct {
	memberRepo       *repository.MemberRepository
	trainerRepo      *repository.TrainerRepository
	equipmentRepo    *repository.EquipmentRepository
	attendanceRepo   *repository.AttendanceRepository
	paymentRepo      *repository.PaymentRepository
	notificationRepo *repository.NotificationRepository
}

func NewDashboardService(
	memberRepo *repository.MemberRepository,
	trainerRepo *repository.TrainerRepository,
	equipmentRepo *repository.EquipmentRepository,
	attendanceRepo *repository.AttendanceRepository,
	paymentRepo *repository.PaymentRepository,
	notificationRepo *repository.NotificationRepository,
) *DashboardService {
	return &DashboardService{
		memberRepo:       memberRepo,
		trainerRepo:      trainerRepo,
		equipmentRepo:    equipmentRepo,
		attendanceRepo:   attendanceRepo,
		paymentRepo:      paymentRepo,
		notificationRepo: notificationRepo,
	}
}

// Stats 仪表盘汇总
func (s *DashboardService) Stats(gymOwnerID int64) (*dto.DashboardStats, error) {
	today := clock.Today()

	members, err := s.memberRepo.Stats(gymOwnerID, today, expiringSoonDays)
	if err != nil {
		return nil, err
	}
	trainers, available, err := s.trainerRepo.Count(gymOwnerID)
	if err != nil {
		return nil, err
	}
	equipment, working, err := s.equipmentRepo.Count(gymOwnerID)
	if err != nil {
		return nil, err
	}
	attendance, err := s.attendanceRepo.CountOn(gymOwnerID, today)
	if err != nil {
		return nil, err
	}

	monthStart := clock.StartOfMonth(today)
	revenue, err := s.paymentRepo.SumCompleted(gymOwnerID, clock.StartOfDay(monthStart), clock.StartOfDay(monthStart.AddDate(0, 1, 0)))
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.CountUnread(gymOwnerID)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		TotalMembers:        members.Total,
		ActiveMembers:       members.Active,
		ExpiredMembers:      members.Expired,
		ExpiringMembers:     members.Expiring,
		TotalTrainers:       trainers,
		AvailableTrainers:   available,
		TotalEquipment:      equipment,
		WorkingEquipment:    working,
		TodayAttendance:     attendance,
		MonthlyRevenue:      roundMoney(revenue),
		UnreadNotifications: unread,
	}, nil
}
