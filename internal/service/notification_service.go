package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrNotificationNotFound = errors.New("Notification not found")
)

type NotificationService struct {
	db               *gorm.DB
	notificationRepo *repository.NotificationRepository
	memberRepo       *repository.MemberRepository
}

func NewNotificationService(
	db *gorm.DB,
	notificationRepo *repository.NotificationRepository,
	memberRepo *repository.MemberRepository,
) *NotificationService {
	return &NotificationService{
		db:               db,
		notificationRepo: notificationRepo,
		memberRepo:       memberRepo,
	}
}

func (s *NotificationService) List(gymOwnerID int64, req *dto.NotificationListRequest) ([]*model.Notification, int64, error) {
	filter := repository.NotificationFilter{IsRead: req.IsRead, Type: req.Type}
	return s.notificationRepo.List(gymOwnerID, filter, toPagination(req.PageQuery))
}

func (s *NotificationService) UnreadCount(gymOwnerID int64) (*dto.UnreadCountResponse, error) {
	count, err := s.notificationRepo.CountUnread(gymOwnerID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{UnreadCount: count}, nil
}

// MarkRead 标记已读；已读的通知原样返回
func (s *NotificationService) MarkRead(gymOwnerID, id int64) (*model.Notification, error) {
	if _, err := s.notificationRepo.MarkRead(gymOwnerID, id, clock.Now()); err != nil {
		return nil, err
	}
	n, err := s.notificationRepo.GetByID(gymOwnerID, id)
	if err != nil {
		return nil, notFound(err, ErrNotificationNotFound)
	}
	return n, nil
}

func (s *NotificationService) MarkAllRead(gymOwnerID int64) (*dto.MarkAllReadResponse, error) {
	updated, err := s.notificationRepo.MarkAllRead(gymOwnerID, clock.Now())
	if err != nil {
		return nil, err
	}
	return &dto.MarkAllReadResponse{Updated: updated}, nil
}

// CheckExpiring 为七天内到期的会员各建一条提醒，已有未读提醒的会员跳过
func (s *NotificationService) CheckExpiring(ctx context.Context, gymOwnerID int64) (*dto.CheckExpiringResponse, error) {
	today := clock.Today()
	members, err := s.memberRepo.ListExpiring(gymOwnerID, today, clock.AddDays(today, expiringSoonDays))
	if err != nil {
		return nil, err
	}

	resp := &dto.CheckExpiringResponse{Checked: len(members)}
	for _, member := range members {
		exists, err := s.notificationRepo.HasUnreadFor(gymOwnerID, model.NotificationMemberExpiringSoon, member.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		if err := s.notificationRepo.Create(expiringSoonNotification(member, today)); err != nil {
			return nil, err
		}
		resp.Created++
	}

	if resp.Created > 0 {
		logging.Ctx(ctx).Info().
			Int64("gym_owner_id", gymOwnerID).
			Int("created", resp.Created).
			Msg("expiring soon notifications created")
	}
	return resp, nil
}

func expiringSoonNotification(member *model.Member, today time.Time) *model.Notification {
	name := member.FullName()
	memberID := member.ID
	return &model.Notification{
		GymOwnerID:      member.GymOwnerID,
		Type:            model.NotificationMemberExpiringSoon,
		Priority:        model.PriorityMedium,
		Title:           "Member Expiring Soon: " + name,
		Message:         fmt.Sprintf("The membership for %s will expire in %d days.", name, member.DaysUntilExpiry(today)),
		RelatedMemberID: &memberID,
	}
}

// expiredNotification 一个健身房一次停用的汇总通知；只有一人时关联到该会员
func expiredNotification(gymOwnerID int64, members []*model.Member) *model.Notification {
	n := &model.Notification{
		GymOwnerID: gymOwnerID,
		Type:       model.NotificationMemberExpiry,
		Priority:   model.PriorityHigh,
	}

	if len(members) == 1 {
		name := members[0].FullName()
		memberID := members[0].ID
		n.Title = "Member Expired: " + name
		n.Message = fmt.Sprintf("The membership for %s has expired and they have been automatically deactivated.", name)
		n.RelatedMemberID = &memberID
		return n
	}

	n.Title = fmt.Sprintf("%d Members Expired", len(members))
	n.Message = "The following members have expired memberships and have been automatically deactivated: " +
		summarizeNames(members, 3)
	return n
}

// summarizeNames 列出前 limit 个名字，其余以 "and N others" 概括
func summarizeNames(members []*model.Member, limit int) string {
	names := make([]string, 0, limit)
	for i, m := range members {
		if i == limit {
			break
		}
		names = append(names, m.FullName())
	}
	summary := strings.Join(names, ", ")
	if len(members) > limit {
		summary += fmt.Sprintf(" and %d others", len(members)-limit)
	}
	return summary
}
