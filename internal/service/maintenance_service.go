package service

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/metrics"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
	"github.com/qs3c/gym_go_server/internal/repository"
)

// ExpiryMailer 向馆主发送停用汇总邮件
type ExpiryMailer interface {
	Enabled() bool
	SendExpirySummary(to, ownerName, gymName string, memberNames []string) error
}

// DeactivateOptions 停用任务参数
type DeactivateOptions struct {
	DryRun bool
	// SendEmails 额外给馆主发汇总邮件；站内通知总会创建
	SendEmails bool
}

// GymDeactivation 单个健身房的停用结果
type GymDeactivation struct {
	GymOwnerID  int64
	GymName     string
	MemberCodes []string
	MemberNames []string
	Emailed     bool
}

// DeactivationReport 停用任务汇总
type DeactivationReport struct {
	DryRun      bool
	Deactivated int
	Gyms        []*GymDeactivation
}

// MaintenanceService 定时任务与运维命令共用的批处理逻辑
type MaintenanceService struct {
	db            *gorm.DB
	memberRepo    *repository.MemberRepository
	gymRepo       *repository.GymOwnerRepository
	notifications *NotificationService
	publisher     pubsub.EventPublisher
	mailer        ExpiryMailer
}

func NewMaintenanceService(
	db *gorm.DB,
	memberRepo *repository.MemberRepository,
	gymRepo *repository.GymOwnerRepository,
	notifications *NotificationService,
	publisher pubsub.EventPublisher,
	mailer ExpiryMailer,
) *MaintenanceService {
	if publisher == nil {
		publisher = pubsub.NopPublisher{}
	}
	return &MaintenanceService{
		db:            db,
		memberRepo:    memberRepo,
		gymRepo:       gymRepo,
		notifications: notifications,
		publisher:     publisher,
		mailer:        mailer,
	}
}

// DeactivateExpired 停用所有租户中已过期的会员，并按健身房创建一条汇总通知
func (s *MaintenanceService) DeactivateExpired(ctx context.Context, opts DeactivateOptions) (*DeactivationReport, error) {
	today := clock.Today()
	expired, err := s.memberRepo.ListExpiredActive(today)
	if err != nil {
		return nil, err
	}

	report := &DeactivationReport{DryRun: opts.DryRun}
	if len(expired) == 0 {
		return report, nil
	}

	byGym := make(map[int64][]*model.Member)
	gymIDs := make([]int64, 0)
	for _, m := range expired {
		if _, ok := byGym[m.GymOwnerID]; !ok {
			gymIDs = append(gymIDs, m.GymOwnerID)
		}
		byGym[m.GymOwnerID] = append(byGym[m.GymOwnerID], m)
	}
	sort.Slice(gymIDs, func(i, j int) bool { return gymIDs[i] < gymIDs[j] })

	owners, err := s.gymRepo.GetByIDs(gymIDs)
	if err != nil {
		return nil, err
	}
	ownerByID := make(map[int64]*model.GymOwner, len(owners))
	for _, o := range owners {
		ownerByID[o.ID] = o
	}

	for _, gymID := range gymIDs {
		members := byGym[gymID]
		result := &GymDeactivation{GymOwnerID: gymID}
		if owner := ownerByID[gymID]; owner != nil {
			result.GymName = owner.GymName
		}
		ids := make([]int64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
			result.MemberCodes = append(result.MemberCodes, m.MemberID)
			result.MemberNames = append(result.MemberNames, m.FullName())
		}
		report.Gyms = append(report.Gyms, result)

		if opts.DryRun {
			report.Deactivated += len(members)
			continue
		}

		var affected int64
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			affected, err = s.memberRepo.WithTx(tx).DeactivateByIDs(ids)
			if err != nil {
				return err
			}
			return repository.NewNotificationRepository(tx).Create(expiredNotification(gymID, members))
		})
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Int64("gym_owner_id", gymID).Msg("failed to deactivate expired members")
			continue
		}
		report.Deactivated += int(affected)
		metrics.RecordDeactivations(int(affected))

		logging.Ctx(ctx).Info().
			Int64("gym_owner_id", gymID).
			Int64("deactivated", affected).
			Msg("expired members deactivated")

		s.publishExpired(ctx, gymID, result)
		if opts.SendEmails {
			result.Emailed = s.email(ctx, ownerByID[gymID], result)
		}
	}

	return report, nil
}

func (s *MaintenanceService) publishExpired(ctx context.Context, gymID int64, result *GymDeactivation) {
	event := &pubsub.Event{
		Type:       pubsub.EventMembersExpired,
		GymOwnerID: gymID,
		Message:    pubsub.EventMessages[pubsub.EventMembersExpired],
		Data: map[string]interface{}{
			"count":        len(result.MemberCodes),
			"member_codes": result.MemberCodes,
		},
		Timestamp: clock.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("gym_owner_id", gymID).Msg("failed to publish expiry event")
	}
}

// email 发送失败只记录日志
func (s *MaintenanceService) email(ctx context.Context, owner *model.GymOwner, result *GymDeactivation) bool {
	if s.mailer == nil || !s.mailer.Enabled() || owner == nil || owner.User == nil {
		return false
	}
	err := s.mailer.SendExpirySummary(owner.User.Email, owner.User.FullName(), owner.GymName, result.MemberNames)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("gym_owner_id", owner.ID).Msg("failed to send expiry summary email")
		return false
	}
	return true
}

// NotifyExpiringSoon 为所有启用的健身房生成即将到期提醒，返回新建通知数
func (s *MaintenanceService) NotifyExpiringSoon(ctx context.Context) (int, error) {
	owners, err := s.gymRepo.ListActive()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, owner := range owners {
		resp, err := s.notifications.CheckExpiring(ctx, owner.ID)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Int64("gym_owner_id", owner.ID).Msg("expiring soon check failed")
			continue
		}
		created += resp.Created
	}
	return created, nil
}
