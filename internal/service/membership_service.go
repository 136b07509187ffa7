package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/cache"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/metrics"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
	"github.com/qs3c/gym_go_server/internal/pkg/queue"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrPaymentNotFound = errors.New("Payment not found")
)

// daysPerMonth 会员月数按固定 30 天换算
const daysPerMonth = 30

// ExtensionQueue 延期失败后的重试队列
type ExtensionQueue interface {
	Push(ctx context.Context, job *queue.ExtensionJob) error
}

// ExtensionResult 一次延期的结果；Applied 为 false 表示此前已经延期过
type ExtensionResult struct {
	Applied        bool
	MemberID       int64
	NewExpiry      time.Time
	SubscriptionID *int64
}

// MembershipService 根据已完成的支付延长会员期
type MembershipService struct {
	db        *gorm.DB
	store     cache.Store
	publisher pubsub.EventPublisher
	retries   ExtensionQueue
}

func NewMembershipService(db *gorm.DB, store cache.Store, publisher pubsub.EventPublisher, retries ExtensionQueue) *MembershipService {
	if store == nil {
		store = cache.NoopStore{}
	}
	if publisher == nil {
		publisher = pubsub.NopPublisher{}
	}
	return &MembershipService{
		db:        db,
		store:     store,
		publisher: publisher,
		retries:   retries,
	}
}

// Extend 尽力而为地延期：失败只记录日志并写入重试队列，不影响支付本身
func (s *MembershipService) Extend(ctx context.Context, payment *model.MembershipPayment) {
	if !payment.ExtendsMembership() || payment.MembershipApplied {
		return
	}

	if _, err := s.ApplyPayment(ctx, payment.GymOwnerID, payment.ID); err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Int64("payment_id", payment.ID).
			Int64("member_id", payment.MemberID).
			Msg("membership extension failed")
		metrics.RecordExtension(metrics.ExtensionFailed)
		s.enqueueRetry(ctx, payment, err)
	}
}

func (s *MembershipService) enqueueRetry(ctx context.Context, payment *model.MembershipPayment, cause error) {
	if s.retries == nil {
		return
	}
	job := &queue.ExtensionJob{
		PaymentID:  payment.ID,
		GymOwnerID: payment.GymOwnerID,
		MemberID:   payment.MemberID,
		Attempt:    1,
		LastError:  cause.Error(),
		EnqueuedAt: clock.Now(),
	}
	if err := s.retries.Push(ctx, job); err != nil {
		logging.Ctx(ctx).Error().Err(err).Int64("payment_id", payment.ID).Msg("failed to queue extension retry")
		return
	}
	metrics.RecordExtension(metrics.ExtensionQueued)
}

// ApplyPayment 在一个事务内完成延期、订阅更新、支付标记与通知；对同一支付重复调用是安全的
func (s *MembershipService) ApplyPayment(ctx context.Context, gymOwnerID, paymentID int64) (*ExtensionResult, error) {
	result := &ExtensionResult{}
	var payment *model.MembershipPayment
	var member *model.Member

	err := s.db.Transaction(func(tx *gorm.DB) error {
		payments := repository.NewPaymentRepository(tx)
		members := repository.NewMemberRepository(tx)
		subs := repository.NewSubscriptionRepository(tx)

		var err error
		payment, err = payments.GetByID(gymOwnerID, paymentID)
		if err != nil {
			return notFound(err, ErrPaymentNotFound)
		}
		result.MemberID = payment.MemberID
		if payment.MembershipApplied || !payment.ExtendsMembership() {
			return nil
		}

		member, err = members.GetByIDForUpdate(gymOwnerID, payment.MemberID)
		if err != nil {
			return notFound(err, ErrMemberNotFound)
		}

		newExpiry := ExtendedExpiry(member.MembershipExpiry, clock.Today(), payment.MembershipMonths)
		if err := members.UpdateFields(member.ID, map[string]interface{}{
			"membership_expiry": newExpiry,
			"is_active":         true,
		}); err != nil {
			return fmt.Errorf("update member expiry: %w", err)
		}
		member.MembershipExpiry = newExpiry
		member.IsActive = true

		fields := map[string]interface{}{"membership_applied": true}
		if payment.SubscriptionPlanID != nil {
			sub, err := s.upsertSubscription(tx, subs, payment, newExpiry)
			if err != nil {
				return fmt.Errorf("upsert subscription: %w", err)
			}
			fields["member_subscription_id"] = sub.ID
			result.SubscriptionID = &sub.ID
		}
		if err := payments.UpdateFields(payment.ID, fields); err != nil {
			return err
		}

		if err := repository.NewNotificationRepository(tx).Create(paymentNotification(payment)); err != nil {
			return err
		}

		result.Applied = true
		result.NewExpiry = newExpiry
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !result.Applied {
		return result, nil
	}

	metrics.RecordExtension(metrics.ExtensionApplied)
	logging.Ctx(ctx).Info().
		Int64("payment_id", payment.ID).
		Int64("member_id", result.MemberID).
		Str("new_expiry", result.NewExpiry.Format(clock.DateLayout)).
		Msg("membership extended")

	if err := s.store.Delete(ctx, cache.RevenueKey(gymOwnerID)); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to invalidate revenue cache")
	}
	s.publishPayment(ctx, payment)

	return result, nil
}

// upsertSubscription 以 (会员, 套餐) 为键创建或续期订阅
func (s *MembershipService) upsertSubscription(
	tx *gorm.DB,
	subs *repository.SubscriptionRepository,
	payment *model.MembershipPayment,
	newExpiry time.Time,
) (*model.MemberSubscription, error) {
	existing, err := subs.GetByMemberAndPlan(payment.MemberID, *payment.SubscriptionPlanID)
	switch {
	case err == nil:
		if err := subs.UpdateFields(existing.ID, map[string]interface{}{
			"end_date": newExpiry,
			"status":   model.SubscriptionActive,
		}); err != nil {
			return nil, err
		}
		existing.EndDate = newExpiry
		existing.Status = model.SubscriptionActive
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}

	code, err := repository.NextCode(tx, repository.SubscriptionCode, payment.GymOwnerID)
	if err != nil {
		return nil, err
	}
	sub := &model.MemberSubscription{
		GymOwnerID:         payment.GymOwnerID,
		SubscriptionID:     code,
		MemberID:           payment.MemberID,
		SubscriptionPlanID: *payment.SubscriptionPlanID,
		StartDate:          clock.AddDays(newExpiry, -daysPerMonth*payment.MembershipMonths),
		EndDate:            newExpiry,
		Status:             model.SubscriptionActive,
		AmountPaid:         payment.Amount,
		PaymentMethod:      payment.PaymentMethod,
	}
	if err := subs.Create(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *MembershipService) publishPayment(ctx context.Context, payment *model.MembershipPayment) {
	event := &pubsub.Event{
		Type:       pubsub.EventPaymentReceived,
		GymOwnerID: payment.GymOwnerID,
		MemberID:   payment.MemberID,
		PaymentID:  payment.ID,
		Amount:     payment.Amount,
		Message:    pubsub.EventMessages[pubsub.EventPaymentReceived],
		Timestamp:  clock.Now(),
	}
	if payment.Member != nil {
		event.MemberCode = payment.Member.MemberID
		event.MemberName = payment.Member.FullName()
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("payment_id", payment.ID).Msg("failed to publish payment event")
	}
}

// ExtendedExpiry 从 max(当前到期日, today) 起顺延 months*30 天
func ExtendedExpiry(current, today time.Time, months int) time.Time {
	base := current
	if base.Before(today) {
		base = today
	}
	return clock.AddDays(base, daysPerMonth*months)
}

func paymentNotification(payment *model.MembershipPayment) *model.Notification {
	name := "member"
	if payment.Member != nil {
		name = payment.Member.FullName()
	}
	paymentID := payment.ID
	memberID := payment.MemberID
	return &model.Notification{
		GymOwnerID:       payment.GymOwnerID,
		Type:             model.NotificationPaymentReceived,
		Priority:         model.PriorityLow,
		Title:            fmt.Sprintf("Payment Received: %s", name),
		Message:          fmt.Sprintf("Received %.2f from %s for %d month(s) of membership.", payment.Amount, name, payment.MembershipMonths),
		RelatedMemberID:  &memberID,
		RelatedPaymentID: &paymentID,
	}
}
