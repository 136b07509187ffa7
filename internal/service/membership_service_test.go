package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/cache"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
	"github.com/qs3c/gym_go_server/internal/pkg/queue"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

// recordingPublisher 记录发布过的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []*pubsub.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event *pubsub.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

// recordingQueue 记录重试任务
type recordingQueue struct {
	jobs []*queue.ExtensionJob
	err  error
}

func (q *recordingQueue) Push(_ context.Context, job *queue.ExtensionJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type membershipFixture struct {
	db        *gorm.DB
	mr        *miniredis.Miniredis
	store     cache.Store
	publisher *recordingPublisher
	retries   *recordingQueue
	service   *MembershipService
}

func setupMembershipService(t *testing.T) *membershipFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	rdb, mr := testutil.SetupTestRedis(t)

	f := &membershipFixture{
		db:        db,
		mr:        mr,
		store:     cache.NewRedisStore(rdb),
		publisher: &recordingPublisher{},
		retries:   &recordingQueue{},
	}
	f.service = NewMembershipService(db, f.store, f.publisher, f.retries)
	return f
}

func reloadMember(t *testing.T, db *gorm.DB, id int64) *model.Member {
	t.Helper()
	var member model.Member
	require.NoError(t, db.First(&member, id).Error)
	return &member
}

func reloadPayment(t *testing.T, db *gorm.DB, id int64) *model.MembershipPayment {
	t.Helper()
	var payment model.MembershipPayment
	require.NoError(t, db.First(&payment, id).Error)
	return &payment
}

func TestExtendedExpiry(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		current time.Time
		months  int
		want    time.Time
	}{
		{"expired counts from today", today.AddDate(0, 0, -5), 3, today.AddDate(0, 0, 90)},
		{"future expiry is extended", today.AddDate(0, 0, 10), 1, today.AddDate(0, 0, 40)},
		{"expiring today", today, 2, today.AddDate(0, 0, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtendedExpiry(tt.current, today, tt.months))
		})
	}
}

func TestMembershipService_ApplyPayment_ExtendsExpiredMember(t *testing.T) {
	f := setupMembershipService(t)
	ctx := context.Background()
	today := testutil.Today()

	gym := testutil.TestGymOwner(t, f.db)
	member := testutil.TestMember(t, f.db, gym.ID,
		testutil.WithExpiry(today.AddDate(0, 0, -5)),
		testutil.WithMemberInactive(),
	)
	payment := testutil.TestPayment(t, f.db, gym.ID, member.ID, 4500, time.Now(), func(p *model.MembershipPayment) {
		p.MembershipMonths = 3
	})

	f.mr.Set(cache.RevenueKey(gym.ID), `{"total_revenue":1}`)

	result, err := f.service.ApplyPayment(ctx, gym.ID, payment.ID)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, today.AddDate(0, 0, 90), result.NewExpiry)
	assert.Nil(t, result.SubscriptionID)

	updated := reloadMember(t, f.db, member.ID)
	assert.True(t, updated.MembershipExpiry.Equal(today.AddDate(0, 0, 90)))
	assert.True(t, updated.IsActive)

	assert.True(t, reloadPayment(t, f.db, payment.ID).MembershipApplied)
	assert.False(t, f.mr.Exists(cache.RevenueKey(gym.ID)))
	assert.Equal(t, []string{pubsub.EventPaymentReceived}, f.publisher.types())

	var notifications []model.Notification
	require.NoError(t, f.db.Where("gym_owner_id = ?", gym.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationPaymentReceived, notifications[0].Type)
	require.NotNil(t, notifications[0].RelatedPaymentID)
	assert.Equal(t, payment.ID, *notifications[0].RelatedPaymentID)
}

func TestMembershipService_ApplyPayment_Idempotent(t *testing.T) {
	f := setupMembershipService(t)
	ctx := context.Background()
	today := testutil.Today()

	gym := testutil.TestGymOwner(t, f.db)
	member := testutil.TestMember(t, f.db, gym.ID, testutil.WithExpiry(today.AddDate(0, 0, 10)))
	payment := testutil.TestPayment(t, f.db, gym.ID, member.ID, 1500, time.Now())

	first, err := f.service.ApplyPayment(ctx, gym.ID, payment.ID)
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := f.service.ApplyPayment(ctx, gym.ID, payment.ID)
	require.NoError(t, err)
	assert.False(t, second.Applied)

	updated := reloadMember(t, f.db, member.ID)
	assert.True(t, updated.MembershipExpiry.Equal(today.AddDate(0, 0, 40)))
	assert.Len(t, f.publisher.types(), 1)
}

func TestMembershipService_ApplyPayment_UpsertsSubscription(t *testing.T) {
	f := setupMembershipService(t)
	ctx := context.Background()
	today := testutil.Today()

	gym := testutil.TestGymOwner(t, f.db)
	plan := testutil.TestPlan(t, f.db, gym.ID)
	member := testutil.TestMember(t, f.db, gym.ID, testutil.WithExpiry(today))
	withPlan := func(p *model.MembershipPayment) { p.SubscriptionPlanID = &plan.ID }

	first := testutil.TestPayment(t, f.db, gym.ID, member.ID, 1500, time.Now(), withPlan)
	result, err := f.service.ApplyPayment(ctx, gym.ID, first.ID)
	require.NoError(t, err)
	require.NotNil(t, result.SubscriptionID)

	var sub model.MemberSubscription
	require.NoError(t, f.db.First(&sub, *result.SubscriptionID).Error)
	assert.Equal(t, "SUB-0001", sub.SubscriptionID)
	assert.True(t, sub.StartDate.Equal(today))
	assert.True(t, sub.EndDate.Equal(today.AddDate(0, 0, 30)))
	assert.Equal(t, model.SubscriptionActive, sub.Status)
	assert.InDelta(t, 1500, sub.AmountPaid, 0.001)

	paid := reloadPayment(t, f.db, first.ID)
	require.NotNil(t, paid.MemberSubscriptionID)
	assert.Equal(t, sub.ID, *paid.MemberSubscriptionID)

	// 同一套餐再次付款续期原订阅
	second := testutil.TestPayment(t, f.db, gym.ID, member.ID, 1500, time.Now(), withPlan)
	result, err = f.service.ApplyPayment(ctx, gym.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, *result.SubscriptionID)

	var count int64
	f.db.Model(&model.MemberSubscription{}).Where("member_id = ?", member.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var renewed model.MemberSubscription
	require.NoError(t, f.db.First(&renewed, sub.ID).Error)
	assert.True(t, renewed.EndDate.Equal(today.AddDate(0, 0, 60)))
}

func TestMembershipService_Extend_SkipsPendingPayment(t *testing.T) {
	f := setupMembershipService(t)
	today := testutil.Today()

	gym := testutil.TestGymOwner(t, f.db)
	member := testutil.TestMember(t, f.db, gym.ID, testutil.WithExpiry(today))
	payment := testutil.TestPayment(t, f.db, gym.ID, member.ID, 1500, time.Now(), func(p *model.MembershipPayment) {
		p.Status = model.PaymentStatusPending
	})

	f.service.Extend(context.Background(), payment)

	assert.True(t, reloadMember(t, f.db, member.ID).MembershipExpiry.Equal(today))
	assert.False(t, reloadPayment(t, f.db, payment.ID).MembershipApplied)
	assert.Empty(t, f.retries.jobs)
}

func TestMembershipService_Extend_QueuesRetryOnFailure(t *testing.T) {
	f := setupMembershipService(t)

	gym := testutil.TestGymOwner(t, f.db)
	member := testutil.TestMember(t, f.db, gym.ID)
	payment := testutil.TestPayment(t, f.db, gym.ID, member.ID, 1500, time.Now())

	// 会员已不存在，延期必然失败
	require.NoError(t, f.db.Delete(&model.Member{}, member.ID).Error)

	f.service.Extend(context.Background(), payment)

	require.Len(t, f.retries.jobs, 1)
	job := f.retries.jobs[0]
	assert.Equal(t, payment.ID, job.PaymentID)
	assert.Equal(t, gym.ID, job.GymOwnerID)
	assert.Equal(t, 1, job.Attempt)
	assert.Contains(t, job.LastError, ErrMemberNotFound.Error())
	assert.False(t, reloadPayment(t, f.db, payment.ID).MembershipApplied)
}

func TestMembershipService_Extend_QueueFailureIsSwallowed(t *testing.T) {
	f := setupMembershipService(t)
	f.retries.err = errors.New("redis down")

	gym := testutil.TestGymOwner(t, f.db)
	payment := testutil.TestPayment(t, f.db, gym.ID, 9999, 1500, time.Now())

	assert.NotPanics(t, func() {
		f.service.Extend(context.Background(), payment)
	})
	assert.Empty(t, f.retries.jobs)
}
