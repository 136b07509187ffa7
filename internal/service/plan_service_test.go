package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func setupPlanService(t *testing.T) (*PlanService, *SubscriptionService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	planRepo := repository.NewPlanRepository(db)
	plans := NewPlanService(db, planRepo)
	subs := NewSubscriptionService(db, repository.NewSubscriptionRepository(db), repository.NewMemberRepository(db), planRepo)
	return plans, subs, db
}

func TestPlanService_CreateAndUpdate(t *testing.T) {
	svc, _, db := setupPlanService(t)
	gym := testutil.TestGymOwner(t, db)

	info, err := svc.Create(gym.ID, &dto.CreatePlanRequest{
		Name:               "Annual",
		Price:              12000,
		DurationValue:      1,
		DurationType:       "years",
		Features:           []string{"Gym floor", "Sauna"},
		DiscountPercentage: 12.5,
		IncludesTrainer:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "PLN-0001", info.PlanID)
	assert.InDelta(t, 12, info.DurationInMonths, 0.001)
	assert.InDelta(t, 10500, info.DiscountedPrice, 0.001)
	assert.True(t, info.IsActive)

	defaults, err := svc.Create(gym.ID, &dto.CreatePlanRequest{Name: "Basic", Price: 999})
	require.NoError(t, err)
	assert.Equal(t, 1, defaults.DurationValue)
	assert.Equal(t, "months", defaults.DurationType)
	assert.NotNil(t, defaults.Features)

	inactive := false
	features := []string{"Pool"}
	updated, err := svc.Update(gym.ID, defaults.ID, &dto.UpdatePlanRequest{IsActive: &inactive, Features: &features})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	var stored model.SubscriptionPlan
	require.NoError(t, db.First(&stored, defaults.ID).Error)
	assert.False(t, stored.IsActive)
	assert.Equal(t, model.StringArray{"Pool"}, stored.Features)

	active, total, err := svc.ListActive(gym.ID, dto.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Annual", active[0].Name)
}

func TestPlanService_TenantScoped(t *testing.T) {
	svc, _, db := setupPlanService(t)
	gym := testutil.TestGymOwner(t, db)
	other := testutil.TestGymOwner(t, db)
	plan := testutil.TestPlan(t, db, other.ID)

	_, err := svc.Get(gym.ID, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.ErrorIs(t, svc.Delete(gym.ID, plan.ID), ErrPlanNotFound)

	require.NoError(t, svc.Delete(other.ID, plan.ID))
	_, err = svc.Get(other.ID, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPlanEndDate(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		durationType string
		value        int
		want         time.Time
	}{
		{"days", 10, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)},
		{"weeks", 2, time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)},
		{"months", 1, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"years", 1, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.durationType, func(t *testing.T) {
			plan := &model.SubscriptionPlan{DurationType: tt.durationType, DurationValue: tt.value}
			assert.Equal(t, tt.want, PlanEndDate(plan, start))
		})
	}
}

func TestSubscriptionService_Create(t *testing.T) {
	_, svc, db := setupPlanService(t)
	gym := testutil.TestGymOwner(t, db)
	member := testutil.TestMember(t, db, gym.ID)
	plan := testutil.TestPlan(t, db, gym.ID)
	today := testutil.Today()

	info, err := svc.Create(gym.ID, &dto.CreateSubscriptionRequest{
		MemberID:           member.ID,
		SubscriptionPlanID: plan.ID,
		AmountPaid:         1500,
		PaymentMethod:      model.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "SUB-0001", info.SubscriptionID)
	assert.True(t, info.StartDate.Equal(today))
	assert.True(t, info.EndDate.Equal(today.AddDate(0, 0, 30)))
	assert.Equal(t, model.SubscriptionActive, info.Status)
	assert.True(t, info.IsActive)
	assert.Equal(t, 30, info.DaysRemaining)
	assert.Equal(t, plan.Name, info.PlanName)
	assert.Equal(t, member.User.FullName(), info.MemberName)

	_, err = svc.Create(gym.ID, &dto.CreateSubscriptionRequest{
		MemberID:           member.ID,
		SubscriptionPlanID: plan.ID,
		StartDate:          "2025-03-10",
		EndDate:            "2025-03-01",
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	other := testutil.TestGymOwner(t, db)
	foreignPlan := testutil.TestPlan(t, db, other.ID)
	_, err = svc.Create(gym.ID, &dto.CreateSubscriptionRequest{MemberID: member.ID, SubscriptionPlanID: foreignPlan.ID})
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestSubscriptionService_ActiveAndExpiring(t *testing.T) {
	_, svc, db := setupPlanService(t)
	gym := testutil.TestGymOwner(t, db)
	member := testutil.TestMember(t, db, gym.ID)
	plan := testutil.TestPlan(t, db, gym.ID)
	today := testutil.Today()

	create := func(start, end time.Time, status string) *dto.SubscriptionInfo {
		info, err := svc.Create(gym.ID, &dto.CreateSubscriptionRequest{
			MemberID:           member.ID,
			SubscriptionPlanID: plan.ID,
			StartDate:          start.Format("2006-01-02"),
			EndDate:            end.Format("2006-01-02"),
			Status:             status,
		})
		require.NoError(t, err)
		return info
	}

	soon := create(today.AddDate(0, 0, -20), today.AddDate(0, 0, 5), "")
	create(today.AddDate(0, 0, -1), today.AddDate(0, 0, 60), "")
	create(today.AddDate(0, 0, -40), today.AddDate(0, 0, -10), "")
	create(today, today.AddDate(0, 0, 3), model.SubscriptionCancelled)

	active, err := svc.ListActive(gym.ID)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	expiring, err := svc.ListExpiringSoon(gym.ID)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, soon.ID, expiring[0].ID)
	assert.True(t, expiring[0].IsExpiringSoon)

	cancelled := model.SubscriptionCancelled
	_, err = svc.Update(gym.ID, soon.ID, &dto.UpdateSubscriptionRequest{Status: &cancelled})
	require.NoError(t, err)

	expiring, err = svc.ListExpiringSoon(gym.ID)
	require.NoError(t, err)
	assert.Empty(t, expiring)

	_, total, err := svc.List(gym.ID, &dto.SubscriptionListRequest{Status: model.SubscriptionCancelled})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestSubscriptionService_UpdateRejectsInvertedRange(t *testing.T) {
	_, svc, db := setupPlanService(t)
	gym := testutil.TestGymOwner(t, db)
	member := testutil.TestMember(t, db, gym.ID)
	plan := testutil.TestPlan(t, db, gym.ID)

	info, err := svc.Create(gym.ID, &dto.CreateSubscriptionRequest{MemberID: member.ID, SubscriptionPlanID: plan.ID})
	require.NoError(t, err)

	end := info.StartDate.AddDate(0, 0, -1).Format("2006-01-02")
	_, err = svc.Update(gym.ID, info.ID, &dto.UpdateSubscriptionRequest{EndDate: &end})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	require.NoError(t, svc.Delete(gym.ID, info.ID))
	_, err = svc.Get(gym.ID, info.ID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestPlanService_DeleteKeepsPayments(t *testing.T) {
	svc, subs, db := setupPlanService(t)
	gym := testutil.TestGymOwner(t, db)
	member := testutil.TestMember(t, db, gym.ID)
	plan := testutil.TestPlan(t, db, gym.ID)

	sub, err := subs.Create(gym.ID, &dto.CreateSubscriptionRequest{MemberID: member.ID, SubscriptionPlanID: plan.ID})
	require.NoError(t, err)
	payment := testutil.TestPayment(t, db, gym.ID, member.ID, 1500, time.Now(), func(p *model.MembershipPayment) {
		p.SubscriptionPlanID = &plan.ID
		p.MemberSubscriptionID = &sub.ID
	})

	require.NoError(t, svc.Delete(gym.ID, plan.ID))

	_, err = subs.Get(gym.ID, sub.ID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)

	var stored model.MembershipPayment
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Nil(t, stored.SubscriptionPlanID)
	assert.Nil(t, stored.MemberSubscriptionID)
}
