package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func TestDashboardService_Stats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	pinClock(t, time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	svc := NewDashboardService(
		repository.NewMemberRepository(db),
		repository.NewTrainerRepository(db),
		repository.NewEquipmentRepository(db),
		repository.NewAttendanceRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewNotificationRepository(db),
	)

	gym := testutil.TestGymOwner(t, db)
	other := testutil.TestGymOwner(t, db)

	active := testutil.TestMember(t, db, gym.ID, testutil.WithExpiry(today.AddDate(0, 0, 60)))
	expiring := testutil.TestMember(t, db, gym.ID, testutil.WithExpiry(today.AddDate(0, 0, 3)))
	testutil.TestMember(t, db, gym.ID, testutil.WithExpiry(today.AddDate(0, 0, -2)))
	testutil.TestMember(t, db, gym.ID, testutil.WithExpiry(today.AddDate(0, 0, -20)), testutil.WithMemberInactive())
	testutil.TestMember(t, db, other.ID, testutil.WithExpiry(today.AddDate(0, 0, 60)))

	testutil.TestTrainer(t, db, gym.ID)
	testutil.TestTrainer(t, db, gym.ID, testutil.WithTrainerUnavailable())

	testutil.TestEquipment(t, db, gym.ID)
	testutil.TestEquipment(t, db, gym.ID, func(e *model.Equipment) { e.IsWorking = false })

	testutil.TestAttendance(t, db, gym.ID, active.ID, time.Date(2025, 3, 15, 7, 0, 0, 0, time.UTC))
	testutil.TestAttendance(t, db, gym.ID, expiring.ID, time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC))
	testutil.TestAttendance(t, db, gym.ID, active.ID, time.Date(2025, 3, 14, 7, 0, 0, 0, time.UTC))

	testutil.TestPayment(t, db, gym.ID, active.ID, 1500, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))
	testutil.TestPayment(t, db, gym.ID, expiring.ID, 999.99, time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	testutil.TestPayment(t, db, gym.ID, active.ID, 1500, time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC))

	require.NoError(t, repository.NewNotificationRepository(db).Create(&model.Notification{
		GymOwnerID: gym.ID,
		Type:       model.NotificationSystemAlert,
		Title:      "Welcome",
	}))

	stats, err := svc.Stats(gym.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalMembers)
	assert.Equal(t, int64(3), stats.ActiveMembers)
	assert.Equal(t, int64(2), stats.ExpiredMembers)
	assert.Equal(t, int64(1), stats.ExpiringMembers)
	assert.Equal(t, int64(2), stats.TotalTrainers)
	assert.Equal(t, int64(1), stats.AvailableTrainers)
	assert.Equal(t, int64(2), stats.TotalEquipment)
	assert.Equal(t, int64(1), stats.WorkingEquipment)
	assert.Equal(t, int64(2), stats.TodayAttendance)
	assert.InDelta(t, 2499.99, stats.MonthlyRevenue, 0.001)
	assert.Equal(t, int64(1), stats.UnreadNotifications)
}
