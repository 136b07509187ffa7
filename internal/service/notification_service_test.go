package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func setupNotificationService(t *testing.T) (*NotificationService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	svc := NewNotificationService(db, repository.NewNotificationRepository(db), repository.NewMemberRepository(db))
	return svc, db
}

func createNotification(t *testing.T, db *gorm.DB, gymOwnerID int64, notificationType string) *model.Notification {
	t.Helper()
	n := &model.Notification{
		GymOwnerID: gymOwnerID,
		Type:       notificationType,
		Priority:   model.PriorityMedium,
		Title:      "Test notification",
	}
	require.NoError(t, repository.NewNotificationRepository(db).Create(n))
	return n
}

func TestNotificationService_ReadFlow(t *testing.T) {
	svc, db := setupNotificationService(t)
	gym := testutil.TestGymOwner(t, db)
	other := testutil.TestGymOwner(t, db)

	first := createNotification(t, db, gym.ID, model.NotificationSystemAlert)
	createNotification(t, db, gym.ID, model.NotificationPaymentReceived)
	createNotification(t, db, gym.ID, model.NotificationPaymentReceived)
	foreign := createNotification(t, db, other.ID, model.NotificationSystemAlert)

	count, err := svc.UnreadCount(gym.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count.UnreadCount)

	read, err := svc.MarkRead(gym.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)

	// 重复标记保持原状
	again, err := svc.MarkRead(gym.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, again.ReadAt.Equal(*read.ReadAt))

	_, err = svc.MarkRead(gym.ID, foreign.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	unread := false
	items, total, err := svc.List(gym.ID, &dto.NotificationListRequest{IsRead: &unread})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	_, total, err = svc.List(gym.ID, &dto.NotificationListRequest{Type: model.NotificationSystemAlert})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	all, err := svc.MarkAllRead(gym.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Updated)

	count, err = svc.UnreadCount(gym.ID)
	require.NoError(t, err)
	assert.Zero(t, count.UnreadCount)

	count, err = svc.UnreadCount(other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.UnreadCount)
}

func TestNotificationService_CheckExpiring(t *testing.T) {
	svc, db := setupNotificationService(t)
	ctx := context.Background()
	gym := testutil.TestGymOwner(t, db)
	today := testutil.Today()

	soon := testutil.TestMember(t, db, gym.ID, testutil.WithExpiry(today.AddDate(0, 0, 3)))
	testutil.TestMember(t, db, gym.ID, testutil.WithExpiry(today.AddDate(0, 0, 7)))
	testutil.TestMember(t, db, gym.ID, testutil.WithExpiry(today.AddDate(0, 0, 8)))
	testutil.TestMember(t, db, gym.ID, testutil.WithExpiry(today.AddDate(0, 0, 2)), testutil.WithMemberInactive())

	resp, err := svc.CheckExpiring(ctx, gym.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Checked)
	assert.Equal(t, 2, resp.Created)

	var n model.Notification
	require.NoError(t, db.Where("related_member_id = ?", soon.ID).First(&n).Error)
	assert.Equal(t, model.NotificationMemberExpiringSoon, n.Type)
	assert.Equal(t, "Member Expiring Soon: "+soon.User.FullName(), n.Title)
	assert.Contains(t, n.Message, "will expire in 3 days")

	// 未读提醒存在时不重复创建
	resp, err = svc.CheckExpiring(ctx, gym.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Created)

	// 已读后允许再次提醒
	_, err = svc.MarkRead(gym.ID, n.ID)
	require.NoError(t, err)
	resp, err = svc.CheckExpiring(ctx, gym.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Created)
}

func TestExpiredNotification(t *testing.T) {
	member := func(id int64, first, last string) *model.Member {
		return &model.Member{ID: id, User: &model.User{FirstName: first, LastName: last}}
	}

	single := expiredNotification(7, []*model.Member{member(1, "Ravi", "Kumar")})
	assert.Equal(t, "Member Expired: Ravi Kumar", single.Title)
	assert.Equal(t, model.PriorityHigh, single.Priority)
	require.NotNil(t, single.RelatedMemberID)
	assert.Equal(t, int64(1), *single.RelatedMemberID)

	many := expiredNotification(7, []*model.Member{
		member(1, "Ravi", "Kumar"),
		member(2, "Meera", "Shah"),
		member(3, "Arjun", "Das"),
		member(4, "Priya", "Nair"),
		member(5, "Kabir", "Jain"),
	})
	assert.Equal(t, "5 Members Expired", many.Title)
	assert.Nil(t, many.RelatedMemberID)
	assert.Contains(t, many.Message, "Ravi Kumar, Meera Shah, Arjun Das and 2 others")
}
