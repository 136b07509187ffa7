package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func TestPaymentRepository_Sums(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)
	gym := testutil.TestGymOwner(t, db)
	member := testutil.TestMember(t, db, gym.ID)
	today := testutil.Today()

	testutil.TestPayment(t, db, gym.ID, member.ID, 1000, today)
	testutil.TestPayment(t, db, gym.ID, member.ID, 500, today, func(p *model.MembershipPayment) {
		p.PaymentMethod = model.PaymentUPI
	})
	testutil.TestPayment(t, db, gym.ID, member.ID, 700, today, func(p *model.MembershipPayment) {
		p.Status = model.PaymentStatusPending
	})

	total, err := repo.SumCompleted(gym.ID, today, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.InDelta(t, 1500, total, 0.001)

	byMethod, err := repo.SumCompletedByMethod(gym.ID)
	require.NoError(t, err)
	require.Len(t, byMethod, 2)
	assert.Equal(t, model.PaymentCash, byMethod[0].PaymentMethod)
	assert.InDelta(t, 1000, byMethod[0].Total, 0.001)

	empty, err := repo.SumCompleted(gym.ID, today.AddDate(0, 0, 1), today.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestPaymentRepository_ListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)
	gym := testutil.TestGymOwner(t, db)
	alice := testutil.TestMember(t, db, gym.ID)
	bob := testutil.TestMember(t, db, gym.ID)
	today := testutil.Today()

	testutil.TestPayment(t, db, gym.ID, alice.ID, 1000, today.AddDate(0, 0, -10))
	testutil.TestPayment(t, db, gym.ID, alice.ID, 1000, today)
	testutil.TestPayment(t, db, gym.ID, bob.ID, 1000, today)

	_, total, err := repo.List(gym.ID, PaymentFilter{MemberID: alice.ID}, Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	from := today.AddDate(0, 0, -1)
	items, total, err := repo.List(gym.ID, PaymentFilter{DateFrom: &from, DateTo: &today}, Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.NotNil(t, items[0].Member)
}

func TestPaymentRepository_ListUnapplied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)
	gym := testutil.TestGymOwner(t, db)
	member := testutil.TestMember(t, db, gym.ID)
	today := testutil.Today()

	pending := testutil.TestPayment(t, db, gym.ID, member.ID, 1000, today)
	applied := testutil.TestPayment(t, db, gym.ID, member.ID, 1000, today)
	require.NoError(t, repo.UpdateFields(applied.ID, map[string]interface{}{"membership_applied": true}))

	list, err := repo.ListUnapplied(10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pending.ID, list[0].ID)
}
