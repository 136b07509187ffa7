package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/internal/cache"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func TestPaymentHandler_CreateExtendsMembership(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.ownerToken(t)
	today := testutil.Today()
	member := testutil.TestMember(t, env.db, owner.ID, testutil.WithExpiry(today.AddDate(0, 0, -5)))

	w := env.do("POST", "/api/v1/payments", token, map[string]interface{}{
		"member_id":         member.ID,
		"amount":            2999,
		"payment_method":    "upi",
		"membership_months": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var payment map[string]interface{}
	decodeData(t, w, &payment)
	assert.Equal(t, "PAY-0001", payment["payment_id"])
	assert.Equal(t, member.MemberID, payment["member_code"])

	var stored model.Member
	require.NoError(t, env.db.First(&stored, member.ID).Error)
	assert.True(t, stored.MembershipExpiry.Equal(today.AddDate(0, 0, 90)))
	assert.True(t, stored.IsActive)

	w = env.do("GET", "/api/v1/payments?payment_method=upi", token, nil)
	var page response.PageData
	decodeData(t, w, &page)
	assert.Equal(t, int64(1), page.Total)

	w = env.do("GET", "/api/v1/notifications/unread-count", token, nil)
	var unread dto.UnreadCountResponse
	decodeData(t, w, &unread)
	assert.Equal(t, int64(1), unread.UnreadCount)
}

func TestPaymentHandler_Validation(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.ownerToken(t)
	member := testutil.TestMember(t, env.db, owner.ID)

	w := env.do("POST", "/api/v1/payments", token, map[string]interface{}{
		"member_id": member.ID, "amount": 100, "payment_method": "bitcoin",
	})
	assertCode(t, w, http.StatusBadRequest, response.CodeParamError)

	w = env.do("POST", "/api/v1/payments", token, map[string]interface{}{
		"member_id": member.ID + 1000, "amount": 100, "payment_method": "cash",
	})
	assertCode(t, w, http.StatusNotFound, response.CodeResourceNotFound)

	w = env.do("GET", "/api/v1/payments/monthly-revenue?month=13", token, nil)
	assertCode(t, w, http.StatusBadRequest, response.CodeParamError)
}

func TestPaymentHandler_Revenue(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.ownerToken(t)
	member := testutil.TestMember(t, env.db, owner.ID)

	testutil.TestPayment(t, env.db, owner.ID, member.ID, 1200, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	testutil.TestPayment(t, env.db, owner.ID, member.ID, 300, time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC))
	testutil.TestPayment(t, env.db, owner.ID, member.ID, 500, time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC))

	w := env.do("GET", "/api/v1/payments/monthly-revenue?year=2024&month=6", token, nil)
	var monthly dto.MonthlyRevenueResponse
	decodeData(t, w, &monthly)
	assert.Equal(t, 2024, monthly.Year)
	assert.Equal(t, 6, monthly.Month)
	assert.InDelta(t, 1500, monthly.Revenue, 0.001)

	w = env.do("GET", "/api/v1/payments/revenue-analytics", token, nil)
	var analytics dto.RevenueAnalytics
	decodeData(t, w, &analytics)
	assert.InDelta(t, 2000, analytics.TotalRevenue, 0.001)
	assert.Len(t, analytics.MonthlyTrends, 12)
	assert.True(t, env.mr.Exists(cache.RevenueKey(owner.ID)))
}
