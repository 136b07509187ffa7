package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func TestAttendanceHandler_CheckInOut(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.ownerToken(t)
	member := testutil.TestMember(t, env.db, owner.ID)

	w := env.do("POST", "/api/v1/attendance/check-in", token, map[string]interface{}{"member_id": member.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var info map[string]interface{}
	decodeData(t, w, &info)
	assert.Equal(t, "ATT-0001", info["attendance_id"])
	assert.Equal(t, false, info["qr_code_used"])

	w = env.do("POST", "/api/v1/attendance/check-in", token, map[string]interface{}{"member_id": member.ID})
	assertCode(t, w, http.StatusConflict, response.CodeDuplicateAction)

	w = env.do("POST", "/api/v1/attendance/check-out", token, map[string]interface{}{"member_id": member.ID})
	decodeData(t, w, &info)
	assert.NotNil(t, info["check_out_time"])
	assert.NotNil(t, info["session_duration_minutes"])

	w = env.do("POST", "/api/v1/attendance/check-out", token, map[string]interface{}{"member_id": member.ID})
	assertCode(t, w, http.StatusConflict, response.CodeDuplicateAction)

	w = env.do("GET", "/api/v1/attendance/today", token, nil)
	var today dto.TodayAttendanceResponse
	decodeData(t, w, &today)
	assert.Equal(t, 1, today.TotalCheckIns)
	assert.Equal(t, 1, today.TotalCheckOuts)
}

func TestAttendanceHandler_CheckOutWithoutCheckIn(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.ownerToken(t)
	member := testutil.TestMember(t, env.db, owner.ID)

	w := env.do("POST", "/api/v1/attendance/check-out", token, map[string]interface{}{"member_id": member.ID})
	assertCode(t, w, http.StatusNotFound, response.CodeResourceNotFound)

}

func TestAttendanceHandler_QRCheckIn(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.ownerToken(t)
	member := testutil.TestMember(t, env.db, owner.ID)
	path := "/api/v1/attendance/qr-checkin/" + owner.QRCodeToken

	w := env.do("POST", path, "", map[string]string{"member_email": member.User.Email})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parseResponse(t, w)
	assert.Equal(t, "Successfully checked in to "+owner.GymName, resp.Message)

	var body dto.QRCheckInResponse
	decodeData(t, w, &body)
	require.NotNil(t, body.Attendance)
	assert.True(t, body.Attendance.QRCodeUsed)

	w = env.do("POST", path, "", map[string]string{"member_id": member.MemberID})
	assertCode(t, w, http.StatusConflict, response.CodeDuplicateAction)

	w = env.do("POST", path, "", map[string]string{})
	assertCode(t, w, http.StatusBadRequest, response.CodeParamError)

	w = env.do("POST", path, "", map[string]string{"member_id": "MEM-9999"})
	assertCode(t, w, http.StatusNotFound, response.CodeResourceNotFound)

	w = env.do("POST", "/api/v1/attendance/qr-checkin/not-a-token", "", map[string]string{"member_id": member.MemberID})
	assertCode(t, w, http.StatusNotFound, response.CodeResourceNotFound)
}
