package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func nextCode(t *testing.T, db *gorm.DB, kind CodeKind, gymOwnerID int64) string {
	t.Helper()
	var code string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		code, err = NextCode(tx, kind, gymOwnerID)
		return err
	})
	require.NoError(t, err)
	return code
}

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "MEM-0001", FormatCode("MEM", 1))
	assert.Equal(t, "PAY-0042", FormatCode("PAY", 42))
	assert.Equal(t, "ATT-12345", FormatCode("ATT", 12345))
}

func TestParseCode(t *testing.T) {
	n, ok := parseCode("MEM", "MEM-0007")
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)

	_, ok = parseCode("MEM", "TRN-0007")
	assert.False(t, ok)

	_, ok = parseCode("MEM", "MEM-ABCD1234")
	assert.False(t, ok)
}

func TestNextCode_PerTenantSequences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	gymA := testutil.TestGymOwner(t, db)
	gymB := testutil.TestGymOwner(t, db)

	assert.Equal(t, "MEM-0001", nextCode(t, db, MemberCode, gymA.ID))
	assert.Equal(t, "MEM-0002", nextCode(t, db, MemberCode, gymA.ID))
	assert.Equal(t, "MEM-0001", nextCode(t, db, MemberCode, gymB.ID))

	// 不同实体互不影响
	assert.Equal(t, "TRN-0001", nextCode(t, db, TrainerCode, gymA.ID))
}

func TestNextCode_SeedsFromLatestRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	gym := testutil.TestGymOwner(t, db)
	testutil.TestMember(t, db, gym.ID, testutil.WithMemberCode("MEM-0041"))

	assert.Equal(t, "MEM-0042", nextCode(t, db, MemberCode, gym.ID))
}

func TestNextCode_CorruptedLatestCodeFallsBackToCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	gym := testutil.TestGymOwner(t, db)
	testutil.TestMember(t, db, gym.ID, testutil.WithMemberCode("MEM-0001"))
	testutil.TestMember(t, db, gym.ID, testutil.WithMemberCode("legacy-x"))

	// 最新一条编号无法解析，按已有 2 条记录继续
	assert.Equal(t, "MEM-0003", nextCode(t, db, MemberCode, gym.ID))
}

func TestNextCode_SkipsTakenCodes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	gym := testutil.TestGymOwner(t, db)
	// 计数器从 0 开始，但 MEM-0001 已经被手工占用
	require.NoError(t, db.Create(&model.CodeSequence{GymOwnerID: gym.ID, Entity: MemberCode.Entity}).Error)
	testutil.TestMember(t, db, gym.ID, testutil.WithMemberCode("MEM-0001"))

	assert.Equal(t, "MEM-0002", nextCode(t, db, MemberCode, gym.ID))
}

func TestNextCode_FallbackAfterTooManyCollisions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	gym := testutil.TestGymOwner(t, db)
	require.NoError(t, db.Create(&model.CodeSequence{GymOwnerID: gym.ID, Entity: MemberCode.Entity}).Error)
	for i := 1; i <= maxCodeAttempts; i++ {
		testutil.TestMember(t, db, gym.ID, testutil.WithMemberCode(fmt.Sprintf("MEM-%04d", i)))
	}

	code := nextCode(t, db, MemberCode, gym.ID)
	assert.Regexp(t, `^MEM-[0-9A-F]{8}$`, code)
}

func TestNextCode_AttendanceIsGlobal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	gymA := testutil.TestGymOwner(t, db)
	gymB := testutil.TestGymOwner(t, db)

	assert.Equal(t, "ATT-0001", nextCode(t, db, AttendanceCode, gymA.ID))
	assert.Equal(t, "ATT-0002", nextCode(t, db, AttendanceCode, gymB.ID))
}

func TestRandomCode(t *testing.T) {
	code := RandomCode("PAY")
	assert.Regexp(t, `^PAY-[0-9A-F]{8}$`, code)
	assert.NotEqual(t, code, RandomCode("PAY"))
}

func TestIsDuplicateKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	gym := testutil.TestGymOwner(t, db)
	member := testutil.TestMember(t, db, gym.ID)
	today := testutil.Today()

	first := &model.Attendance{GymOwnerID: gym.ID, MemberID: member.ID, Date: today, AttendanceID: "ATT-9001", CheckInTime: today}
	require.NoError(t, db.Create(first).Error)

	second := &model.Attendance{GymOwnerID: gym.ID, MemberID: member.ID, Date: today, AttendanceID: "ATT-9002", CheckInTime: today}
	err := db.Create(second).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
	assert.False(t, IsDuplicateKey(nil))
}
