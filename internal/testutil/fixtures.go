package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

// TestPassword 夹具用户的明文密码
const TestPassword = "password123"

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

// Today 测试里的“今天”（UTC 零点）
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	passwordHash := string(hash)
	n := nextSeq()
	user := &model.User{
		Email:        fmt.Sprintf("user_%d_%d@example.com", n, time.Now().UnixNano()),
		PasswordHash: &passwordHash,
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", n),
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithName 设置姓名
func WithName(first, last string) func(*model.User) {
	return func(u *model.User) {
		u.FirstName = first
		u.LastName = last
	}
}

// TestGymOwner 创建测试健身房及其账号
func TestGymOwner(t *testing.T, db *gorm.DB, opts ...func(*model.GymOwner)) *model.GymOwner {
	t.Helper()

	user := TestUser(t, db)
	owner := &model.GymOwner{
		UserID:           user.ID,
		GymName:          fmt.Sprintf("Test Gym %d", nextSeq()),
		GymAddress:       "1 Fitness Street",
		SubscriptionPlan: "basic",
		IsActive:         true,
		QRCodeToken:      uuid.New().String(),
	}

	for _, opt := range opts {
		opt(owner)
	}

	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("Failed to create test gym owner: %v", err)
	}
	owner.User = user

	return owner
}

// WithGymInactive 停用健身房
func WithGymInactive() func(*model.GymOwner) {
	return func(g *model.GymOwner) {
		g.IsActive = false
	}
}

// TestMember 创建测试会员（默认 30 天后到期）
func TestMember(t *testing.T, db *gorm.DB, gymOwnerID int64, opts ...func(*model.Member)) *model.Member {
	t.Helper()

	user := TestUser(t, db)
	var count int64
	db.Model(&model.Member{}).Where("gym_owner_id = ?", gymOwnerID).Count(&count)

	today := Today()
	member := &model.Member{
		GymOwnerID:       gymOwnerID,
		UserID:           user.ID,
		MemberID:         fmt.Sprintf("MEM-%04d", count+1),
		MembershipType:   model.MembershipBasic,
		JoinDate:         today,
		MembershipExpiry: today.AddDate(0, 0, 30),
		IsActive:         true,
	}

	for _, opt := range opts {
		opt(member)
	}

	if err := db.Create(member).Error; err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}
	member.User = user

	return member
}

// WithExpiry 设置到期日期
func WithExpiry(expiry time.Time) func(*model.Member) {
	return func(m *model.Member) {
		m.MembershipExpiry = expiry
	}
}

// WithMemberInactive 停用会员
func WithMemberInactive() func(*model.Member) {
	return func(m *model.Member) {
		m.IsActive = false
	}
}

// WithMemberCode 指定会员编号
func WithMemberCode(code string) func(*model.Member) {
	return func(m *model.Member) {
		m.MemberID = code
	}
}

// WithBody 设置身高体重
func WithBody(heightCm, weightKg float64) func(*model.Member) {
	return func(m *model.Member) {
		m.HeightCm = &heightCm
		m.WeightKg = &weightKg
	}
}

// TestTrainer 创建测试教练
func TestTrainer(t *testing.T, db *gorm.DB, gymOwnerID int64, opts ...func(*model.Trainer)) *model.Trainer {
	t.Helper()

	user := TestUser(t, db)
	var count int64
	db.Model(&model.Trainer{}).Where("gym_owner_id = ?", gymOwnerID).Count(&count)

	trainer := &model.Trainer{
		GymOwnerID:     gymOwnerID,
		UserID:         user.ID,
		TrainerID:      fmt.Sprintf("TRN-%04d", count+1),
		Specialization: "general",
		HourlyRate:     500,
		IsAvailable:    true,
		JoinDate:       Today(),
	}

	for _, opt := range opts {
		opt(trainer)
	}

	if err := db.Create(trainer).Error; err != nil {
		t.Fatalf("Failed to create test trainer: %v", err)
	}
	trainer.User = user

	return trainer
}

// WithTrainerUnavailable 教练不可预约
func WithTrainerUnavailable() func(*model.Trainer) {
	return func(tr *model.Trainer) {
		tr.IsAvailable = false
	}
}

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, db *gorm.DB, gymOwnerID int64, opts ...func(*model.SubscriptionPlan)) *model.SubscriptionPlan {
	t.Helper()

	var count int64
	db.Model(&model.SubscriptionPlan{}).Where("gym_owner_id = ?", gymOwnerID).Count(&count)

	plan := &model.SubscriptionPlan{
		GymOwnerID:    gymOwnerID,
		PlanID:        fmt.Sprintf("PLN-%04d", count+1),
		Name:          "Monthly",
		Price:         1500,
		DurationValue: 1,
		DurationType:  "months",
		Features:      model.StringArray{"Gym floor"},
		IsActive:      true,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// TestEquipment 创建测试器械
func TestEquipment(t *testing.T, db *gorm.DB, gymOwnerID int64, opts ...func(*model.Equipment)) *model.Equipment {
	t.Helper()

	var count int64
	db.Model(&model.Equipment{}).Where("gym_owner_id = ?", gymOwnerID).Count(&count)

	equipment := &model.Equipment{
		GymOwnerID:    gymOwnerID,
		EquipmentID:   fmt.Sprintf("EQP-%04d", count+1),
		Name:          "Treadmill",
		EquipmentType: "cardio",
		PurchaseDate:  Today().AddDate(-1, 0, 0),
		Price:         80000,
		IsWorking:     true,
		Condition:     "good",
		Quantity:      1,
	}

	for _, opt := range opts {
		opt(equipment)
	}

	if err := db.Create(equipment).Error; err != nil {
		t.Fatalf("Failed to create test equipment: %v", err)
	}

	return equipment
}

// TestPayment 直接写入一条支付记录（不触发会员延期）
func TestPayment(t *testing.T, db *gorm.DB, gymOwnerID, memberID int64, amount float64, paidAt time.Time, opts ...func(*model.MembershipPayment)) *model.MembershipPayment {
	t.Helper()

	payment := &model.MembershipPayment{
		GymOwnerID:       gymOwnerID,
		PaymentID:        fmt.Sprintf("PAY-T%d", nextSeq()),
		MemberID:         memberID,
		Amount:           amount,
		PaymentDate:      paidAt,
		PaymentMethod:    model.PaymentCash,
		Status:           model.PaymentStatusCompleted,
		MembershipMonths: 1,
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// TestAttendance 直接写入一条签到记录
func TestAttendance(t *testing.T, db *gorm.DB, gymOwnerID, memberID int64, checkIn time.Time) *model.Attendance {
	t.Helper()

	y, m, d := checkIn.Date()
	attendance := &model.Attendance{
		GymOwnerID:   gymOwnerID,
		MemberID:     memberID,
		Date:         time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		AttendanceID: fmt.Sprintf("ATT-T%d", nextSeq()),
		CheckInTime:  checkIn,
	}

	if err := db.Create(attendance).Error; err != nil {
		t.Fatalf("Failed to create test attendance: %v", err)
	}

	return attendance
}
