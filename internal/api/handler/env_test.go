package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api/middleware"
	"github.com/qs3c/gym_go_server/internal/cache"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/pkg/jwt"
	"github.com/qs3c/gym_go_server/internal/pkg/oauth"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
	"github.com/qs3c/gym_go_server/internal/pkg/queue"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/pkg/validation"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

const testJWTSecret = "test-secret-key"

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterGinValidators(); err != nil {
		panic(err)
	}
}

// testEnv 一套接在 sqlite 与 miniredis 上的完整服务
type testEnv struct {
	db     *gorm.DB
	mr     *miniredis.Miniredis
	router *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{BaseURL: "http://gym.test"},
		JWT:    config.JWTConfig{Secret: testJWTSecret, ExpireHours: 24},
		Queue:  config.QueueConfig{ExtensionQueue: "membership_extension"},
		Cache:  config.CacheConfig{RevenueTTLSeconds: 600, AttendanceTTLSeconds: 300},
		Upload: config.UploadConfig{
			MaxSize:             1024,
			AllowedContentTypes: []string{"image/jpeg", "image/png"},
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	rdb, mr := testutil.SetupTestRedis(t)
	cfg := testConfig()

	store := cache.NewRedisStore(rdb)
	publisher := pubsub.NewPublisher(rdb)

	userRepo := repository.NewUserRepository(db)
	gymRepo := repository.NewGymOwnerRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authService := service.NewAuthService(db, userRepo, gymRepo, cfg, oauth.NewStateStore(rdb), nil)
	membership := service.NewMembershipService(db, store, publisher, queue.NewQueue(rdb, cfg.Queue.ExtensionQueue))

	auth := NewAuthHandler(authService, cfg.Upload.MaxSize)
	members := NewMemberHandler(service.NewMemberService(db, memberRepo, attendanceRepo, paymentRepo, cfg, nil), cfg.Upload.MaxSize)
	trainers := NewTrainerHandler(service.NewTrainerService(db, trainerRepo, memberRepo, repository.NewAssociationRepository(db)))
	equipment := NewEquipmentHandler(service.NewEquipmentService(db, equipmentRepo))
	plans := NewPlanHandler(service.NewPlanService(db, planRepo), service.NewSubscriptionService(db, subRepo, memberRepo, planRepo))
	payments := NewPaymentHandler(service.NewPaymentService(db, paymentRepo, memberRepo, planRepo, membership, store, cfg.Cache))
	attendance := NewAttendanceHandler(service.NewAttendanceService(db, attendanceRepo, memberRepo, gymRepo, store, publisher, cfg.Cache))
	notifications := NewNotificationHandler(service.NewNotificationService(db, notificationRepo, memberRepo))
	dashboard := NewDashboardHandler(service.NewDashboardService(memberRepo, trainerRepo, equipmentRepo, attendanceRepo, paymentRepo, notificationRepo))
	health := NewHealthHandler(db, rdb)

	r := gin.New()
	r.GET("/health", health.Live)
	r.GET("/ready", health.Ready)

	api := r.Group("/api/v1")
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/google", auth.GoogleLogin)
	api.POST("/auth/qr/verify", auth.VerifyQR)
	api.POST("/attendance/qr-checkin/:token", attendance.QRCheckIn)

	gym := api.Group("")
	gym.Use(middleware.Auth(testJWTSecret), middleware.RequireGymOwner(authService))
	gym.GET("/auth/profile", auth.GetProfile)
	gym.PUT("/auth/profile", auth.UpdateProfile)
	gym.POST("/auth/change-password", auth.ChangePassword)
	gym.POST("/auth/upload-picture", auth.UploadPicture)
	gym.POST("/auth/qr/regenerate", auth.RegenerateQR)
	gym.GET("/gym/qr-code", auth.GetQRCode)

	gym.POST("/members", members.Create)
	gym.GET("/members", members.List)
	gym.GET("/members/expiring", members.ListExpiring)
	gym.GET("/members/:id", members.Get)
	gym.PUT("/members/:id", members.Update)
	gym.DELETE("/members/:id", members.Delete)
	gym.GET("/members/:id/bmi", members.BMI)
	gym.POST("/members/:id/upload-picture", members.UploadPicture)

	gym.POST("/trainers", trainers.Create)
	gym.POST("/trainers/:id/associate", trainers.Associate)
	gym.POST("/trainers/:id/unassociate", trainers.Unassociate)
	gym.GET("/associations/active", trainers.ListActiveAssociations)

	gym.POST("/equipment", equipment.Create)
	gym.GET("/equipment/by-type", equipment.ByType)

	gym.POST("/subscription-plans", plans.CreatePlan)
	gym.GET("/subscription-plans/:id", plans.GetPlan)
	gym.POST("/member-subscriptions", plans.CreateSubscription)

	gym.POST("/payments", payments.Create)
	gym.GET("/payments", payments.List)
	gym.GET("/payments/monthly-revenue", payments.MonthlyRevenue)
	gym.GET("/payments/revenue-analytics", payments.RevenueAnalytics)

	gym.POST("/attendance/check-in", attendance.CheckIn)
	gym.POST("/attendance/check-out", attendance.CheckOut)
	gym.GET("/attendance/today", attendance.Today)

	gym.GET("/notifications", notifications.List)
	gym.GET("/notifications/unread-count", notifications.UnreadCount)
	gym.POST("/notifications/read-all", notifications.MarkAllRead)
	gym.POST("/notifications/:id/read", notifications.MarkRead)

	gym.GET("/dashboard/stats", dashboard.Stats)

	return &testEnv{db: db, mr: mr, router: r}
}

// ownerToken 创建一个健身房并返回其业主的 token
func (e *testEnv) ownerToken(t *testing.T, opts ...func(*model.GymOwner)) (*model.GymOwner, string) {
	t.Helper()
	owner := testutil.TestGymOwner(t, e.db, opts...)
	token, err := jwt.GenerateToken(owner.UserID, testJWTSecret, 24)
	require.NoError(t, err)
	return owner, token
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// decodeData 把 data 字段解到 out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var resp struct {
		Code int             `json:"code"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, response.CodeSuccess, resp.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func assertCode(t *testing.T, w *httptest.ResponseRecorder, status, code int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	require.Equal(t, code, parseResponse(t, w).Code)
}

