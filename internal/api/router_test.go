package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api/handler"
	"github.com/qs3c/gym_go_server/internal/api/middleware"
	"github.com/qs3c/gym_go_server/internal/cache"
	"github.com/qs3c/gym_go_server/internal/pkg/oauth"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
	"github.com/qs3c/gym_go_server/internal/pkg/queue"
	"github.com/qs3c/gym_go_server/internal/pkg/ws"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	rdb, _ := testutil.SetupTestRedis(t)

	cfg := &config.Config{
		JWT:       config.JWTConfig{Secret: "router-secret", ExpireHours: 1},
		Queue:     config.QueueConfig{ExtensionQueue: "membership_extension"},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{RPS: 0.001, Burst: 2},
		Upload:    config.UploadConfig{MaxSize: 1024},
	}

	store := cache.NewRedisStore(rdb)
	publisher := pubsub.NewPublisher(rdb)
	memberRepo := repository.NewMemberRepository(db)
	gymRepo := repository.NewGymOwnerRepository(db)
	planRepo := repository.NewPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authService := service.NewAuthService(db, repository.NewUserRepository(db), gymRepo, cfg, oauth.NewStateStore(rdb), nil)
	membership := service.NewMembershipService(db, store, publisher, queue.NewQueue(rdb, cfg.Queue.ExtensionQueue))

	dashboard := service.NewDashboardService(memberRepo, trainerRepo, equipmentRepo, attendanceRepo, paymentRepo, notificationRepo)
	subscriptions := service.NewSubscriptionService(db, repository.NewSubscriptionRepository(db), memberRepo, planRepo)

	h := Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg.Upload.MaxSize),
		Member:       handler.NewMemberHandler(service.NewMemberService(db, memberRepo, attendanceRepo, paymentRepo, cfg, nil), cfg.Upload.MaxSize),
		Trainer:      handler.NewTrainerHandler(service.NewTrainerService(db, trainerRepo, memberRepo, repository.NewAssociationRepository(db))),
		Equipment:    handler.NewEquipmentHandler(service.NewEquipmentService(db, equipmentRepo)),
		Plan:         handler.NewPlanHandler(service.NewPlanService(db, planRepo), subscriptions),
		Payment:      handler.NewPaymentHandler(service.NewPaymentService(db, paymentRepo, memberRepo, planRepo, membership, store, cfg.Cache)),
		Attendance:   handler.NewAttendanceHandler(service.NewAttendanceService(db, attendanceRepo, memberRepo, gymRepo, store, publisher, cfg.Cache)),
		Notification: handler.NewNotificationHandler(service.NewNotificationService(db, notificationRepo, memberRepo)),
		Dashboard:    handler.NewDashboardHandler(dashboard),
		Health:       handler.NewHealthHandler(db, rdb),
		WebSocket:    handler.NewWebSocketHandler(ws.NewHub(), authService, cfg.JWT.Secret, cfg.CORS),
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, time.Minute)
	return NewRouter(h, authService, limiter, cfg).Setup()
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Operational(t *testing.T) {
	r := setupRouter(t)

	w := serve(r, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(r, "GET", "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gym_http_requests_total")
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	r := setupRouter(t)

	for _, path := range []string{
		"/api/v1/members",
		"/api/v1/trainers",
		"/api/v1/equipment",
		"/api/v1/subscription-plans",
		"/api/v1/member-subscriptions",
		"/api/v1/payments",
		"/api/v1/attendance",
		"/api/v1/notifications",
		"/api/v1/dashboard/stats",
		"/api/v1/gym/qr-code",
	} {
		w := serve(r, "GET", path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouter_PublicRoutesRateLimited(t *testing.T) {
	r := setupRouter(t)
	body := `{"email":"nobody@example.com","password":"whatever1"}`

	assert.Equal(t, http.StatusUnauthorized, serve(r, "POST", "/api/v1/auth/login", body).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "POST", "/api/v1/auth/login", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "POST", "/api/v1/auth/login", body).Code)

	// 扫码签到不需要 token，但同样受限流约束
	w := serve(r, "POST", "/api/v1/attendance/qr-checkin/unknown", `{"member_id":"MEM-0001"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/members", nil)
	req.Header.Set("Origin", "http://front.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://front.example", w.Header().Get("Access-Control-Allow-Origin"))
}
