package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api"
	"github.com/qs3c/gym_go_server/internal/api/handler"
	"github.com/qs3c/gym_go_server/internal/api/middleware"
	"github.com/qs3c/gym_go_server/internal/cache"
	"github.com/qs3c/gym_go_server/internal/database"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/pkg/cron"
	"github.com/qs3c/gym_go_server/internal/pkg/email"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/oauth"
	"github.com/qs3c/gym_go_server/internal/pkg/oss"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
	"github.com/qs3c/gym_go_server/internal/pkg/queue"
	"github.com/qs3c/gym_go_server/internal/pkg/validation"
	"github.com/qs3c/gym_go_server/internal/pkg/ws"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Init(logging.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Caller:    cfg.Log.Caller,
		Timestamp: true,
	})

	if err := clock.SetLocation(cfg.Server.Timezone); err != nil {
		logging.Fatal().Err(err).Str("timezone", cfg.Server.Timezone).Msg("invalid timezone")
	}
	if err := validation.RegisterGinValidators(); err != nil {
		logging.Fatal().Err(err).Msg("failed to register validators")
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate database")
	}
	logging.Info().Msg("database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect redis")
	}
	logging.Info().Msg("redis connected")

	// 初始化 OSS（可选），未配置时头像以 base64 存库
	var uploader oss.Uploader
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		client, err := oss.NewClient(&cfg.OSS)
		if err != nil {
			logging.Warn().Err(err).Msg("failed to init OSS client, falling back to inline pictures")
		} else if client != nil {
			uploader = client
			logging.Info().Msg("OSS client initialized")
		}
	}

	store := cache.NewRedisStore(rdb)
	publisher := pubsub.NewPublisher(rdb)
	extensionQueue := queue.NewQueue(rdb, cfg.Queue.ExtensionQueue)
	mailer := email.NewService(&cfg.Email)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	gymRepo := repository.NewGymOwnerRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	assocRepo := repository.NewAssociationRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(db, userRepo, gymRepo, cfg, oauth.NewStateStore(rdb), uploader)
	membershipService := service.NewMembershipService(db, store, publisher, extensionQueue)
	memberService := service.NewMemberService(db, memberRepo, attendanceRepo, paymentRepo, cfg, uploader)
	trainerService := service.NewTrainerService(db, trainerRepo, memberRepo, assocRepo)
	equipmentService := service.NewEquipmentService(db, equipmentRepo)
	planService := service.NewPlanService(db, planRepo)
	subscriptionService := service.NewSubscriptionService(db, subRepo, memberRepo, planRepo)
	paymentService := service.NewPaymentService(db, paymentRepo, memberRepo, planRepo, membershipService, store, cfg.Cache)
	attendanceService := service.NewAttendanceService(db, attendanceRepo, memberRepo, gymRepo, store, publisher, cfg.Cache)
	notificationService := service.NewNotificationService(db, notificationRepo, memberRepo)
	dashboardService := service.NewDashboardService(memberRepo, trainerRepo, equipmentRepo, attendanceRepo, paymentRepo, notificationRepo)
	maintenanceService := service.NewMaintenanceService(db, memberRepo, gymRepo, notificationService, publisher, mailer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WebSocket Hub 订阅 Redis 事件频道
	wsHub := ws.NewHub()
	go func() {
		if err := wsHub.Run(ctx, pubsub.NewSubscriber(rdb)); err != nil && ctx.Err() == nil {
			logging.Err(err).Msg("websocket hub stopped")
		}
	}()
	logging.Info().Msg("websocket hub started")

	// 每日任务
	cronService := cron.NewService(maintenanceService, mailer.Enabled())
	cronService.Start()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute)
	go limiter.Run(ctx.Done())

	// 初始化 Router
	router := api.NewRouter(api.Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg.Upload.MaxSize),
		Member:       handler.NewMemberHandler(memberService, cfg.Upload.MaxSize),
		Trainer:      handler.NewTrainerHandler(trainerService),
		Equipment:    handler.NewEquipmentHandler(equipmentService),
		Plan:         handler.NewPlanHandler(planService, subscriptionService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Attendance:   handler.NewAttendanceHandler(attendanceService),
		Notification: handler.NewNotificationHandler(notificationService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Health:       handler.NewHealthHandler(db, rdb),
		WebSocket:    handler.NewWebSocketHandler(wsHub, authService, cfg.JWT.Secret, cfg.CORS),
	}, authService, limiter, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logging.Info().Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Err(err).Msg("server shutdown failed")
	}

	cancel()
	cronService.Stop()
	_ = rdb.Close()
	logging.Info().Msg("server stopped")
}
