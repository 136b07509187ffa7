package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/cache"
	"github.com/qs3c/gym_go_server/internal/database"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
	"github.com/qs3c/gym_go_server/internal/pkg/queue"
	"github.com/qs3c/gym_go_server/internal/service"
	"github.com/qs3c/gym_go_server/internal/worker"
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

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect database")
	}
	logging.Info().Msg("database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect redis")
	}
	logging.Info().Msg("redis connected")

	// 重试时不再入队，失败由 processor 统一决定是否重新入队
	extensionQueue := queue.NewQueue(rdb, cfg.Queue.ExtensionQueue)
	membership := service.NewMembershipService(db, cache.NewRedisStore(rdb), pubsub.NewPublisher(rdb), nil)
	processor := worker.NewProcessor(membership, extensionQueue, cfg.Queue.MaxAttempts)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logging.Info().Msg("received shutdown signal")
		cancel()
	}()

	logging.Info().
		Str("queue", cfg.Queue.ExtensionQueue).
		Int("max_workers", cfg.Queue.MaxWorkers).
		Int("max_attempts", cfg.Queue.MaxAttempts).
		Msg("worker started")

	processor.Run(ctx, cfg.Queue.MaxWorkers)

	_ = rdb.Close()
	logging.Info().Msg("worker shutdown complete")
}
