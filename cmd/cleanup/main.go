package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/database"
	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/pkg/email"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
)

var (
	dryRun            = flag.Bool("dry-run", false, "Show which members would be deactivated without changing anything")
	sendNotifications = flag.Bool("send-notifications", false, "Email each gym owner a summary of deactivated members")
)

// deactivate-expired-members：停用会员期已过的会员并通知业主
func main() {
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Init(logging.Config{
		Level:     cfg.Log.Level,
		Format:    "console",
		Timestamp: true,
	})

	if err := clock.SetLocation(cfg.Server.Timezone); err != nil {
		logging.Fatal().Err(err).Str("timezone", cfg.Server.Timezone).Msg("invalid timezone")
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect database")
	}

	// Redis 不可用时跳过实时推送
	var publisher pubsub.EventPublisher = pubsub.NopPublisher{}
	if rdb, err := database.NewRedis(&cfg.Redis); err != nil {
		logging.Warn().Err(err).Msg("redis unavailable, live events disabled")
	} else {
		defer rdb.Close()
		publisher = pubsub.NewPublisher(rdb)
	}

	mailer := email.NewService(&cfg.Email)
	if *sendNotifications && !mailer.Enabled() {
		logging.Warn().Msg("email is not configured, summaries will not be sent")
	}

	memberRepo := repository.NewMemberRepository(db)
	notifications := service.NewNotificationService(db, repository.NewNotificationRepository(db), memberRepo)
	maintenance := service.NewMaintenanceService(db, memberRepo, repository.NewGymOwnerRepository(db), notifications, publisher, mailer)

	logging.Info().Bool("dry_run", *dryRun).Bool("send_notifications", *sendNotifications).Msg("deactivating expired members")

	report, err := maintenance.DeactivateExpired(context.Background(), service.DeactivateOptions{
		DryRun:     *dryRun,
		SendEmails: *sendNotifications,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("deactivation failed")
	}

	for _, gym := range report.Gyms {
		logging.Info().
			Int64("gym_owner_id", gym.GymOwnerID).
			Str("gym", gym.GymName).
			Int("members", len(gym.MemberCodes)).
			Bool("emailed", gym.Emailed).
			Msg(strings.Join(gym.MemberCodes, ", "))
	}

	if report.DryRun {
		logging.Info().Int("would_deactivate", report.Deactivated).Msg("dry run, no members were changed")
		return
	}
	logging.Info().Int("deactivated", report.Deactivated).Int("gyms", len(report.Gyms)).Msg("cleanup completed")
}
