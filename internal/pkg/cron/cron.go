package cron

import (
	"context"
	"sync"
	"time"

	"github.com/qs3c/gym_go_server/internal/pkg/clock"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/service"
)

// Maintenance 每日任务依赖的批处理逻辑，由 service.MaintenanceService 实现
type Maintenance interface {
	NotifyExpiringSoon(ctx context.Context) (int, error)
	DeactivateExpired(ctx context.Context, opts service.DeactivateOptions) (*service.DeactivationReport, error)
}

type Service struct {
	maintenance Maintenance
	sendEmails  bool
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func NewService(maintenance Maintenance, sendEmails bool) *Service {
	return &Service{
		maintenance: maintenance,
		sendEmails:  sendEmails,
		stopChan:    make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	s.wg.Add(1)
	go s.runDaily()
	logging.Info().Msg("cron service started (expiry reminders + member deactivation)")
}

// Stop 停止定时任务并等待正在执行的任务结束
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	logging.Info().Msg("cron service stopped")
}

// runDaily 每天本地时区零点执行一次
func (s *Service) runDaily() {
	defer s.wg.Done()

	timer := time.NewTimer(untilNextMidnight(clock.Now()))
	defer timer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-timer.C:
			s.RunNow(context.Background())
			timer.Reset(untilNextMidnight(clock.Now()))
		}
	}
}

// untilNextMidnight 距离 now 所在时区下一个零点的时长
func untilNextMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}

// RunNow 立即执行一轮每日任务，单个任务失败不影响另一个
func (s *Service) RunNow(ctx context.Context) {
	start := time.Now()

	created, err := s.maintenance.NotifyExpiringSoon(ctx)
	if err != nil {
		logging.Err(err).Msg("expiring-soon reminders failed")
	} else {
		logging.Info().Int("created", created).Msg("expiring-soon reminders done")
	}

	report, err := s.maintenance.DeactivateExpired(ctx, service.DeactivateOptions{SendEmails: s.sendEmails})
	if err != nil {
		logging.Err(err).Msg("expired member deactivation failed")
	} else {
		logging.Info().
			Int("deactivated", report.Deactivated).
			Int("gyms", len(report.Gyms)).
			Msg("expired member deactivation done")
	}

	logging.Debug().Dur("elapsed", time.Since(start)).Msg("daily jobs finished")
}
