package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/metrics"
	"github.com/qs3c/gym_go_server/internal/pkg/queue"
	"github.com/qs3c/gym_go_server/internal/service"
)

const defaultPollTimeout = 5 * time.Second

// Applier 重新执行一次会员延期，对同一支付重复调用是安全的
type Applier interface {
	ApplyPayment(ctx context.Context, gymOwnerID, paymentID int64) (*service.ExtensionResult, error)
}

// RetryQueue 延期重试队列
type RetryQueue interface {
	Push(ctx context.Context, job *queue.ExtensionJob) error
	Pop(ctx context.Context, timeout time.Duration) (*queue.ExtensionJob, error)
}

// Processor 消费延期重试任务
type Processor struct {
	applier     Applier
	retries     RetryQueue
	maxAttempts int
	pollTimeout time.Duration
}

// NewProcessor 创建任务处理器；maxAttempts <= 0 时只尝试一次
func NewProcessor(applier Applier, retries RetryQueue, maxAttempts int) *Processor {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Processor{
		applier:     applier,
		retries:     retries,
		maxAttempts: maxAttempts,
		pollTimeout: defaultPollTimeout,
	}
}

// Process 处理一条重试任务，失败且未超过次数上限时重新入队
func (p *Processor) Process(ctx context.Context, job *queue.ExtensionJob) error {
	log := logging.Ctx(ctx).With().
		Int64("payment_id", job.PaymentID).
		Int64("gym_owner_id", job.GymOwnerID).
		Int("attempt", job.Attempt).
		Logger()

	result, err := p.applier.ApplyPayment(ctx, job.GymOwnerID, job.PaymentID)
	if err == nil {
		if result.Applied {
			log.Info().Time("new_expiry", result.NewExpiry).Msg("membership extension retried")
		} else {
			log.Debug().Msg("membership extension already applied")
		}
		return nil
	}

	// 支付或会员已被删除，重试没有意义
	if errors.Is(err, service.ErrPaymentNotFound) || errors.Is(err, service.ErrMemberNotFound) {
		log.Warn().Err(err).Msg("dropping extension retry")
		return err
	}

	if job.Attempt >= p.maxAttempts {
		log.Error().Err(err).Int("max_attempts", p.maxAttempts).Msg("extension retry exhausted")
		return err
	}

	next := *job
	next.Attempt++
	next.LastError = err.Error()
	next.EnqueuedAt = time.Time{}
	if pushErr := p.retries.Push(ctx, &next); pushErr != nil {
		log.Error().Err(pushErr).Msg("failed to requeue extension retry")
		return err
	}
	metrics.RecordExtension(metrics.ExtensionQueued)
	log.Warn().Err(err).Msg("extension retry failed, requeued")
	return err
}

// Run 启动 workers 个消费循环，ctx 取消后等待全部退出
func (p *Processor) Run(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.loop(ctx, workerID)
		}(i)
	}
	wg.Wait()
}

func (p *Processor) loop(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			logging.Debug().Int("worker", workerID).Msg("worker shutting down")
			return
		default:
		}

		job, err := p.retries.Pop(ctx, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logging.Err(err).Int("worker", workerID).Msg("failed to pop extension job")
			continue
		}
		if job == nil {
			continue // 超时，继续等待
		}

		_ = p.Process(ctx, job)
	}
}
