package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/logger"
	"github.com/vestra-shop/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 订单事件消费服务
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 创建事件消费服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	serverCfg.Logger = logger.S()
	serverCfg.ErrorHandler = asynq.ErrorHandlerFunc(reportTaskFailure)

	mux := asynq.NewServeMux()
	mux.Use(logTask)
	consumer.Register(mux)
	return &Service{server: asynq.NewServer(opt, serverCfg), mux: mux}, nil
}

func reportTaskFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	log := logger.FromContext(ctx)
	if retried >= maxRetry {
		log.Errorw("worker_task_exhausted", "task_type", task.Type(), "retried", retried, "error", err)
		return
	}
	log.Warnw("worker_task_failed", "task_type", task.Type(), "retried", retried, "max_retry", maxRetry, "error", err)
}

// logTask 为任务 context 注入日志字段并记录耗时
func logTask(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
		taskID, _ := asynq.GetTaskID(ctx)
		ctx = logger.WithTask(ctx, taskID, task.Type())
		started := time.Now()
		err := next.ProcessTask(ctx, task)
		logger.FromContext(ctx).Debugw("worker_task_done", "elapsed_ms", time.Since(started).Milliseconds(), "ok", err == nil)
		return err
	})
}

// Name 服务名称
func (s *Service) Name() string { return "worker" }

// Start 启动消费并阻塞到 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务完成后停止
func (s *Service) Stop(_ context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}
