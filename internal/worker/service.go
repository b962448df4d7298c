package worker

import (
	"context"
	"errors"
	"time"

	"github.com/washpoint-next/internal/config"
	"github.com/washpoint-next/internal/logger"
	"github.com/washpoint-next/internal/queue"

	"github.com/hibiken/asynq"
)

const lowStockCheckInterval = 30 * time.Minute

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.InventoryService != nil {
		go s.runLowStockCheckLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runLowStockCheckLoop 周期性检查耗材水位并告警
func (s *Service) runLowStockCheckLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.InventoryService == nil {
		return
	}
	runOnce := func() {
		items, err := s.consumer.InventoryService.ListLowStock()
		if err != nil {
			logger.Warnw("worker_low_stock_check_failed", "error", err)
			return
		}
		for _, item := range items {
			logger.Warnw("worker_low_stock_item",
				"item_id", item.ID,
				"name", item.Name,
				"quantity", item.Quantity,
				"low_mark", item.LowMark,
			)
		}
	}
	runOnce()

	ticker := time.NewTicker(lowStockCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
