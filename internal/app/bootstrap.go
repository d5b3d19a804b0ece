package app

import (
	"context"
	"errors"

	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/config"
	"github.com/tokri-next/internal/provider"
	"github.com/tokri-next/internal/router"
	"github.com/tokri-next/internal/worker"
)

// bridgeService 把跨进程通知桥包装成可托管服务
type bridgeService struct {
	bridge *cartstore.Bridge
}

func (s *bridgeService) Name() string {
	return "cart_bridge"
}

func (s *bridgeService) Start(ctx context.Context) error {
	if s == nil || s.bridge == nil {
		return errors.New("cart bridge not initialized")
	}
	if err := s.bridge.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *bridgeService) Stop(ctx context.Context) error {
	if s == nil || s.bridge == nil {
		return nil
	}
	s.bridge.Stop()
	return nil
}

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)

		// Redis 可用时启用跨进程信封变更转发
		if container.CartBridge != nil {
			services = append(services, &bridgeService{bridge: container.CartBridge})
		}
	}

	// 初始化 Worker 服务
	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
