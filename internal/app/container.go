// Package app: 서비스 조립과 런타임 수명주기를 담당한다.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kapu/campus-meal-alarm-go/internal/config"
	"github.com/kapu/campus-meal-alarm-go/internal/server"
	"github.com/kapu/campus-meal-alarm-go/internal/service/cache"
	"github.com/kapu/campus-meal-alarm-go/internal/service/database"
	"github.com/kapu/campus-meal-alarm-go/internal/service/mealalarm"
	"github.com/kapu/campus-meal-alarm-go/internal/service/push"
	"github.com/kapu/campus-meal-alarm-go/internal/service/store"
)

// Container: 조립된 서비스 전체를 들고 있는 컨테이너
type Container struct {
	Config    *config.Config
	Logger    *slog.Logger
	Alarm     *mealalarm.Service
	Scheduler *mealalarm.Scheduler
	Server    *server.Server

	postgres *database.PostgresService
	cache    *cache.Service
}

// Build: 설정에 따라 모든 서비스를 조립한다.
// 연결 수립 실패는 기동 실패로 취급한다.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	postgres, err := database.NewPostgresService(cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("build postgres: %w", err)
	}

	cacheSvc, err := cache.NewCacheService(cfg.Valkey, logger)
	if err != nil {
		postgres.Close()
		return nil, fmt.Errorf("build cache: %w", err)
	}

	sender, err := push.NewFCMSender(ctx, cfg.FCM, logger)
	if err != nil {
		cacheSvc.Close()
		postgres.Close()
		return nil, fmt.Errorf("build fcm sender: %w", err)
	}

	userRepo := store.NewUserRepository(postgres, logger)
	deviceRepo := store.NewDeviceRepository(postgres, logger)
	subRepo := store.NewSubscriptionRepository(postgres, logger)
	menuRepo := store.NewMenuRepository(postgres, logger)

	alarm := mealalarm.NewService(
		userRepo,
		deviceRepo,
		subRepo,
		menuRepo,
		sender,
		mealalarm.NewRunLock(cacheSvc, cfg.Alarm.RunLock),
		cfg.Alarm.ChunkSize,
		cfg.Alarm.BatchSize,
		logger,
	)

	scheduler, err := mealalarm.NewScheduler(cfg.Alarm, alarm, logger)
	if err != nil {
		cacheSvc.Close()
		postgres.Close()
		return nil, fmt.Errorf("build scheduler: %w", err)
	}

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Alarm:     alarm,
		Scheduler: scheduler,
		Server:    server.New(cfg.Server, alarm, logger),
		postgres:  postgres,
		cache:     cacheSvc,
	}, nil
}

// Close: 외부 연결을 정리한다.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.cache != nil {
		c.cache.Close()
	}
	if c.postgres != nil {
		if err := c.postgres.Close(); err != nil {
			c.Logger.Warn("Postgres close failed", slog.Any("error", err))
		}
	}
}
