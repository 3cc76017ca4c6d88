package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kapu/campus-meal-alarm-go/internal/constants"
)

// Run: 스케줄러와 관리자 서버를 기동하고 종료 시그널까지 대기한다.
func (c *Container) Run() {
	c.Scheduler.Start()
	c.Server.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	c.Logger.Info("Shutdown signal received")

	shCtx, cancel := context.WithTimeout(context.Background(), constants.ServerTimeout.Shutdown)
	defer cancel()
	if err := c.Server.Shutdown(shCtx); err != nil {
		c.Logger.Warn("Admin server shutdown error", slog.Any("error", err))
	}

	// 진행 중인 실행은 끝까지 마친다. 이미 발송된 알림은 되돌릴 수 없다.
	c.Scheduler.Stop()
}
