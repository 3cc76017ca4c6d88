package mealalarm

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/kapu/campus-meal-alarm-go/internal/config"
	"github.com/kapu/campus-meal-alarm-go/internal/constants"
	"github.com/kapu/campus-meal-alarm-go/internal/domain"
	"github.com/kapu/campus-meal-alarm-go/internal/util"
)

// Runner: 카테고리 1개의 실행을 수행한다. Service가 구현한다.
type Runner interface {
	RunCategory(ctx context.Context, category domain.AlarmCategory) error
}

// Scheduler: 카테고리별 cron 스펙(KST)에 따라 실행을 트리거한다.
// 실행 결과는 로그로만 남는다. 실패한 실행은 다음 트리거가 다시 시도한다.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	logger *slog.Logger
}

// NewScheduler: 설정의 cron 스펙으로 카테고리별 엔트리를 등록한 스케줄러를 생성한다.
// 스펙이 빈 카테고리는 스케줄링하지 않는다.
func NewScheduler(cfg config.AlarmConfig, runner Runner, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(util.KST()))

	entries := []struct {
		spec     string
		category domain.AlarmCategory
	}{
		{cfg.DailySpec, domain.AlarmDaily},
		{cfg.BreakfastSpec, domain.AlarmBreakfast},
		{cfg.LunchSpec, domain.AlarmLunch},
		{cfg.DinnerSpec, domain.AlarmDinner},
	}

	s := &Scheduler{
		cron:   c,
		runner: runner,
		logger: logger,
	}

	for _, entry := range entries {
		if entry.spec == "" {
			continue
		}
		category := entry.category
		if _, err := c.AddFunc(entry.spec, func() { s.trigger(category) }); err != nil {
			return nil, err
		}
		logger.Info("Alarm schedule registered",
			slog.String("category", string(category)),
			slog.String("spec", entry.spec),
		)
	}

	return s, nil
}

// trigger: 실행 1회. 각 트리거는 독립적이며 실행별 타임아웃을 가진다.
func (s *Scheduler) trigger(category domain.AlarmCategory) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout.JobRun)
	defer cancel()

	if err := s.runner.RunCategory(ctx, category); err != nil {
		s.logger.Error("Scheduled alarm run failed",
			slog.String("category", string(category)),
			slog.Any("error", err),
		)
	}
}

// Start: 스케줄러를 시작한다.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Meal alarm scheduler started")
}

// Stop: 새 트리거를 멈추고, 진행 중인 실행이 끝날 때까지 기다린다.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Meal alarm scheduler stopped")
}
