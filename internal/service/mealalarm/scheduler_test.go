package mealalarm

import (
	"context"
	"log/slog"
	"testing"

	"github.com/kapu/campus-meal-alarm-go/internal/config"
	"github.com/kapu/campus-meal-alarm-go/internal/domain"
)

type fakeRunner struct {
	categories []domain.AlarmCategory
}

func (f *fakeRunner) RunCategory(_ context.Context, category domain.AlarmCategory) error {
	f.categories = append(f.categories, category)
	return nil
}

func TestNewSchedulerRegistersConfiguredSpecs(t *testing.T) {
	cfg := config.AlarmConfig{
		DailySpec:  "0 7 * * *",
		LunchSpec:  "30 11 * * *",
		DinnerSpec: "", // 석식 스케줄 없음
	}

	s, err := NewScheduler(cfg, &fakeRunner{}, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(s.cron.Entries()); got != 2 {
		t.Fatalf("expected 2 cron entries, got %d", got)
	}
}

func TestNewSchedulerRejectsInvalidSpec(t *testing.T) {
	cfg := config.AlarmConfig{DailySpec: "not a cron spec"}

	if _, err := NewScheduler(cfg, &fakeRunner{}, slog.Default()); err == nil {
		t.Fatalf("expected invalid cron spec to be rejected")
	}
}

func TestSchedulerTriggerInvokesRunner(t *testing.T) {
	runner := &fakeRunner{}
	s, err := NewScheduler(config.AlarmConfig{}, runner, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.trigger(domain.AlarmBreakfast)

	if len(runner.categories) != 1 || runner.categories[0] != domain.AlarmBreakfast {
		t.Fatalf("expected a breakfast run, got %v", runner.categories)
	}
}
