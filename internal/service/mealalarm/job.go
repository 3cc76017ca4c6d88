package mealalarm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kapu/campus-meal-alarm-go/internal/domain"
	"github.com/kapu/campus-meal-alarm-go/internal/service/push"
	"github.com/kapu/campus-meal-alarm-go/internal/util"
)

// Service: 알림 배치 실행의 진입점. 스케줄러와 관리자 API가 RunCategory를 호출한다.
// 실행마다 인덱스/캐시/리더를 새로 만들므로 서로 다른 카테고리의 실행이 겹쳐도 공유 상태가 없다.
type Service struct {
	users   UserSource
	devices DeviceSource
	subs    SubscriptionSource
	menus   MenuSource
	sender  push.Sender
	lock    *RunLock

	chunkSize int
	batchSize int
	logger    *slog.Logger
}

// NewService: 파이프라인 서비스를 생성한다.
func NewService(
	users UserSource,
	devices DeviceSource,
	subs SubscriptionSource,
	menus MenuSource,
	sender push.Sender,
	lock *RunLock,
	chunkSize int,
	batchSize int,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:     users,
		devices:   devices,
		subs:      subs,
		menus:     menus,
		sender:    sender,
		lock:      lock,
		chunkSize: chunkSize,
		batchSize: batchSize,
		logger:    logger,
	}
}

// RunReport: 실행 1회의 집계
type RunReport struct {
	Category        domain.AlarmCategory
	Date            time.Time
	UsersSeen       int
	SkippedNoDevice int
	SkippedNoMenu   int
	Payloads        int
	Dispatch        domain.DispatchStats
}

// RunCategory: 카테고리 하나의 실행을 처음부터 끝까지 수행한다.
// 사용자 스트림/프리페치/메뉴 인덱스 읽기 실패는 실행을 중단시키고,
// 다음 스케줄 트리거가 처음부터 다시 시도한다. 발송 단위 실패는 격리된다.
func (s *Service) RunCategory(ctx context.Context, category domain.AlarmCategory) error {
	date := util.TodayKST()

	release, acquired, err := s.lock.TryAcquire(ctx, category, date)
	if err != nil {
		return fmt.Errorf("run %s: %w", category, err)
	}
	if !acquired {
		s.logger.Warn("Run skipped, previous run still holds the lock",
			slog.String("category", string(category)),
			slog.String("date", util.FormatDateKST(date)),
		)
		return nil
	}
	defer release()

	started := time.Now()
	report, err := s.runPipeline(ctx, category, date)
	if err != nil {
		s.logger.Error("Meal alarm run aborted",
			slog.String("category", string(category)),
			slog.Any("error", err),
		)
		return fmt.Errorf("run %s: %w", category, err)
	}

	s.logger.Info("Meal alarm run completed",
		slog.String("category", string(category)),
		slog.String("date", util.FormatDateKST(date)),
		slog.Int("users", report.UsersSeen),
		slog.Int("skipped_no_device", report.SkippedNoDevice),
		slog.Int("skipped_no_menu", report.SkippedNoMenu),
		slog.Int("payloads", report.Payloads),
		slog.Int("sent", report.Dispatch.Sent),
		slog.Int("stale_tokens", report.Dispatch.Stale),
		slog.Int("failed", report.Dispatch.Failed),
		slog.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// runPipeline: 청크 순차 처리 루프.
// 읽기 → 프리페치 → 사용자별 가공 → 발송 → 캐시 해제 순서가 한 청크 안에서 보장된다.
func (s *Service) runPipeline(ctx context.Context, category domain.AlarmCategory, date time.Time) (*RunReport, error) {
	index := NewMenuIndex(s.menus, date, category.MealFilter())
	reader := NewReader(s.users, category, s.chunkSize)
	cache := NewChunkCache(s.devices, s.subs)
	processor := NewProcessor(cache, index)
	dispatcher := NewDispatcher(s.sender, s.batchSize, s.logger)

	report := &RunReport{Category: category, Date: date}

	for {
		users, err := reader.Next(ctx)
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			break
		}

		// 인덱스는 실행당 한 번만 로드된다. 첫 청크 이전에 당겨둔다.
		if err := index.Load(ctx); err != nil {
			return nil, err
		}

		userIDs := make([]int64, 0, len(users))
		for _, u := range users {
			userIDs = append(userIDs, u.ID)
		}

		if err := cache.BeforeChunk(ctx, userIDs); err != nil {
			return nil, err
		}

		payloads := make([]*domain.MealNotification, 0, len(users))
		for _, user := range users {
			payload, skip := processor.Process(user)
			report.UsersSeen++
			switch skip {
			case SkipNoDevice:
				report.SkippedNoDevice++
			case SkipNoMenu:
				report.SkippedNoMenu++
			default:
				payloads = append(payloads, payload)
			}
		}
		report.Payloads += len(payloads)

		// 이 청크의 발송이 전부 시도된 뒤에야 다음 청크를 읽는다.
		// 진행 중인 게이트웨이 호출 수를 청크 하나 분량으로 묶어두기 위함이다.
		report.Dispatch.Add(dispatcher.Write(ctx, payloads))

		cache.AfterChunk()
	}

	return report, nil
}
