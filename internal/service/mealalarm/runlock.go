package mealalarm

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/campus-meal-alarm-go/internal/constants"
	"github.com/kapu/campus-meal-alarm-go/internal/domain"
)

// Locker: 분산 락 연산. cache.Service가 구현한다.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// RunLock: 같은 카테고리의 실행이 겹치는 것을 막는 락.
// 비활성화 상태에서는 스케줄 간격이 겹침을 막는다고 가정하고 항상 통과시킨다.
type RunLock struct {
	locker  Locker
	enabled bool
}

// NewRunLock: 락을 생성한다. locker가 nil이면 비활성화된 것으로 본다.
func NewRunLock(locker Locker, enabled bool) *RunLock {
	if locker == nil {
		enabled = false
	}
	return &RunLock{
		locker:  locker,
		enabled: enabled,
	}
}

// TryAcquire: 카테고리+날짜 키로 락을 시도한다.
// 이미 잡혀 있으면 (nil, false, nil)을 반환하고 호출자는 실행을 건너뛴다.
func (l *RunLock) TryAcquire(ctx context.Context, category domain.AlarmCategory, date time.Time) (release func(), acquired bool, err error) {
	if !l.enabled {
		return func() {}, true, nil
	}

	key := runLockKey(category, date)
	ok, err := l.locker.AcquireLock(ctx, key, constants.RunLockConfig.TTL)
	if err != nil {
		return nil, false, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	return func() {
		_ = l.locker.ReleaseLock(context.WithoutCancel(ctx), key)
	}, true, nil
}

func runLockKey(category domain.AlarmCategory, date time.Time) string {
	return fmt.Sprintf("mealalarm:run:%s:%s", category, date.Format("2006-01-02"))
}
