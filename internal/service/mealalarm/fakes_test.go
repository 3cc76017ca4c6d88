package mealalarm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kapu/campus-meal-alarm-go/internal/domain"
	"github.com/kapu/campus-meal-alarm-go/internal/service/push"
)

// fakeUserSource: 메모리 상의 사용자 목록을 keyset 페이지네이션으로 흉내낸다.
type fakeUserSource struct {
	users []domain.User
	calls int
	err   error
}

func (f *fakeUserSource) ListByAlarmCategory(_ context.Context, category domain.AlarmCategory, afterID int64, limit int) ([]domain.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	var page []domain.User
	for _, u := range f.users {
		if u.AlarmCategory != category || u.ID <= afterID {
			continue
		}
		page = append(page, u)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

type fakeDeviceSource struct {
	devices map[int64][]domain.Device
	calls   int
	err     error
}

func (f *fakeDeviceSource) FindByUserIDs(_ context.Context, userIDs []int64) (map[int64][]domain.Device, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	result := make(map[int64][]domain.Device)
	for _, id := range userIDs {
		if devices, ok := f.devices[id]; ok {
			result[id] = devices
		}
	}
	return result, nil
}

type fakeSubSource struct {
	subs  map[int64][]domain.MenuSubscription
	calls int
	err   error
}

func (f *fakeSubSource) FindByUserIDs(_ context.Context, userIDs []int64) (map[int64][]domain.MenuSubscription, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	result := make(map[int64][]domain.MenuSubscription)
	for _, id := range userIDs {
		if subs, ok := f.subs[id]; ok {
			result[id] = subs
		}
	}
	return result, nil
}

type fakeMenuSource struct {
	occurrences []domain.MenuOccurrence
	calls       int
	err         error
	lastMeal    *domain.MealType
}

func (f *fakeMenuSource) FindByDate(_ context.Context, _ time.Time, mealType *domain.MealType) ([]domain.MenuOccurrence, error) {
	f.calls++
	f.lastMeal = mealType
	if f.err != nil {
		return nil, f.err
	}

	if mealType == nil {
		return f.occurrences, nil
	}
	var filtered []domain.MenuOccurrence
	for _, occ := range f.occurrences {
		if occ.MealType == *mealType {
			filtered = append(filtered, occ)
		}
	}
	return filtered, nil
}

// fakeSender: 게이트웨이 호출을 기록한다. 서브배치가 병렬 전송되므로 뮤텍스로 보호한다.
// respond가 nil이면 모든 메시지를 성공으로 처리한다.
type fakeSender struct {
	mu      sync.Mutex
	calls   [][]push.Message
	respond func(call int, messages []push.Message) ([]push.Result, error)
}

func (f *fakeSender) Send(_ context.Context, messages []push.Message) ([]push.Result, error) {
	f.mu.Lock()
	call := len(f.calls)
	f.calls = append(f.calls, messages)
	respond := f.respond
	f.mu.Unlock()

	if respond != nil {
		return respond(call, messages)
	}

	results := make([]push.Result, 0, len(messages))
	for _, m := range messages {
		results = append(results, push.Result{Token: m.Token})
	}
	return results, nil
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSender) callSizes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	sizes := make([]int, 0, len(f.calls))
	for _, call := range f.calls {
		sizes = append(sizes, len(call))
	}
	return sizes
}

// fakeLocker: 메모리 기반 Locker 구현
type fakeLocker struct {
	held map[string]bool
	err  error
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (f *fakeLocker) AcquireLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeLocker) ReleaseLock(_ context.Context, key string) error {
	delete(f.held, key)
	return nil
}

// makeUsers: 1..n 범위 id의 사용자 n명을 생성한다.
func makeUsers(n int, category domain.AlarmCategory) []domain.User {
	users := make([]domain.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, domain.User{ID: int64(i), AlarmCategory: category})
	}
	return users
}

// makeDevices: 사용자 1명의 기기 n대를 생성한다.
func makeDevices(userID int64, n int) []domain.Device {
	devices := make([]domain.Device, 0, n)
	for i := 0; i < n; i++ {
		devices = append(devices, domain.Device{
			ID:        userID*10000 + int64(i),
			UserID:    userID,
			PushToken: tokenFor(userID, i),
		})
	}
	return devices
}

func tokenFor(userID int64, i int) string {
	return fmt.Sprintf("token-%d-%d", userID, i)
}
