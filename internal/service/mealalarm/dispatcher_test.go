package mealalarm

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"testing"

	"github.com/kapu/campus-meal-alarm-go/internal/domain"
	"github.com/kapu/campus-meal-alarm-go/internal/service/push"
)

func testPayload(userID int64, deviceCount int, items ...domain.MenuItem) *domain.MealNotification {
	if len(items) == 0 {
		items = []domain.MenuItem{{Name: "김치찌개", RestaurantName: "학생회관"}}
	}
	return &domain.MealNotification{
		UserID:   userID,
		Category: domain.AlarmLunch,
		Devices:  makeDevices(userID, deviceCount),
		Items:    items,
	}
}

func TestDispatcherSingleBatch(t *testing.T) {
	// 기기 3대, 메뉴 2개 → 게이트웨이 호출 1번, 메시지 3건, 본문 전부 동일
	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender, 499, slog.Default())

	payload := testPayload(1, 3,
		domain.MenuItem{Name: "제육볶음", RestaurantName: "학생회관"},
		domain.MenuItem{Name: "치킨마요덮밥", RestaurantName: "기숙사식당"},
	)
	stats := dispatcher.Write(context.Background(), []*domain.MealNotification{payload})

	if sender.callCount() != 1 {
		t.Fatalf("expected 1 gateway call, got %d", sender.callCount())
	}
	if len(sender.calls[0]) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(sender.calls[0]))
	}

	body := sender.calls[0][0].Body
	for _, m := range sender.calls[0] {
		if m.Body != body || m.Title != sender.calls[0][0].Title {
			t.Fatalf("all devices must share the rendered body")
		}
	}
	if stats.Sent != 3 || stats.Stale != 0 || stats.Failed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestDispatcherSplitsSubBatches(t *testing.T) {
	// 기기 1200대, 상한 499 → 정확히 (499, 499, 202) 세 번의 호출
	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender, 499, slog.Default())

	stats := dispatcher.Write(context.Background(), []*domain.MealNotification{testPayload(1, 1200)})

	sizes := sender.callSizes()
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	if len(sizes) != 3 || sizes[0] != 499 || sizes[1] != 499 || sizes[2] != 202 {
		t.Fatalf("expected call sizes [499 499 202], got %v", sizes)
	}
	if stats.Sent != 1200 {
		t.Fatalf("expected 1200 sent, got %d", stats.Sent)
	}
}

func TestDispatcherNeverExceedsCap(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := NewDispatcher(sender, 10, slog.Default())

	dispatcher.Write(context.Background(), []*domain.MealNotification{
		testPayload(1, 25),
		testPayload(2, 10),
		testPayload(3, 1),
	})

	total := 0
	for _, size := range sender.callSizes() {
		if size > 10 {
			t.Fatalf("sub-batch of %d exceeds cap 10", size)
		}
		total += size
	}
	if total != 36 {
		t.Fatalf("expected 36 messages in total, got %d", total)
	}
}

func TestDispatcherClassifiesStaleTokens(t *testing.T) {
	// 등록 해제 토큰 1건 + 성공 1건 → 실패 집계 없음, 성공은 그대로 집계
	sender := &fakeSender{
		respond: func(_ int, messages []push.Message) ([]push.Result, error) {
			results := make([]push.Result, 0, len(messages))
			for i, m := range messages {
				r := push.Result{Token: m.Token}
				if i == 0 {
					r.Err = errors.New("registration-token-not-registered")
					r.Stale = true
				}
				results = append(results, r)
			}
			return results, nil
		},
	}
	dispatcher := NewDispatcher(sender, 499, slog.Default())

	stats := dispatcher.Write(context.Background(), []*domain.MealNotification{testPayload(1, 2)})

	if stats.Stale != 1 {
		t.Fatalf("expected 1 stale token, got %d", stats.Stale)
	}
	if stats.Sent != 1 {
		t.Fatalf("expected the success still counted, got %d", stats.Sent)
	}
	if stats.Failed != 0 {
		t.Fatalf("stale tokens must not count as failures, got %d", stats.Failed)
	}
}

func TestDispatcherIsolatesCallFailure(t *testing.T) {
	// 첫 호출이 통째로 실패해도 나머지 서브배치와 페이로드는 전부 시도된다.
	sender := &fakeSender{
		respond: func(_ int, messages []push.Message) ([]push.Result, error) {
			// 사용자 1의 첫 서브배치(크기 5)만 통째로 실패시킨다.
			if messages[0].Token == tokenFor(1, 0) {
				return nil, errors.New("unavailable")
			}
			results := make([]push.Result, 0, len(messages))
			for _, m := range messages {
				results = append(results, push.Result{Token: m.Token})
			}
			return results, nil
		},
	}
	dispatcher := NewDispatcher(sender, 5, slog.Default())

	stats := dispatcher.Write(context.Background(), []*domain.MealNotification{
		testPayload(1, 12), // 서브배치 3개
		testPayload(2, 4),  // 서브배치 1개
	})

	if sender.callCount() != 4 {
		t.Fatalf("expected all 4 sub-batches attempted, got %d", sender.callCount())
	}
	if stats.Failed != 5 {
		t.Fatalf("expected the failed call counted as 5 failed messages, got %d", stats.Failed)
	}
	if stats.Sent != 11 {
		t.Fatalf("expected 11 sent, got %d", stats.Sent)
	}
}

func TestDispatcherMixedResultsDoNotStopSiblings(t *testing.T) {
	// 한 서브배치 안의 실패가 같은 배치의 다른 메시지 검사를 막지 않는다.
	sender := &fakeSender{
		respond: func(_ int, messages []push.Message) ([]push.Result, error) {
			results := make([]push.Result, 0, len(messages))
			for i, m := range messages {
				r := push.Result{Token: m.Token}
				switch i % 3 {
				case 0:
					r.Err = errors.New("internal")
				case 1:
					r.Err = errors.New("unregistered")
					r.Stale = true
				}
				results = append(results, r)
			}
			return results, nil
		},
	}
	dispatcher := NewDispatcher(sender, 499, slog.Default())

	stats := dispatcher.Write(context.Background(), []*domain.MealNotification{testPayload(1, 9)})

	if stats.Failed != 3 || stats.Stale != 3 || stats.Sent != 3 {
		t.Fatalf("expected 3/3/3 split, got %+v", stats)
	}
}

func TestSplitDevices(t *testing.T) {
	cases := []struct {
		name    string
		devices int
		size    int
		want    []int
	}{
		{"empty", 0, 499, nil},
		{"below cap", 3, 499, []int{3}},
		{"exact cap", 499, 499, []int{499}},
		{"one over", 500, 499, []int{499, 1}},
		{"large", 1200, 499, []int{499, 499, 202}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			batches := splitDevices(makeDevices(1, tc.devices), tc.size)
			if len(batches) != len(tc.want) {
				t.Fatalf("expected %d batches, got %d", len(tc.want), len(batches))
			}
			for i, batch := range batches {
				if len(batch) != tc.want[i] {
					t.Fatalf("batch %d: expected %d devices, got %d", i, tc.want[i], len(batch))
				}
			}
		})
	}
}
