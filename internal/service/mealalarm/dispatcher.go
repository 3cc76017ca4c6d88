package mealalarm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/kapu/campus-meal-alarm-go/internal/constants"
	"github.com/kapu/campus-meal-alarm-go/internal/domain"
	"github.com/kapu/campus-meal-alarm-go/internal/service/push"
)

// Dispatcher: 청크의 페이로드 묶음을 받아 게이트웨이로 발송한다.
// 페이로드의 기기 목록을 상한(batchSize) 이하의 서브배치로 쪼개 호출하며,
// 메시지/서브배치 단위 실패는 격리되어 나머지 발송을 막지 않는다.
// 청크 간에 공유하는 상태는 없다.
type Dispatcher struct {
	sender    push.Sender
	batchSize int
	workers   int
	logger    *slog.Logger
}

// NewDispatcher: batchSize(게이트웨이 호출당 메시지 상한)를 고정한 디스패처를 생성한다.
func NewDispatcher(sender push.Sender, batchSize int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:    sender,
		batchSize: batchSize,
		workers:   constants.PipelineConfig.DispatchWorkers,
		logger:    logger,
	}
}

// Write: 청크 하나의 페이로드들을 발송하고 집계를 반환한다.
// 어떤 실패도 에러로 전파하지 않는다. 놓친 알림은 다음 스케줄 실행이 다시 평가한다.
func (d *Dispatcher) Write(ctx context.Context, payloads []*domain.MealNotification) domain.DispatchStats {
	var (
		stats   domain.DispatchStats
		statsMu sync.Mutex
	)

	for _, payload := range payloads {
		title, body := renderNotification(payload)

		// 서브배치 전송은 서로 독립이므로 병렬로 보낸다. 집계만 뮤텍스로 보호한다.
		p := pool.New().WithMaxGoroutines(d.workers)
		for _, batch := range splitDevices(payload.Devices, d.batchSize) {
			batch := batch
			p.Go(func() {
				batchStats := d.sendBatch(ctx, payload.UserID, batch, title, body)
				statsMu.Lock()
				stats.Add(batchStats)
				statsMu.Unlock()
			})
		}
		p.Wait()
	}

	return stats
}

// sendBatch: 서브배치 1개를 게이트웨이로 전송하고 메시지 단위 결과를 분류한다.
func (d *Dispatcher) sendBatch(ctx context.Context, userID int64, devices []domain.Device, title, body string) domain.DispatchStats {
	messages := make([]push.Message, 0, len(devices))
	for _, device := range devices {
		messages = append(messages, push.Message{
			Token: device.PushToken,
			Title: title,
			Body:  body,
		})
	}

	results, err := d.sender.Send(ctx, messages)
	if err != nil {
		// 호출 자체의 실패. 이 서브배치만 버리고 나머지는 계속 진행한다.
		d.logger.Error("Push gateway call failed",
			slog.Int64("user_id", userID),
			slog.Int("messages", len(messages)),
			slog.Any("error", err),
		)
		return domain.DispatchStats{Failed: len(messages)}
	}

	var stats domain.DispatchStats
	for _, result := range results {
		switch {
		case result.OK():
			stats.Sent++
		case result.Stale:
			// 등록 해제된 토큰은 자연스러운 이탈이므로 에러 로그를 남기지 않는다.
			stats.Stale++
			d.logger.Debug("Stale push token",
				slog.Int64("user_id", userID),
				slog.String("token", truncateToken(result.Token)),
			)
		default:
			stats.Failed++
			d.logger.Error("Push message failed",
				slog.Int64("user_id", userID),
				slog.String("token", truncateToken(result.Token)),
				slog.Any("error", result.Err),
			)
		}
	}
	return stats
}

// splitDevices: 기기 목록을 size 이하의 서브배치로 나눈다.
func splitDevices(devices []domain.Device, size int) [][]domain.Device {
	if size <= 0 || len(devices) == 0 {
		return nil
	}

	batches := make([][]domain.Device, 0, (len(devices)+size-1)/size)
	for start := 0; start < len(devices); start += size {
		end := start + size
		if end > len(devices) {
			end = len(devices)
		}
		batches = append(batches, devices[start:end])
	}
	return batches
}

// renderNotification: 페이로드 하나에 대한 제목/본문을 렌더링한다.
// 같은 사용자의 모든 기기가 동일한 본문을 공유한다.
func renderNotification(payload *domain.MealNotification) (string, string) {
	title := categoryTitle(payload.Category)

	limit := constants.PipelineConfig.NotificationLine
	lines := make([]string, 0, len(payload.Items))
	for i, item := range payload.Items {
		if i == limit {
			lines = append(lines, fmt.Sprintf("외 %d개 메뉴", len(payload.Items)-limit))
			break
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", item.RestaurantName, item.Name))
	}
	return title, strings.Join(lines, "\n")
}

func categoryTitle(category domain.AlarmCategory) string {
	switch category {
	case domain.AlarmBreakfast:
		return "오늘의 조식 메뉴"
	case domain.AlarmLunch:
		return "오늘의 중식 메뉴"
	case domain.AlarmDinner:
		return "오늘의 석식 메뉴"
	default:
		return "오늘의 학식 메뉴"
	}
}

// truncateToken: 로그에 토큰 전체를 남기지 않는다.
func truncateToken(token string) string {
	if len(token) <= 12 {
		return token
	}
	return token[:12] + "..."
}
