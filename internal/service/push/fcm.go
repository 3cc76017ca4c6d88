package push

import (
	"context"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/kapu/campus-meal-alarm-go/internal/config"
	"github.com/kapu/campus-meal-alarm-go/internal/constants"
	"github.com/kapu/campus-meal-alarm-go/pkg/errors"
)

// FCMSender: Firebase Cloud Messaging 기반 Sender 구현.
// 게이트웨이 호출 속도를 rate.Limiter로 제한한다.
type FCMSender struct {
	client  *messaging.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewFCMSender: 서비스 계정 자격증명으로 FCM 클라이언트를 초기화한다.
func NewFCMSender(ctx context.Context, cfg config.FCMConfig, logger *slog.Logger) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: cfg.ProjectID},
		option.WithCredentialsFile(cfg.CredentialsFile),
	)
	if err != nil {
		return nil, errors.NewPushError("init", 0, err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.NewPushError("init", 0, err)
	}

	logger.Info("FCM client initialized", slog.String("project_id", cfg.ProjectID))

	return &FCMSender{
		client: client,
		limiter: rate.NewLimiter(
			rate.Limit(constants.PushRateLimit.CallsPerSecond),
			constants.PushRateLimit.Burst,
		),
		logger: logger,
	}, nil
}

// Send: 메시지 묶음을 FCM SendEach로 전송한다.
// 호출 자체가 실패하면 에러를 반환하고, 메시지 단위 실패는 Result로 돌려준다.
func (s *FCMSender) Send(ctx context.Context, messages []Message) ([]Result, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.NewPushError("rate_wait", len(messages), err)
	}

	fcmMessages := make([]*messaging.Message, 0, len(messages))
	for _, m := range messages {
		fcmMessages = append(fcmMessages, &messaging.Message{
			Token: m.Token,
			Notification: &messaging.Notification{
				Title: m.Title,
				Body:  m.Body,
			},
		})
	}

	resp, err := s.client.SendEach(ctx, fcmMessages)
	if err != nil {
		return nil, errors.NewPushError("send", len(messages), err)
	}

	results := make([]Result, 0, len(messages))
	for i, r := range resp.Responses {
		result := Result{Token: messages[i].Token}
		if !r.Success {
			result.Err = r.Error
			// 등록 해제 외에 잘못된 토큰 형식도 재시도 가치가 없는 이탈로 본다.
			result.Stale = messaging.IsUnregistered(r.Error) || messaging.IsInvalidArgument(r.Error)
		}
		results = append(results, result)
	}
	return results, nil
}
