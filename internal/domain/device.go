package domain

import "time"

// Device: 사용자가 등록한 푸시 수신 기기. FCM 토큰을 보유한다.
// 사용자당 0개 이상 존재할 수 있으며 파이프라인은 읽기만 한다.
type Device struct {
	ID        int64
	UserID    int64
	PushToken string
	CreatedAt time.Time
}
