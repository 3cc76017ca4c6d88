// Package push: 푸시 게이트웨이 호출을 감싸는 계층.
// 디스패처는 Sender 인터페이스만 알고, FCM 구현은 이 패키지 안에 숨긴다.
package push

import "context"

// Message: 기기 1대에 보낼 푸시 메시지
type Message struct {
	Token string
	Title string
	Body  string
}

// Result: 메시지 1건에 대한 게이트웨이 응답.
// Stale이 true면 등록 해제된 토큰이다 (앱 삭제, 토큰 회전 등 — 에러로 취급하지 않는다).
type Result struct {
	Token string
	Err   error
	Stale bool
}

// OK: 메시지가 정상 수락되었는지 여부
func (r Result) OK() bool {
	return r.Err == nil
}

// Sender: 메시지 묶음을 게이트웨이로 전송하고 메시지 단위 결과를 돌려준다.
// 호출 1회에 담을 수 있는 메시지 수의 상한은 호출자가 지켜야 한다.
type Sender interface {
	Send(ctx context.Context, messages []Message) ([]Result, error)
}
