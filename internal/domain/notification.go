package domain

// MenuItem: 알림 본문에 들어가는 메뉴 한 줄 (표시명 + 식당명)
type MenuItem struct {
	Name           string
	RestaurantName string
}

// MealNotification: 한 사용자에게 보낼 알림 페이로드.
// 파이프라인 내부에서만 존재하며 영속화되지 않는다.
// devices와 items가 모두 비어있지 않을 때만 생성된다.
type MealNotification struct {
	UserID   int64
	Category AlarmCategory
	Devices  []Device
	Items    []MenuItem
}

// DispatchStats: 한 실행(run)의 발송 집계
type DispatchStats struct {
	Sent   int // 게이트웨이가 수락한 메시지 수
	Stale  int // 등록 해제된 토큰 (정상적인 이탈, 에러 아님)
	Failed int // 그 외 메시지 단위 실패
}

// Add: 다른 집계를 더한다.
func (s *DispatchStats) Add(other DispatchStats) {
	s.Sent += other.Sent
	s.Stale += other.Stale
	s.Failed += other.Failed
}
