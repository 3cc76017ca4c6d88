package constants

import "time"

// PipelineConfig 는 패키지 변수다.
var PipelineConfig = struct {
	UserChunkSize    int // 한 번에 읽어오는 사용자 수 (벌크 프리페치 단위)
	PushBatchSize    int // FCM 호출 1회당 최대 메시지 수 (게이트웨이 상한 500 미만)
	DispatchWorkers  int // 서브배치 전송 동시 실행 수
	NotificationLine int // 알림 본문에 들어가는 메뉴 항목 최대 수
}{
	UserChunkSize:    500,
	PushBatchSize:    499,
	DispatchWorkers:  4,
	NotificationLine: 10,
}

// DatabaseConfig 는 패키지 변수다.
var DatabaseConfig = struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}{
	MaxOpenConns:    20,
	MaxIdleConns:    5,
	ConnMaxLifetime: 30 * time.Minute,
}

// RequestTimeout 는 패키지 변수다.
var RequestTimeout = struct {
	DatabasePing  time.Duration
	DatabaseQuery time.Duration
	PushSend      time.Duration
	JobRun        time.Duration
}{
	DatabasePing:  5 * time.Second,
	DatabaseQuery: 10 * time.Second,
	PushSend:      30 * time.Second,
	JobRun:        30 * time.Minute,
}

// ValkeyConfig 는 패키지 변수다.
var ValkeyConfig = struct {
	ReadyTimeout      time.Duration
	BlockingPoolSize  int
	PipelineMultiplex int
	DialTimeout       time.Duration
	ConnWriteTimeout  time.Duration
}{
	ReadyTimeout:      5 * time.Second,
	BlockingPoolSize:  16,
	PipelineMultiplex: 2,
	DialTimeout:       3 * time.Second,
	ConnWriteTimeout:  5 * time.Second,
}

// RunLockConfig 는 패키지 변수다.
var RunLockConfig = struct {
	TTL time.Duration // 같은 카테고리의 중복 실행을 막는 락 유지 시간
}{
	TTL: 30 * time.Minute,
}

// PushRateLimit 는 패키지 변수다.
var PushRateLimit = struct {
	CallsPerSecond float64 // 게이트웨이 호출 속도 제한
	Burst          int
}{
	CallsPerSecond: 10,
	Burst:          5,
}

// ServerTimeout 는 패키지 변수다.
var ServerTimeout = struct {
	Read     time.Duration
	Write    time.Duration
	Shutdown time.Duration
}{
	Read:     10 * time.Second,
	Write:    30 * time.Second,
	Shutdown: 10 * time.Second,
}
