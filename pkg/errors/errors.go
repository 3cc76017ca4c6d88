// Package errors: 학식 알림 서비스 전체에서 사용되는 에러 타입들을 정의한다.
// 표준 Go 에러 스타일(Unwrap 체인)을 따른다.
package errors

import "fmt"

// ServiceError: 내부 서비스 로직 에러
type ServiceError struct {
	Service   string // 서비스 이름
	Operation string // 작업 이름
	Err       error  // 원인 에러
}

func (e ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("service error service=%s operation=%s", e.Service, e.Operation)
	}
	return fmt.Sprintf("service error service=%s operation=%s: %v", e.Service, e.Operation, e.Err)
}

func (e ServiceError) Unwrap() error { return e.Err }

// NewServiceError: 서비스 에러를 생성한다.
func NewServiceError(service, operation string, cause error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Err:       cause,
	}
}

// CacheError: 캐시(Valkey) 작업 중 발생한 에러
type CacheError struct {
	Operation string // get, set, lock 등
	Key       string // 캐시 키
	Err       error  // 원인 에러
}

func (e CacheError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cache error operation=%s key=%s", e.Operation, e.Key)
	}
	return fmt.Sprintf("cache error operation=%s key=%s: %v", e.Operation, e.Key, e.Err)
}

func (e CacheError) Unwrap() error { return e.Err }

// NewCacheError: 캐시 에러를 생성한다.
func NewCacheError(operation, key string, cause error) *CacheError {
	return &CacheError{
		Operation: operation,
		Key:       key,
		Err:       cause,
	}
}

// PushError: 푸시 게이트웨이 호출 자체가 실패했을 때의 에러 (메시지 단위 실패와 구분)
type PushError struct {
	Operation string // send 등
	Messages  int    // 호출에 포함된 메시지 수
	Err       error  // 원인 에러
}

func (e PushError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("push error operation=%s messages=%d", e.Operation, e.Messages)
	}
	return fmt.Sprintf("push error operation=%s messages=%d: %v", e.Operation, e.Messages, e.Err)
}

func (e PushError) Unwrap() error { return e.Err }

// NewPushError: 푸시 에러를 생성한다.
func NewPushError(operation string, messages int, cause error) *PushError {
	return &PushError{
		Operation: operation,
		Messages:  messages,
		Err:       cause,
	}
}

// ValidationError: 입력 검증 실패 에러
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error field=%s: %s", e.Field, e.Message)
}

// NewValidationError: 검증 에러를 생성한다.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
