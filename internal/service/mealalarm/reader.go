package mealalarm

import (
	"context"
	"fmt"

	"github.com/kapu/campus-meal-alarm-go/internal/domain"
)

// UserSource: 알림 카테고리별 사용자를 keyset 페이지네이션으로 읽어오는 저장소 인터페이스
type UserSource interface {
	ListByAlarmCategory(ctx context.Context, category domain.AlarmCategory, afterID int64, limit int) ([]domain.User, error)
}

// Reader: 사용자 스트림을 청크 단위로 순서대로 읽는다.
// id 오름차순 고정 정렬이므로, 페이지 사이에 스토어가 변해도
// 이미 반환한 id가 다시 나오지 않는 한 모든 사용자를 정확히 한 번씩 방문한다.
// 중간 재시작은 지원하지 않는다 (처음부터 다시 읽는다).
type Reader struct {
	source    UserSource
	category  domain.AlarmCategory
	chunkSize int

	afterID int64
	done    bool
}

// NewReader: 카테고리와 청크 크기를 고정한 Reader를 생성한다.
func NewReader(source UserSource, category domain.AlarmCategory, chunkSize int) *Reader {
	return &Reader{
		source:    source,
		category:  category,
		chunkSize: chunkSize,
	}
}

// Next: 다음 청크를 반환한다. 스트림이 끝나면 (nil, nil)을 반환한다.
func (r *Reader) Next(ctx context.Context) ([]domain.User, error) {
	if r.done {
		return nil, nil
	}

	users, err := r.source.ListByAlarmCategory(ctx, r.category, r.afterID, r.chunkSize)
	if err != nil {
		return nil, fmt.Errorf("read user chunk after id %d: %w", r.afterID, err)
	}

	if len(users) == 0 {
		r.done = true
		return nil, nil
	}

	r.afterID = users[len(users)-1].ID
	if len(users) < r.chunkSize {
		r.done = true
	}
	return users, nil
}
