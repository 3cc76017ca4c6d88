// Package mealalarm: 학식 알림 배치 파이프라인.
// 실행(run) 1회는 카테고리 하나를 대상으로 사용자 스트림을 청크 단위로 읽고,
// 청크별 벌크 프리페치 → 사용자별 가공 → 묶음 발송 순서로 진행된다.
package mealalarm

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/campus-meal-alarm-go/internal/domain"
)

// MenuSource: 특정 날짜의 제공 메뉴를 읽어오는 저장소 인터페이스
type MenuSource interface {
	FindByDate(ctx context.Context, date time.Time, mealType *domain.MealType) ([]domain.MenuOccurrence, error)
}

// MenuIndex: 오늘 제공되는 메뉴의 (식당, 메뉴코드) 인덱스.
// 실행 1회 범위에서 첫 접근 시 한 번만 로드되고 이후 불변이다.
// 실행 중간에 추가된 메뉴는 관측되지 않는다 (스냅샷 의미론).
type MenuIndex struct {
	source MenuSource
	date   time.Time
	meal   *domain.MealType

	loaded bool
	byKey  map[domain.MenuKey]domain.MenuOccurrence
}

// NewMenuIndex: 실행 범위의 메뉴 인덱스를 생성한다. 생성 시점에는 로드하지 않는다.
func NewMenuIndex(source MenuSource, date time.Time, meal *domain.MealType) *MenuIndex {
	return &MenuIndex{
		source: source,
		date:   date,
		meal:   meal,
	}
}

// Load: 인덱스를 로드한다. 이미 로드되어 있으면 아무 것도 하지 않는다.
// 데이터 소스 실패는 실행 전체를 중단시키는 치명적 에러다.
func (ix *MenuIndex) Load(ctx context.Context) error {
	if ix.loaded {
		return nil
	}

	occurrences, err := ix.source.FindByDate(ctx, ix.date, ix.meal)
	if err != nil {
		return fmt.Errorf("load menu index: %w", err)
	}

	ix.byKey = make(map[domain.MenuKey]domain.MenuOccurrence, len(occurrences))
	for _, occ := range occurrences {
		ix.byKey[occ.Key()] = occ
	}
	ix.loaded = true
	return nil
}

// Match: 구독 키가 오늘 제공 메뉴에 있는지 조회한다. Load 이후에만 호출해야 한다.
func (ix *MenuIndex) Match(key domain.MenuKey) (domain.MenuOccurrence, bool) {
	occ, ok := ix.byKey[key]
	return occ, ok
}

// Size: 인덱스에 든 메뉴 수를 반환한다. (로그용)
func (ix *MenuIndex) Size() int {
	return len(ix.byKey)
}
