package mealalarm

import "github.com/kapu/campus-meal-alarm-go/internal/domain"

// SkipReason: 사용자가 알림 대상에서 제외된 이유. 에러가 아닌 정상 종결 상태다.
type SkipReason int

const (
	SkipNone     SkipReason = iota // 제외되지 않음 (페이로드 생성됨)
	SkipNoDevice                   // 등록된 기기가 없음
	SkipNoMenu                     // 오늘 제공 메뉴와 겹치는 구독이 없음
)

// Processor: (사용자, 프리페치된 기기/구독, 메뉴 인덱스) → 알림 페이로드 변환.
// I/O는 전부 인덱스 로드와 프리페치 단계에서 끝났으므로 여기는 순수 함수다.
// 카테고리별로 프로세서를 복제하지 않고 인덱스(식사 필터)를 설정으로 받는다.
type Processor struct {
	cache *ChunkCache
	index *MenuIndex
}

// NewProcessor: 실행 범위의 캐시와 인덱스를 참조하는 프로세서를 생성한다.
func NewProcessor(cache *ChunkCache, index *MenuIndex) *Processor {
	return &Processor{
		cache: cache,
		index: index,
	}
}

// Process: 사용자 1명을 가공한다. 페이로드는 기기와 메뉴 항목이 모두 있을 때만 만들어진다.
func (p *Processor) Process(user domain.User) (*domain.MealNotification, SkipReason) {
	devices := p.cache.LookupDevices(user.ID)
	if len(devices) == 0 {
		return nil, SkipNoDevice
	}

	subs := p.cache.LookupSubscriptions(user.ID)
	var items []domain.MenuItem
	for _, sub := range subs {
		occ, ok := p.index.Match(sub.Key())
		if !ok {
			continue
		}
		items = append(items, domain.MenuItem{
			Name:           occ.Name,
			RestaurantName: occ.RestaurantName,
		})
	}
	if len(items) == 0 {
		return nil, SkipNoMenu
	}

	return &domain.MealNotification{
		UserID:   user.ID,
		Category: user.AlarmCategory,
		Devices:  devices,
		Items:    items,
	}, SkipNone
}
