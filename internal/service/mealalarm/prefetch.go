package mealalarm

import (
	"context"
	"fmt"

	"github.com/kapu/campus-meal-alarm-go/internal/domain"
)

// DeviceSource: 사용자 id 집합의 기기를 벌크 조회하는 저장소 인터페이스
type DeviceSource interface {
	FindByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]domain.Device, error)
}

// SubscriptionSource: 사용자 id 집합의 메뉴 구독을 벌크 조회하는 저장소 인터페이스
type SubscriptionSource interface {
	FindByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]domain.MenuSubscription, error)
}

// ChunkCache: 청크 하나의 기기/구독 데이터를 미리 당겨오는 캐시.
// 사용자당 2번의 점조회 대신 청크당 정확히 2번의 벌크 쿼리로 끝낸다.
// 수명은 청크 하나로 제한된다: BeforeChunk에서 채우고 AfterChunk에서 비운다.
type ChunkCache struct {
	devices DeviceSource
	subs    SubscriptionSource

	prefetched bool
	deviceMap  map[int64][]domain.Device
	subMap     map[int64][]domain.MenuSubscription
}

// NewChunkCache: 빈 청크 캐시를 생성한다.
func NewChunkCache(devices DeviceSource, subs SubscriptionSource) *ChunkCache {
	return &ChunkCache{
		devices: devices,
		subs:    subs,
	}
}

// BeforeChunk: 청크의 사용자 id 집합으로 기기/구독을 각각 1번씩 벌크 조회한다.
// 어느 한쪽이라도 실패하면 청크(그리고 실행)를 중단시켜야 한다.
// 부분 프리페치를 허용하면 일시적 장애가 "기기 없는 사용자"로 둔갑하기 때문이다.
func (c *ChunkCache) BeforeChunk(ctx context.Context, userIDs []int64) error {
	deviceMap, err := c.devices.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("prefetch devices: %w", err)
	}

	subMap, err := c.subs.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("prefetch subscriptions: %w", err)
	}

	c.deviceMap = deviceMap
	c.subMap = subMap
	c.prefetched = true
	return nil
}

// LookupDevices: 프리페치된 기기 목록을 반환한다. 없으면 빈 슬라이스 (에러 아님).
func (c *ChunkCache) LookupDevices(userID int64) []domain.Device {
	return c.deviceMap[userID]
}

// LookupSubscriptions: 프리페치된 구독 목록을 반환한다. 없으면 빈 슬라이스 (에러 아님).
func (c *ChunkCache) LookupSubscriptions(userID int64) []domain.MenuSubscription {
	return c.subMap[userID]
}

// Prefetched: 현재 청크에 대한 프리페치가 완료되었는지 여부
func (c *ChunkCache) Prefetched() bool {
	return c.prefetched
}

// AfterChunk: 캐시를 비우고 프리페치 플래그를 초기화한다. 다음 청크는 BeforeChunk를 다시 거친다.
func (c *ChunkCache) AfterChunk() {
	c.deviceMap = nil
	c.subMap = nil
	c.prefetched = false
}
