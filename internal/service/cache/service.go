package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/kapu/campus-meal-alarm-go/internal/config"
	"github.com/kapu/campus-meal-alarm-go/internal/constants"
	"github.com/kapu/campus-meal-alarm-go/pkg/errors"
)

// Service: Valkey(Redis) 클라이언트를 래핑하여 캐싱/락 기능을 제공하는 서비스
type Service struct {
	client    valkey.Client
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewCacheService: 새로운 Valkey 캐시 서비스 인스턴스를 생성하고 연결을 수립한다.
func NewCacheService(cfg config.ValkeyConfig, logger *slog.Logger) (*Service, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Password:          cfg.Password,
		SelectDB:          cfg.DB,
		ConnWriteTimeout:  constants.ValkeyConfig.ConnWriteTimeout,
		BlockingPoolSize:  constants.ValkeyConfig.BlockingPoolSize,
		PipelineMultiplex: constants.ValkeyConfig.PipelineMultiplex,
		Dialer:            net.Dialer{Timeout: constants.ValkeyConfig.DialTimeout},
		DisableCache:      true,
	})
	if err != nil {
		return nil, errors.NewCacheError("init", "", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ValkeyConfig.ReadyTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, errors.NewCacheError("ping", "", err)
	}

	logger.Info("Cache store connected",
		slog.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		slog.Int("db", cfg.DB),
	)

	return &Service{
		client: client,
		logger: logger,
	}, nil
}

// Get: 키에 해당하는 값을 조회하고, 결과를 dest 인터페이스에 언마샬링한다.
// 키가 없으면 (false, nil)을 반환한다.
func (c *Service) Get(ctx context.Context, key string, dest any) (bool, error) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if valkey.IsValkeyNil(resp.Error()) {
		return false, nil
	}
	if resp.Error() != nil {
		c.logger.Error("Cache get operation failed", slog.String("key", key), slog.Any("error", resp.Error()))
		return false, errors.NewCacheError("get", key, resp.Error())
	}

	value, err := resp.ToString()
	if err != nil {
		return false, errors.NewCacheError("get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			return false, errors.NewCacheError("unmarshal", key, err)
		}
	}
	return true, nil
}

// Set: 값을 JSON으로 직렬화하여 TTL과 함께 저장한다.
func (c *Service) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal", key, err)
	}

	resp := c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(data)).Px(ttl).Build())
	if resp.Error() != nil {
		c.logger.Error("Cache set operation failed", slog.String("key", key), slog.Any("error", resp.Error()))
		return errors.NewCacheError("set", key, resp.Error())
	}
	return nil
}

// AcquireLock: SET NX PX 기반의 단순 분산 락을 획득한다.
// 이미 다른 소유자가 잡고 있으면 (false, nil)을 반환한다.
func (c *Service) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	resp := c.client.Do(ctx, c.client.B().Set().Key(key).Value("1").Nx().Px(ttl).Build())
	if valkey.IsValkeyNil(resp.Error()) {
		return false, nil
	}
	if resp.Error() != nil {
		return false, errors.NewCacheError("lock", key, resp.Error())
	}
	return true, nil
}

// ReleaseLock: 락 키를 삭제한다.
func (c *Service) ReleaseLock(ctx context.Context, key string) error {
	resp := c.client.Do(ctx, c.client.B().Del().Key(key).Build())
	if resp.Error() != nil {
		return errors.NewCacheError("unlock", key, resp.Error())
	}
	return nil
}

// Ping: 캐시 연결 상태를 확인한다. (헬스 체크용)
func (c *Service) Ping(ctx context.Context) error {
	if err := c.client.Do(ctx, c.client.B().Ping().Build()).Error(); err != nil {
		return errors.NewCacheError("ping", "", err)
	}
	return nil
}

// Close: 클라이언트 연결을 한 번만 종료한다.
func (c *Service) Close() {
	c.closeOnce.Do(func() {
		c.client.Close()
	})
}
