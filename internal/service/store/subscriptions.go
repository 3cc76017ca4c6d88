package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/kapu/campus-meal-alarm-go/internal/domain"
	"github.com/kapu/campus-meal-alarm-go/internal/service/database"
)

// SubscriptionRepository: 메뉴 구독 테이블에 대한 읽기 전용 접근
type SubscriptionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSubscriptionRepository: 새로운 SubscriptionRepository를 생성합니다.
func NewSubscriptionRepository(postgres *database.PostgresService, logger *slog.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// FindByUserIDs: 사용자 id 집합의 모든 메뉴 구독을 한 번의 벌크 쿼리로 조회한다.
// 청크 프리페치 전용이며, 구독이 없는 사용자는 결과 맵에 나타나지 않는다.
func (r *SubscriptionRepository) FindByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]domain.MenuSubscription, error) {
	result := make(map[int64][]domain.MenuSubscription)
	if len(userIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT user_id, restaurant_id, menu_code
		FROM menu_subscriptions
		WHERE user_id = ANY($1)
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("find subscriptions by user ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.MenuSubscription
		if err := rows.Scan(&s.UserID, &s.RestaurantID, &s.MenuCode); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		result[s.UserID] = append(result[s.UserID], s)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", rowsErr)
	}
	return result, nil
}
