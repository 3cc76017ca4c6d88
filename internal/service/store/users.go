// Package store: 알림 파이프라인이 읽어가는 저장소 접근 계층.
// 사용자/기기/구독/메뉴는 모두 CRUD 도메인 소유이며 여기서는 조회만 한다.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kapu/campus-meal-alarm-go/internal/domain"
	"github.com/kapu/campus-meal-alarm-go/internal/service/database"
)

// UserRepository: 사용자 테이블에 대한 읽기 전용 접근
type UserRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewUserRepository: 새로운 UserRepository를 생성합니다.
func NewUserRepository(postgres *database.PostgresService, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// ListByAlarmCategory: 특정 알림 카테고리를 켜둔 사용자를 id 오름차순 keyset 페이지네이션으로 조회한다.
// afterID보다 큰 id만 반환하므로, 페이지 사이에 스토어가 변해도 이미 지나간 id는 다시 나오지 않는다.
func (r *UserRepository) ListByAlarmCategory(ctx context.Context, category domain.AlarmCategory, afterID int64, limit int) ([]domain.User, error) {
	query := `
		SELECT id, alarm_category
		FROM users
		WHERE alarm_category = $1 AND id > $2
		ORDER BY id ASC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, string(category), afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list users by alarm category: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var category string
		if err := rows.Scan(&u.ID, &category); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.AlarmCategory = domain.ParseAlarmCategory(category)
		users = append(users, u)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate users: %w", rowsErr)
	}
	return users, nil
}
