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

// DeviceRepository: 푸시 수신 기기 테이블에 대한 읽기 전용 접근
type DeviceRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDeviceRepository: 새로운 DeviceRepository를 생성합니다.
func NewDeviceRepository(postgres *database.PostgresService, logger *slog.Logger) *DeviceRepository {
	return &DeviceRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// FindByUserIDs: 사용자 id 집합에 속한 모든 기기를 한 번의 벌크 쿼리로 조회한다.
// 청크 프리페치 전용이며, 기기가 없는 사용자는 결과 맵에 나타나지 않는다.
func (r *DeviceRepository) FindByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]domain.Device, error) {
	result := make(map[int64][]domain.Device)
	if len(userIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, user_id, push_token, created_at
		FROM devices
		WHERE user_id = ANY($1)
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("find devices by user ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.Device
		if err := rows.Scan(&d.ID, &d.UserID, &d.PushToken, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		result[d.UserID] = append(result[d.UserID], d)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate devices: %w", rowsErr)
	}
	return result, nil
}
