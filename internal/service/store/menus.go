package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/kapu/campus-meal-alarm-go/internal/domain"
	"github.com/kapu/campus-meal-alarm-go/internal/service/database"
)

// occurrenceModel: menu_occurrences 테이블과 매핑되는 GORM 모델.
// restaurant_name은 restaurants 테이블 조인으로 채워진다.
type occurrenceModel struct {
	RestaurantID   int64     `gorm:"column:restaurant_id"`
	MenuCode       string    `gorm:"column:menu_code"`
	ServedDate     time.Time `gorm:"column:served_date"`
	MealType       string    `gorm:"column:meal_type"`
	Name           string    `gorm:"column:name"`
	RestaurantName string    `gorm:"column:restaurant_name"`
}

// MenuRepository: 제공 메뉴(menu_occurrences) 테이블에 대한 읽기 전용 접근
type MenuRepository struct {
	gormDB *gorm.DB
	logger *slog.Logger
}

// NewMenuRepository: 새로운 MenuRepository를 생성합니다.
func NewMenuRepository(postgres *database.PostgresService, logger *slog.Logger) *MenuRepository {
	return &MenuRepository{
		gormDB: postgres.GetGormDB(),
		logger: logger,
	}
}

// FindByDate: 특정 날짜에 제공되는 메뉴 레코드를 모두 조회한다.
// mealType이 nil이 아니면 해당 식사 구분으로 필터링한다.
func (r *MenuRepository) FindByDate(ctx context.Context, date time.Time, mealType *domain.MealType) ([]domain.MenuOccurrence, error) {
	tx := r.gormDB.WithContext(ctx).
		Table("menu_occurrences").
		Select("menu_occurrences.restaurant_id, menu_occurrences.menu_code, menu_occurrences.served_date, menu_occurrences.meal_type, menu_occurrences.name, restaurants.name AS restaurant_name").
		Joins("JOIN restaurants ON restaurants.id = menu_occurrences.restaurant_id").
		Where("menu_occurrences.served_date = ?", date.Format("2006-01-02"))

	if mealType != nil {
		tx = tx.Where("menu_occurrences.meal_type = ?", string(*mealType))
	}

	var rows []occurrenceModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find menu occurrences: %w", err)
	}

	occurrences := make([]domain.MenuOccurrence, 0, len(rows))
	for _, row := range rows {
		occurrences = append(occurrences, domain.MenuOccurrence{
			RestaurantID:   row.RestaurantID,
			MenuCode:       row.MenuCode,
			Date:           row.ServedDate,
			MealType:       domain.MealType(row.MealType),
			Name:           row.Name,
			RestaurantName: row.RestaurantName,
		})
	}
	return occurrences, nil
}
