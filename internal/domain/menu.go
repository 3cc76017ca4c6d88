package domain

import "time"

// MealType: 식사 구분 (조식/중식/석식)
type MealType string

const (
	MealBreakfast MealType = "BREAKFAST"
	MealLunch     MealType = "LUNCH"
	MealDinner    MealType = "DINNER"
)

// MenuKey: 반복 메뉴의 정체성. 같은 (식당, 메뉴코드)가 다시 나오면 같은 메뉴로 본다.
type MenuKey struct {
	RestaurantID int64
	MenuCode     string
}

// MenuSubscription: "이 메뉴가 나오는 날 알려줘" 구독. 특정 날짜에 묶이지 않는다.
type MenuSubscription struct {
	UserID       int64
	RestaurantID int64
	MenuCode     string
}

// Key: 구독이 가리키는 메뉴 정체성을 반환한다.
func (s MenuSubscription) Key() MenuKey {
	return MenuKey{RestaurantID: s.RestaurantID, MenuCode: s.MenuCode}
}

// MenuOccurrence: 특정 날짜/식사에 실제로 제공되는 메뉴 레코드
type MenuOccurrence struct {
	RestaurantID   int64
	MenuCode       string
	Date           time.Time
	MealType       MealType
	Name           string // 메뉴 표시명
	RestaurantName string
}

// Key: 제공 레코드의 메뉴 정체성을 반환한다.
func (o MenuOccurrence) Key() MenuKey {
	return MenuKey{RestaurantID: o.RestaurantID, MenuCode: o.MenuCode}
}
