package domain

// AlarmCategory: 사용자의 학식 알림 수신 설정
type AlarmCategory string

const (
	AlarmNone      AlarmCategory = "NONE"
	AlarmDaily     AlarmCategory = "DAILY"
	AlarmBreakfast AlarmCategory = "BREAKFAST"
	AlarmLunch     AlarmCategory = "LUNCH"
	AlarmDinner    AlarmCategory = "DINNER"
)

// ParseAlarmCategory: 문자열을 AlarmCategory로 변환한다. 알 수 없는 값은 NONE을 반환한다.
func ParseAlarmCategory(s string) AlarmCategory {
	switch AlarmCategory(s) {
	case AlarmDaily, AlarmBreakfast, AlarmLunch, AlarmDinner:
		return AlarmCategory(s)
	default:
		return AlarmNone
	}
}

// MealFilter: 카테고리에 해당하는 식사 구분 필터를 반환한다.
// DAILY는 하루 전체 메뉴를 대상으로 하므로 필터가 없다 (nil).
func (c AlarmCategory) MealFilter() *MealType {
	var meal MealType
	switch c {
	case AlarmBreakfast:
		meal = MealBreakfast
	case AlarmLunch:
		meal = MealLunch
	case AlarmDinner:
		meal = MealDinner
	default:
		return nil
	}
	return &meal
}

// User: 알림 대상 사용자. 사용자 도메인 소유이며 파이프라인은 읽기만 한다.
type User struct {
	ID            int64
	AlarmCategory AlarmCategory
}
