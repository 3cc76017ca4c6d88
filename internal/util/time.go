package util

import "time"

var kstLocation *time.Location

func init() {
	var err error
	kstLocation, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		kstLocation = time.FixedZone("KST", 9*60*60)
	}
}

// KST: 한국 표준시 Location을 반환한다. 학식 스케줄은 전부 KST 기준이다.
func KST() *time.Location {
	return kstLocation
}

// NowKST: 현재 시간을 KST 기준으로 반환합니다.
func NowKST() time.Time {
	return time.Now().In(kstLocation)
}

// TodayKST: 오늘 날짜를 KST 자정 기준으로 반환합니다. (시각 성분 제거)
func TodayKST() time.Time {
	now := NowKST()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, kstLocation)
}

// FormatDateKST: 주어진 시간을 KST 기준 YYYY-MM-DD 문자열로 변환합니다.
func FormatDateKST(t time.Time) string {
	return t.In(kstLocation).Format("2006-01-02")
}
