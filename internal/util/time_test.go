package util

import (
	"testing"
	"time"
)

func TestTodayKST(t *testing.T) {
	today := TodayKST()

	if today.Hour() != 0 || today.Minute() != 0 || today.Second() != 0 {
		t.Fatalf("expected midnight, got %v", today)
	}
	if today.Location().String() != KST().String() {
		t.Fatalf("expected KST location, got %v", today.Location())
	}
}

func TestFormatDateKST(t *testing.T) {
	// UTC 2024-03-01 16:30 → KST 2024-03-02 01:30
	utc := time.Date(2024, 3, 1, 16, 30, 0, 0, time.UTC)

	if got := FormatDateKST(utc); got != "2024-03-02" {
		t.Fatalf("expected 2024-03-02, got %s", got)
	}
}
