package cache

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kapu/campus-meal-alarm-go/internal/config"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	mr := miniredis.RunT(t)
	host, portStr, ok := strings.Cut(mr.Addr(), ":")
	if !ok {
		t.Fatalf("unexpected miniredis addr: %s", mr.Addr())
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	svc, err := NewCacheService(config.ValkeyConfig{Host: host, Port: port}, slog.Default())
	if err != nil {
		t.Fatalf("NewCacheService returned error: %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}

func TestGetSet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	type payload struct {
		Count int `json:"count"`
	}

	if err := svc.Set(ctx, "test:key", payload{Count: 3}, time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	var got payload
	found, err := svc.Get(ctx, "test:key", &got)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !found {
		t.Fatalf("expected key to exist")
	}
	if got.Count != 3 {
		t.Fatalf("expected count 3, got %d", got.Count)
	}

	found, err = svc.Get(ctx, "test:missing", &got)
	if err != nil {
		t.Fatalf("Get returned error for missing key: %v", err)
	}
	if found {
		t.Fatalf("expected missing key")
	}
}

func TestAcquireLock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ok, err := svc.AcquireLock(ctx, "lock:run", time.Minute)
	if err != nil {
		t.Fatalf("AcquireLock returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected first acquire to succeed")
	}

	ok, err = svc.AcquireLock(ctx, "lock:run", time.Minute)
	if err != nil {
		t.Fatalf("second AcquireLock returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected second acquire to fail while locked")
	}

	if err := svc.ReleaseLock(ctx, "lock:run"); err != nil {
		t.Fatalf("ReleaseLock returned error: %v", err)
	}

	ok, err = svc.AcquireLock(ctx, "lock:run", time.Minute)
	if err != nil {
		t.Fatalf("AcquireLock after release returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected acquire to succeed after release")
	}
}
