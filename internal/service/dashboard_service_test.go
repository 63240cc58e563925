package service

import (
	"errors"
	"testing"
	"time"
)

func TestResolveDashboardWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	window, err := resolveDashboardWindow(DashboardQueryInput{Timezone: "UTC"}, now)
	if err != nil {
		t.Fatalf("default window failed: %v", err)
	}
	if window.rangeKey != "7d" || !window.startAt.Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)) || !window.endAt.Equal(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected 7d window: %s %s - %s", window.rangeKey, window.startAt, window.endAt)
	}

	today, err := resolveDashboardWindow(DashboardQueryInput{Range: "today", Timezone: "UTC"}, now)
	if err != nil || today.endAt.Sub(today.startAt) != 24*time.Hour {
		t.Fatalf("today window should span one day: %v", err)
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC)
	custom, err := resolveDashboardWindow(DashboardQueryInput{Range: "custom", From: &from, To: &to, Timezone: "UTC"}, now)
	if err != nil || !custom.endAt.Equal(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("custom window end should be exclusive next second: %v %s", err, custom.endAt)
	}

	invalid := []DashboardQueryInput{
		{Range: "year"},
		{Range: "custom"},
		{Range: "custom", From: &to, To: &from},
	}
	for _, input := range invalid {
		if _, err := resolveDashboardWindow(input, now); !errors.Is(err, ErrDashboardRangeInvalid) {
			t.Fatalf("range %q should be rejected, got %v", input.Range, err)
		}
	}
}
