package models

import (
	"testing"
	"time"
)

const (
	testQuotaCap    = 20
	testQuotaWindow = 7 * 24 * time.Hour
)

func TestFreeQuestQuotaAdvance(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	quota := &FreeQuestQuota{ID: 1, WindowStart: start}

	for i := 1; i <= testQuotaCap; i++ {
		if err := quota.Advance(start.Add(time.Hour), testQuotaCap, testQuotaWindow); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if quota.Used != i {
			t.Fatalf("advance %d: used = %d", i, quota.Used)
		}
	}

	if err := quota.Advance(start.Add(2*time.Hour), testQuotaCap, testQuotaWindow); err != ErrQuotaExhausted {
		t.Fatalf("advance past cap: err = %v, want ErrQuotaExhausted", err)
	}
	if quota.Used != testQuotaCap {
		t.Fatalf("used changed on exhausted advance: %d", quota.Used)
	}
}

func TestFreeQuestQuotaWindowReset(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	quota := &FreeQuestQuota{ID: 1, Used: testQuotaCap, WindowStart: start}

	// one second before the boundary the window is still closed
	if err := quota.Advance(start.Add(testQuotaWindow-time.Second), testQuotaCap, testQuotaWindow); err != ErrQuotaExhausted {
		t.Fatalf("before boundary: err = %v, want ErrQuotaExhausted", err)
	}

	// at the boundary the window rolls and the triggering start takes slot 1
	at := start.Add(testQuotaWindow)
	if err := quota.Advance(at, testQuotaCap, testQuotaWindow); err != nil {
		t.Fatalf("at boundary: %v", err)
	}
	if quota.Used != 1 {
		t.Fatalf("reset used = %d, want 1", quota.Used)
	}
	if !quota.WindowStart.Equal(at) {
		t.Fatalf("window start = %v, want %v", quota.WindowStart, at)
	}
}

func TestFreeQuestQuotaRemaining(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	quota := &FreeQuestQuota{ID: 1, Used: 5, WindowStart: start}

	if got := quota.Remaining(start.Add(time.Hour), testQuotaCap, testQuotaWindow); got != 15 {
		t.Fatalf("remaining = %d, want 15", got)
	}

	quota.Used = testQuotaCap
	if got := quota.Remaining(start.Add(time.Hour), testQuotaCap, testQuotaWindow); got != 0 {
		t.Fatalf("remaining at cap = %d, want 0", got)
	}

	if got := quota.Remaining(start.Add(testQuotaWindow), testQuotaCap, testQuotaWindow); got != testQuotaCap {
		t.Fatalf("remaining after window = %d, want %d", got, testQuotaCap)
	}
}
