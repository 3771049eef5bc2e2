package middleware

import (
	"testing"

	"github.com/google/uuid"
)

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 5)
	defer rl.Stop()

	userID := uuid.New()
	for i := 0; i < 5; i++ {
		if !rl.Allow(userID) {
			t.Fatalf("Expected request %d within burst to be allowed", i+1)
		}
	}

	if rl.Allow(userID) {
		t.Error("Expected request beyond burst to be rejected")
	}
}

func TestRateLimiter_PerUserIsolation(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 1)
	defer rl.Stop()

	first := uuid.New()
	second := uuid.New()

	if !rl.Allow(first) {
		t.Fatal("Expected first user's request to be allowed")
	}
	if rl.Allow(first) {
		t.Error("Expected first user to be limited")
	}
	if !rl.Allow(second) {
		t.Error("Expected second user to be unaffected")
	}
}

func TestRateLimiter_GetStateUnknownUser(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 7)
	defer rl.Stop()

	remaining, _ := rl.GetState(uuid.New())
	if remaining != 7 {
		t.Errorf("Expected full burst for unknown user, got %d", remaining)
	}
}
