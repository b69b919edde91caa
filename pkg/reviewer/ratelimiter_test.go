package reviewer

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterBurst(t *testing.T) {
	limiter := NewRateLimiter(60, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Try() {
			t.Fatalf("token %d should be available within burst", i)
		}
	}
	if limiter.Try() {
		t.Error("burst exhausted, Try should fail")
	}
}

func TestRateLimiterDefaultBurst(t *testing.T) {
	limiter := NewRateLimiter(5, 0)
	if limiter.burst != 1 {
		t.Errorf("burst = %d, want minimum 1", limiter.burst)
	}

	limiter = NewRateLimiter(100, 0)
	if limiter.burst != 10 {
		t.Errorf("burst = %d, want 10", limiter.burst)
	}
}

func TestRateLimiterRefill(t *testing.T) {
	limiter := NewRateLimiter(6000, 2)

	limiter.Try()
	limiter.Try()
	if limiter.Try() {
		t.Fatal("tokens should be exhausted")
	}

	// 6000 rpm refills 100 tokens per second.
	time.Sleep(50 * time.Millisecond)
	if !limiter.Try() {
		t.Error("token should have refilled")
	}
}

func TestRateLimiterWaitCancellation(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRateLimiterWaitConsumesToken(t *testing.T) {
	// 300 rpm refills one token per 200ms.
	limiter := NewRateLimiter(300, 1)

	if !limiter.Try() {
		t.Fatal("initial token should be available")
	}

	// Wait must block for the refill and consume the refilled token, so
	// a Try right after it returns finds the bucket empty again.
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if limiter.Try() {
		t.Error("token refilled during Wait was not consumed")
	}
}

func TestRateLimiterWaitImmediate(t *testing.T) {
	limiter := NewRateLimiter(60, 5)

	start := time.Now()
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Wait blocked %v with tokens available", elapsed)
	}
}
