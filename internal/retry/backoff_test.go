package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fastConfig(retries int) Config {
	return Config{
		MaxRetries: retries,
		BaseDelay:  5 * time.Millisecond,
		MaxDelay:   20 * time.Millisecond,
		Multiplier: 2.0,
	}
}

func TestModelConfig(t *testing.T) {
	cfg := ModelConfig(2)

	if cfg.MaxRetries != 2 {
		t.Errorf("Expected MaxRetries=2, got %d", cfg.MaxRetries)
	}
	if cfg.BaseDelay != 2*time.Second {
		t.Errorf("Expected BaseDelay=2s, got %v", cfg.BaseDelay)
	}
	if cfg.Multiplier != 2.5 {
		t.Errorf("Expected Multiplier=2.5, got %f", cfg.Multiplier)
	}
	if !cfg.Jitter {
		t.Error("Expected Jitter=true")
	}
}

func TestDo_FirstAttempt(t *testing.T) {
	res := Do(context.Background(), fastConfig(2), func(context.Context, int) error {
		return nil
	}, nil, zerolog.Nop())

	if !res.Success() {
		t.Fatalf("Expected success, got %v", res.LastError)
	}
	if res.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", res.Attempts)
	}
	if len(res.Reasons) != 0 {
		t.Errorf("Expected no reasons, got %v", res.Reasons)
	}
}

func TestDo_EventualSuccess(t *testing.T) {
	seen := []int{}
	res := Do(context.Background(), fastConfig(3), func(_ context.Context, attempt int) error {
		seen = append(seen, attempt)
		if attempt < 3 {
			return errors.New("temporary failure")
		}
		return nil
	}, nil, zerolog.Nop())

	if !res.Success() {
		t.Fatalf("Expected success, got %v", res.LastError)
	}
	if res.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", res.Attempts)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("Unexpected attempt numbers %v", seen)
	}
	if len(res.Reasons) != 2 {
		t.Errorf("Expected 2 reasons, got %d", len(res.Reasons))
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	want := errors.New("persistent failure")
	res := Do(context.Background(), fastConfig(2), func(context.Context, int) error {
		return want
	}, nil, zerolog.Nop())

	if res.Success() {
		t.Fatal("Expected failure")
	}
	if res.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", res.Attempts)
	}
	if !errors.Is(res.LastError, want) {
		t.Errorf("Expected %v, got %v", want, res.LastError)
	}
}

func TestDo_StopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("bad request")
	res := Do(context.Background(), fastConfig(5), func(context.Context, int) error {
		return fatal
	}, func(err error) bool { return !errors.Is(err, fatal) }, zerolog.Nop())

	if res.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", res.Attempts)
	}
	if !errors.Is(res.LastError, fatal) {
		t.Errorf("Expected %v, got %v", fatal, res.LastError)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	cfg := Config{MaxRetries: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2.0}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	res := Do(ctx, cfg, func(context.Context, int) error {
		return errors.New("always fails")
	}, nil, zerolog.Nop())

	if !errors.Is(res.LastError, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", res.LastError)
	}
	if res.Attempts > 2 {
		t.Errorf("Expected few attempts, got %d", res.Attempts)
	}
}

func TestDelay(t *testing.T) {
	cfg := Config{BaseDelay: time.Second, MaxDelay: 10 * time.Second, Multiplier: 2.0}

	for attempt, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		if got := cfg.delay(attempt); got != want {
			t.Errorf("attempt %d: expected %v, got %v", attempt, want, got)
		}
	}
	if got := cfg.delay(10); got != 10*time.Second {
		t.Errorf("Expected capped delay 10s, got %v", got)
	}
}

func TestDelay_Jitter(t *testing.T) {
	cfg := Config{BaseDelay: time.Second, MaxDelay: 10 * time.Second, Multiplier: 2.0, Jitter: true}

	for i := 0; i < 20; i++ {
		d := cfg.delay(1)
		if d < 1800*time.Millisecond || d > 2200*time.Millisecond {
			t.Fatalf("delay %v outside the 10%% jitter band around 2s", d)
		}
	}
}
