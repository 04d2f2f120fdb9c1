// Package retry runs an operation with exponential backoff. It is used by
// collaborators that talk to remote services; the pipeline never retries.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Config configures exponential backoff
type Config struct {
	MaxRetries int           `json:"max_retries"` // retries after the first attempt
	BaseDelay  time.Duration `json:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay"`
	Multiplier float64       `json:"multiplier"`
	Jitter     bool          `json:"jitter"` // +/-10% random spread
}

// Result describes how an operation ended
type Result struct {
	Attempts      int
	TotalDuration time.Duration
	LastError     error
	Reasons       []string // one entry per failed attempt
}

// Success reports whether the last attempt succeeded
func (r Result) Success() bool { return r.LastError == nil }

// ModelConfig is tuned for model calls, which are slow and rate limited
func ModelConfig(maxRetries int) Config {
	return Config{
		MaxRetries: maxRetries,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.5,
		Jitter:     true,
	}
}

// Operation is one attempt; attempt starts at 1
type Operation func(ctx context.Context, attempt int) error

// Do runs op until it succeeds, fails with an error retryable rejects, the
// retries are exhausted or ctx is done. A nil retryable retries every error.
func Do(ctx context.Context, cfg Config, op Operation, retryable func(error) bool, log zerolog.Logger) Result {
	start := time.Now()
	res := Result{}

	for attempt := 0; ; attempt++ {
		res.Attempts = attempt + 1
		err := op(ctx, res.Attempts)
		if err == nil {
			res.LastError = nil
			res.TotalDuration = time.Since(start)
			if attempt > 0 {
				log.Info().Int("attempts", res.Attempts).Dur("duration", res.TotalDuration).Msg("operation succeeded after retry")
			}
			return res
		}

		res.LastError = err
		res.Reasons = append(res.Reasons, err.Error())

		if attempt >= cfg.MaxRetries || (retryable != nil && !retryable(err)) {
			res.TotalDuration = time.Since(start)
			return res
		}
		if ctx.Err() != nil {
			res.LastError = ctx.Err()
			res.TotalDuration = time.Since(start)
			return res
		}

		delay := cfg.delay(attempt)
		log.Warn().Err(err).
			Int("attempt", res.Attempts).
			Int("max_attempts", cfg.MaxRetries+1).
			Dur("backoff", delay).
			Msg("operation failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			res.LastError = ctx.Err()
			res.TotalDuration = time.Since(start)
			return res
		case <-timer.C:
		}
	}
}

// delay is BaseDelay * Multiplier^attempt, capped at MaxDelay
func (c Config) delay(attempt int) time.Duration {
	d := float64(c.BaseDelay) * math.Pow(c.Multiplier, float64(attempt))
	if c.MaxDelay > 0 && d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	if c.Jitter {
		d += (rand.Float64() - 0.5) * 2 * d * 0.1
		if d < 0 {
			d = float64(c.BaseDelay)
		}
	}
	return time.Duration(d)
}
