package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/detourdev/detour/internal/config"
	"github.com/detourdev/detour/internal/logger"
)

var log = logger.WithComponent("retry")

type Config struct {
	MaxAttempts   int           // Maximum number of attempts (including the initial one).
	BaseDelay     time.Duration // Base delay for exponential backoff.
	MaxDelay      time.Duration // Maximum delay between retries.
	JitterEnabled bool          // Whether to add jitter to prevent thundering herd.
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:   3,
		BaseDelay:     1 * time.Second,
		MaxDelay:      10 * time.Second,
		JitterEnabled: true,
	}
}

// GetConfig reads retry settings from the global configuration, falling back
// to defaults when configuration was never initialized.
func GetConfig() Config {
	maxAttempts := config.GetInt("retry.max_attempts")
	baseDelay := config.GetDuration("retry.base_delay")
	maxDelay := config.GetDuration("retry.max_delay")
	jitterEnabled := config.GetBool("retry.jitter_enabled")

	if maxAttempts == 0 && baseDelay == 0 && maxDelay == 0 {
		return DefaultConfig()
	}

	return Config{
		MaxAttempts:   maxAttempts,
		BaseDelay:     baseDelay,
		MaxDelay:      maxDelay,
		JitterEnabled: jitterEnabled,
	}
}

// RetryableError lets error types opt in to being retried.
type RetryableError interface {
	IsRetryable() bool
}

// Do runs operation, retrying with exponential backoff while the returned
// error reports itself retryable. The last error is returned once attempts
// are exhausted or the error is permanent.
func Do(ctx context.Context, cfg Config, operation func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled before attempt %d: %w", attempt, ctx.Err())
		default:
		}

		err := operation(ctx)
		if err == nil {
			if attempt > 1 {
				log.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		lastErr = err

		if attempt >= cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := calculateDelay(attempt, cfg)
		log.Debug("operation failed, retrying",
			"attempt", attempt,
			"max_attempts", cfg.MaxAttempts,
			"error", err,
			"delay", delay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled during backoff: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return lastErr
}

func isRetryable(err error) bool {
	var retryableErr RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.IsRetryable()
	}
	// Unknown errors are permanent.
	return false
}

func calculateDelay(attempt int, cfg Config) time.Duration {
	// Exponential backoff: baseDelay * 2^(attempt-1), capped at MaxDelay.
	exponentialDelay := float64(cfg.BaseDelay) * math.Pow(2, float64(attempt-1))
	if exponentialDelay > float64(cfg.MaxDelay) {
		exponentialDelay = float64(cfg.MaxDelay)
	}

	delay := time.Duration(exponentialDelay)

	if cfg.JitterEnabled {
		jitter := float64(delay) * 0.25 * (rand.Float64()*2 - 1) // -25% to +25%
		delay = time.Duration(float64(delay) + jitter)
		if delay < 0 {
			delay = cfg.BaseDelay
		}
	}

	return delay
}
