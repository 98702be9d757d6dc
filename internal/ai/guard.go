package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GuardConfig tunes a Guard. Zero values pick the defaults below.
type GuardConfig struct {
	Name string
	// Attempts is the total number of tries per call
	Attempts uint
	// Delay is the base delay of the exponential backoff
	Delay time.Duration
	// FailureThreshold consecutive failures open the breaker
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open
	OpenTimeout time.Duration
	Logger      *zap.Logger
}

// Defaults for GuardConfig
const (
	DefaultAttempts         = 3
	DefaultDelay            = 500 * time.Millisecond
	DefaultFailureThreshold = 5
	DefaultOpenTimeout      = 30 * time.Second
)

// Guard protects calls to one remote service
type Guard struct {
	name     string
	cb       *gobreaker.CircuitBreaker
	attempts uint
	delay    time.Duration
	logger   *zap.Logger
}

// NewGuard creates a Guard
func NewGuard(cfg GuardConfig) *Guard {
	if cfg.Name == "" {
		cfg.Name = "ai"
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.Delay == 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = DefaultOpenTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	logger := cfg.Logger.With(zap.String("service", cfg.Name))
	threshold := cfg.FailureThreshold

	return &Guard{
		name: cfg.Name,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: 1,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("from", from.String()), zap.String("to", to.String()))
			},
			IsSuccessful: func(err error) bool {
				// A caller giving up says nothing about the service
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
		attempts: cfg.Attempts,
		delay:    cfg.Delay,
		logger:   logger,
	}
}

// Name returns the guarded service name
func (g *Guard) Name() string {
	return g.name
}

// Do runs fn through the breaker, retrying transient failures
func (g *Guard) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := retry.Do(
		func() error {
			_, err := g.cb.Execute(func() (interface{}, error) {
				return nil, fn(ctx)
			})
			if err != nil && !IsRetryable(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(g.attempts),
		retry.Delay(g.delay),
		retry.LastErrorOnly(true),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Debug("retrying", zap.String("op", op), zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("%s %s: %w", g.name, op, err)
	}
	return nil
}

// Call runs fn through g and returns fallback on any failure. It never
// returns an error; failures are logged.
func Call[T any](ctx context.Context, g *Guard, op string, fallback T, fn func(ctx context.Context) (T, error)) T {
	var result T
	err := g.Do(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		g.logger.Warn("call failed, using fallback", zap.String("op", op), zap.Error(err))
		return fallback
	}
	return result
}

// IsRetryable reports whether err looks transient: rate limits, server
// errors, timeouts and dropped connections.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return retryableStatus(genaiErr.Code)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "i/o timeout")
}

func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}
