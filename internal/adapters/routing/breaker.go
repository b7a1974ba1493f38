package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/W-Nunes/MobiVan/internal/domain"
	"github.com/W-Nunes/MobiVan/internal/ports"
)

// Default circuit breaker settings.
const (
	defaultBreakerMaxFailures uint32        = 5
	defaultBreakerTimeout     time.Duration = 30 * time.Second
	defaultBreakerInterval    time.Duration = 60 * time.Second
)

// BreakerSettings configures BreakerPathResolver. Zero fields use defaults;
// callers that want no breaker at all skip the decorator.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a half-open probe.
	OpenTimeout time.Duration
	// Interval clears failure counts while closed.
	Interval time.Duration
}

// BreakerPathResolver wraps a PathResolver with a circuit breaker.
// While the circuit is open calls fail immediately without reaching the
// provider; callers treat that like any other provider failure.
type BreakerPathResolver struct {
	inner   ports.PathResolver
	breaker *gobreaker.CircuitBreaker[*domain.RouteInfo]
}

func NewBreakerPathResolver(name string, inner ports.PathResolver, s BreakerSettings, logger *slog.Logger) *BreakerPathResolver {
	maxFailures := s.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultBreakerMaxFailures
	}
	timeout := s.OpenTimeout
	if timeout == 0 {
		timeout = defaultBreakerTimeout
	}
	interval := s.Interval
	if interval == 0 {
		interval = defaultBreakerInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	cb := gobreaker.NewCircuitBreaker[*domain.RouteInfo](gobreaker.Settings{
		Name:        "routing:" + name,
		MaxRequests: 1,
		Interval:    interval,
		Timeout:     timeout,
		// A caller that went away says nothing about the provider.
		// Deadlines still count: the provider was too slow.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &BreakerPathResolver{inner: inner, breaker: cb}
}

func (b *BreakerPathResolver) ResolvePath(ctx context.Context, points []domain.Location) (*domain.RouteInfo, error) {
	info, err := b.breaker.Execute(func() (*domain.RouteInfo, error) {
		return b.inner.ResolvePath(ctx, points)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("routing circuit open: %w", err)
		}
		return nil, err
	}
	return info, nil
}

// State returns the current circuit state.
func (b *BreakerPathResolver) State() gobreaker.State {
	return b.breaker.State()
}

var _ ports.PathResolver = (*BreakerPathResolver)(nil)
