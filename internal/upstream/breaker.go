package upstream

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// IsUnavailable reports whether the error comes from an open circuit
// breaker, i.e. the provider is being given time to recover. Routers
// map this to 503 rather than 502.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
