package repository

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// withRetry re-runs an operation on transient MongoDB failures with
// exponential backoff. Domain conditions (no documents, write conflicts
// on our conditional updates) are permanent and returned immediately.
func withRetry(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(50*time.Millisecond),
			backoff.WithMaxInterval(time.Second),
		), 3), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

func isTransient(err error) bool {
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}
