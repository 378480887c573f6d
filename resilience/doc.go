// Package resilience retries operations against infrastructure that may not
// be up yet, with exponential backoff and context cancellation.
//
//	db, err := resilience.Retry(ctx, resilience.RetryConfig{MaxAttempts: 5}, func() (*DB, error) {
//	    return connect(ctx)
//	})
package resilience
