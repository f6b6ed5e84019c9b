package googlesheets

import (
	"context"
	"errors"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
)

// retry runs fn until it succeeds, fails permanently, or the retry budget
// is spent. Only idempotent requests may be passed to retry.
func (s *Sheet) retry(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i <= s.maxRetries; i++ {
		err = fn()
		if err == nil || !retryable(err) {
			return err
		}

		if i < s.maxRetries {
			// Exponential backoff with reasonable limits
			backoff := time.Duration(1<<uint(i)) * 100 * time.Millisecond
			if backoff > 2*time.Second {
				backoff = 2 * time.Second
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return err
}

// retryable reports whether err is a quota or server-side fault
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	// transport errors without a response
	return true
}
