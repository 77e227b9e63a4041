package quotes

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/maxkimambo/manage/internal/logger"
)

// RetryPolicy controls how transient quotes API failures are repeated.
type RetryPolicy struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	// JitterFactor adds up to this fraction of the backoff at random.
	JitterFactor float64
}

// DefaultRetryPolicy retries twice, starting at half a second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		BackoffFactor:  2.0,
		JitterFactor:   0.3,
	}
}

// Backoff is the wait before retry number attempt (1-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	backoff := time.Duration(float64(p.InitialBackoff) * math.Pow(p.BackoffFactor, float64(attempt-1)))
	if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
		backoff = p.MaxBackoff
	}
	if p.JitterFactor > 0 {
		backoff = time.Duration(float64(backoff) * (1 + rand.Float64()*p.JitterFactor))
	}
	return backoff
}

// do calls fn until it succeeds, reports a permanent failure, or retries run out.
func (p RetryPolicy) do(ctx context.Context, endpoint string, fn func() (retryable bool, err error)) error {
	for attempt := 0; ; attempt++ {
		retryable, err := fn()
		if err == nil || !retryable || attempt >= p.MaxRetries {
			return err
		}

		wait := p.Backoff(attempt + 1)
		logger.Op.WithFields(map[string]interface{}{
			"url":     endpoint,
			"attempt": attempt + 1,
			"wait":    wait.String(),
			"error":   err.Error(),
		}).Warn("quotes request failed, retrying")

		select {
		case <-ctx.Done():
			return err
		case <-time.After(wait):
		}
	}
}
