package providers

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// Retry defaults shared by the text and TTS adapters.
const (
	DefaultBaseDelay = 250 * time.Millisecond
	DefaultFactor    = 2.0
	DefaultJitter    = 0.25
)

// RetryPolicy runs an operation with exponential backoff and jitter.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
	Jitter      float64 // fraction of the delay, applied as ± randomization
}

func NewRetryPolicy(maxAttempts int) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Factor:      DefaultFactor,
		Jitter:      DefaultJitter,
	}
}

// Do invokes fn up to MaxAttempts times. Terminal errors and context
// cancellation stop the loop early; the last error is returned.
func (p RetryPolicy) Do(ctx context.Context, log *logrus.Entry, fn func(ctx context.Context) error) error {
	var lastErr error
	delay := p.BaseDelay

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if IsTerminal(lastErr) || ctx.Err() != nil {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		sleep := jittered(delay, p.Jitter)
		if log != nil {
			log.WithError(lastErr).WithFields(logrus.Fields{
				"attempt":  attempt,
				"sleep_ms": sleep.Milliseconds(),
			}).Warn("upstream call failed, retrying")
		}
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return lastErr
		}
		delay = time.Duration(float64(delay) * p.Factor)
	}
	return lastErr
}

func jittered(d time.Duration, frac float64) time.Duration {
	if frac <= 0 {
		return d
	}
	// uniform in [-frac, +frac]
	offset := (rand.Float64()*2 - 1) * frac
	return time.Duration(float64(d) * (1 + offset))
}
