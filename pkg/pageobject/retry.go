// pkg/pageobject/retry.go
package pageobject

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/amagee/webdriver-components/api/schemas"
)

// Default retry policy: a bounded total wait with a short fixed poll interval.
const (
	DefaultTimeout      = 5 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// Policy bounds one retried operation: Timeout is the overall deadline,
// PollInterval the delay between attempts. The zero value means defaults, so
// Policy{} is always usable and partial overrides work.
type Policy struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

func (p Policy) withDefaults() Policy {
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	if p.PollInterval <= 0 {
		p.PollInterval = DefaultPollInterval
	}
	return p
}

// withRetry is the single loop every read and action passes through.
//
// It executes op, which must re-resolve its own target on every attempt. On a
// classified transient failure it sleeps one poll interval and tries again
// until the deadline; a fatal failure propagates immediately and unwrapped.
// When the deadline is exhausted the last transient failure is surfaced
// wrapped in a *schemas.TimeoutError.
//
// Attempts are strictly sequential; the poll sleep is the only place this
// suspends, and it honors ctx cancellation.
func withRetry(ctx context.Context, logger *zap.Logger, p Policy, target string, op func(context.Context) error) error {
	p = p.withDefaults()
	start := time.Now()
	deadline := start.Add(p.Timeout)

	var last error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Debug("operation succeeded after retry",
					zap.String("target", target),
					zap.Int("attempts", attempt),
					zap.Duration("elapsed", time.Since(start)))
			}
			return nil
		}
		if !schemas.IsTransient(err) {
			return err
		}
		last = err

		logger.Debug("transient failure, polling",
			zap.String("target", target),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if !time.Now().Add(p.PollInterval).Before(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.PollInterval):
		}
	}

	return &schemas.TimeoutError{
		Target:  target,
		Elapsed: time.Since(start),
		Last:    last,
	}
}
