package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retry runs f up to attempts times, doubling the wait after each failure
// (base, 2*base, 4*base, ...). There is no wait after the final attempt.
// fatal errors stop the loop immediately. The last error is returned.
func retry(ctx context.Context, log logrus.FieldLogger, attempts int, base time.Duration, sleep SleepFunc,
	fatal func(error) bool, f func() error) error {
	var lastErr error
	delay := base
	for i := 0; i < attempts; i++ {
		err := f()
		if err == nil {
			return nil
		}
		lastErr = err
		if fatal != nil && fatal(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.WithError(err).WithField("attempt", i+1).Warn("attempt failed")
		if i < attempts-1 {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay *= 2
		}
	}
	return lastErr
}
