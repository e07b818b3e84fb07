package client

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// backoff yields the wait before each retry, growing by factor.
type backoff struct {
	next   time.Duration
	factor float64
}

func (b *backoff) wait(ctx context.Context) error {
	t := time.NewTimer(b.next)
	defer t.Stop()
	b.next = time.Duration(float64(b.next) * b.factor)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// callWithRetry runs fn with a per-attempt timeout, retrying transient
// failures up to MaxRetries times.
func (c *Client) callWithRetry(ctx context.Context, operation string, fn func(context.Context) error) error {
	b := backoff{next: c.config.RetryDelay, factor: c.config.BackoffFactor}
	attempts := max(c.config.MaxRetries+1, 1)

	var err error
	for attempt := 1; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		err = fn(callCtx)
		cancel()

		if !isRetryableError(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		log.WithFields(log.Fields{
			"op":      operation,
			"attempt": attempt,
			"delay":   b.next,
		}).WithError(err).Debug("Retrying admin call")
		if werr := b.wait(ctx); werr != nil {
			return werr
		}
	}

	// Keep the status code so StatusToError can classify it.
	return status.Errorf(
		status.Code(err),
		"%s failed after %d attempts: %s",
		operation,
		attempts,
		status.Convert(err).Message(),
	)
}

// isRetryableError reports whether err is a transient server-side
// condition. Context errors and nil are never retried.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	s, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch s.Code() {
	case codes.Unavailable, codes.ResourceExhausted, codes.Aborted:
		return true
	}
	return false
}
