// Package executor wraps a single outbound call with a bounded-time,
// bounded-retry execution contract.
package executor

import (
	"context"
	"errors"
	"time"

	"github.com/craftly/craftd/internal/observability/metrics"
	"github.com/craftly/craftd/internal/resilience/apperr"
)

// Policy defines retry behavior for one call site.
type Policy struct {
	MaxRetries      int           // retries after the first attempt; 0 = single attempt
	InitialDelay    time.Duration // wait between attempts
	Timeout         time.Duration // per-attempt time budget
	BackoffMultiple float64       // 0 or 1 = fixed delay
	MaxDelay        time.Duration // cap when BackoffMultiple > 1; 0 = no cap
}

// DefaultPolicy provides sensible defaults for cheap calls.
var DefaultPolicy = Policy{
	MaxRetries:      2,
	InitialDelay:    500 * time.Millisecond,
	Timeout:         10 * time.Second,
	BackoffMultiple: 1.0,
}

// Validate rejects policies that would loop or never complete.
func (p Policy) Validate() error {
	if p.MaxRetries < 0 {
		return apperr.Config("retry policy: maxRetries must be >= 0")
	}
	if p.Timeout <= 0 {
		return apperr.Config("retry policy: timeout must be positive")
	}
	return nil
}

func (p Policy) delay(attempt int) time.Duration {
	d := p.InitialDelay
	if p.BackoffMultiple > 1 {
		for i := 0; i < attempt; i++ {
			d = time.Duration(float64(d) * p.BackoffMultiple)
			if p.MaxDelay > 0 && d >= p.MaxDelay {
				return p.MaxDelay
			}
		}
	}
	return d
}

type result[T any] struct {
	val T
	err error
}

// Execute runs op under the policy: up to MaxRetries+1 sequential attempts,
// each raced against Policy.Timeout. The per-attempt context is passed into
// op so transports that honor cancellation abort at the network level; the
// executor stops waiting at the timeout boundary either way.
//
// A timeout is classified as an EXTERNAL_API_ERROR naming the elapsed bound.
// Non-retryable taxonomy errors abort immediately. The error from the final
// attempt propagates to the caller unchanged.
func Execute[T any](ctx context.Context, policy Policy, service string, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := policy.Validate(); err != nil {
		return zero, err
	}

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.RetriesTotal.WithLabelValues(service).Inc()
		}

		val, err := runAttempt(ctx, policy.Timeout, service, op)
		if err == nil {
			return val, nil
		}
		if ctx.Err() != nil {
			// Caller gave up; do not burn further attempts.
			return zero, apperr.ExternalAPI(service, ctx.Err())
		}

		lastErr = err
		metrics.ExternalErrorsTotal.WithLabelValues(service, string(apperr.From(err).Code)).Inc()

		if !apperr.Retryable(err) {
			return zero, err
		}
		if attempt == policy.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return zero, apperr.ExternalAPI(service, ctx.Err())
		case <-time.After(policy.delay(attempt)):
		}
	}

	return zero, classify(service, lastErr)
}

// classify tags an untyped transport error as an external failure while
// keeping its message intact. Taxonomy errors pass through unchanged.
func classify(service string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.ExternalAPI(service, err)
}

// runAttempt races op against the timeout. The op goroutine writes to a
// buffered channel so an abandoned attempt cannot leak on send.
func runAttempt[T any](ctx context.Context, timeout time.Duration, service string, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	metrics.ExternalCallsTotal.WithLabelValues(service).Inc()
	start := time.Now()

	ch := make(chan result[T], 1)
	go func() {
		val, err := op(attemptCtx)
		ch <- result[T]{val: val, err: err}
	}()

	select {
	case res := <-ch:
		metrics.ExternalCallLatency.WithLabelValues(service).Observe(time.Since(start).Seconds())
		return res.val, res.err
	case <-attemptCtx.Done():
		metrics.ExternalCallLatency.WithLabelValues(service).Observe(time.Since(start).Seconds())
		if ctx.Err() != nil {
			return zero, apperr.ExternalAPI(service, ctx.Err())
		}
		return zero, apperr.Timeout(service, timeout)
	}
}
