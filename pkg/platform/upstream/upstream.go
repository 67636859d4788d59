// Package upstream centralizes the failure taxonomy and retry policy shared
// by every external HTTP client (archive, task queue, authorization,
// practitioner registry).
//
// Taxonomy:
//   - 401/403 translate to a forbidden domain error (never retried)
//   - 404 wraps sentinel.ErrNotFound
//   - 409 wraps sentinel.ErrConflict (callers usually treat it as convergence)
//   - other 4xx become upstream_client_error: fatal, data or config problem
//   - 5xx and transport errors become unavailable: retried with capped
//     exponential backoff, then surfaced retryable
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
)

// Policy configures the capped exponential backoff for transient failures.
// OnRetry, when set, is called once per retried attempt (metrics hook).
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	OnRetry         func(err error)
}

// DefaultPolicy mirrors the production defaults; tests shrink the intervals.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     4,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// ErrorFromStatus maps a non-2xx response to the shared taxonomy.
// Returns nil for 2xx.
func ErrorFromStatus(system string, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return dErrors.Newf(dErrors.CodeForbidden, "%s denied access", system)
	case status == http.StatusNotFound:
		return fmt.Errorf("%s returned 404: %w", system, sentinel.ErrNotFound)
	case status == http.StatusConflict:
		return fmt.Errorf("%s returned 409: %w", system, sentinel.ErrConflict)
	case status >= 400 && status < 500:
		return dErrors.Newf(dErrors.CodeUpstreamClient, "%s rejected the request with status %d", system, status)
	default:
		return dErrors.Newf(dErrors.CodeUnavailable, "%s responded with status %d", system, status)
	}
}

// IsTransient reports whether the error may be retried.
func IsTransient(err error) bool {
	return dErrors.HasCode(err, dErrors.CodeUnavailable)
}

// Retry runs op under the policy, retrying only transient failures. The last
// error is returned once the attempt budget is spent or op fails permanently.
func Retry(ctx context.Context, policy Policy, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.InitialInterval
	bo.MaxInterval = policy.MaxInterval
	bo.MaxElapsedTime = 0 // attempt count caps the retries, not wall time

	attempts := uint64(1)
	if policy.MaxAttempts > 1 {
		attempts = uint64(policy.MaxAttempts)
	}

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, _ time.Duration) {
		if policy.OnRetry != nil {
			policy.OnRetry(err)
		}
	}
	return backoff.RetryNotify(wrapped, backoff.WithMaxRetries(backoff.WithContext(bo, ctx), attempts-1), notify)
}

// Drain discards and closes a response body so the transport can reuse the
// connection.
func Drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}

// WrapTransport converts a transport-level error into the transient class.
func WrapTransport(system string, err error) error {
	if err == nil {
		return nil
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("%s unreachable", system))
}
