package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minuteman-notes/minuteman/internal/common"
)

// retryingClient wraps a backend with bounded retries. Only transport
// failures and malformed responses retry; a well-formed response is
// final even when its content is disappointing.
type retryingClient struct {
	inner Client
	opts  common.RetryOptions
}

// WithRetries wraps client so Classify and Extract survive transient
// backend failures. maxRetries counts retries after the first attempt.
func WithRetries(client Client, maxRetries int, delay time.Duration) Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if delay <= 0 {
		delay = time.Second
	}
	return &retryingClient{
		inner: client,
		opts: common.RetryOptions{
			MaxAttempts:  maxRetries + 1,
			InitialDelay: delay,
		},
	}
}

func (r *retryingClient) Classify(ctx context.Context, req ClassifyRequest) (ClassifyResponse, error) {
	var resp ClassifyResponse
	err := common.WithRetry(ctx, func() error {
		var callErr error
		resp, callErr = r.inner.Classify(ctx, req)
		return markRetryable(callErr)
	}, r.opts)
	if err != nil {
		return ClassifyResponse{}, finalError("classify", err)
	}
	return resp, nil
}

func (r *retryingClient) Extract(ctx context.Context, req ExtractRequest) (ExtractResponse, error) {
	var resp ExtractResponse
	err := common.WithRetry(ctx, func() error {
		var callErr error
		resp, callErr = r.inner.Extract(ctx, req)
		return markRetryable(callErr)
	}, r.opts)
	if err != nil {
		return ExtractResponse{}, finalError("extract", err)
	}
	return resp, nil
}

func (r *retryingClient) HealthCheck(ctx context.Context) error {
	return r.inner.HealthCheck(ctx)
}

func (r *retryingClient) ModelName() string {
	return r.inner.ModelName()
}

// markRetryable classifies a backend error for the retry loop. Transport
// failures and malformed responses are worth another attempt; anything
// else fails immediately.
func markRetryable(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrBackendUnavailable) || errors.Is(err, common.ErrMalformedResponse) {
		return &common.RetryableError{Err: err, Retryable: true}
	}
	return &common.RetryableError{Err: err, Retryable: false}
}

// finalError normalizes retry exhaustion so callers can treat the backend
// as unavailable and degrade.
func finalError(op string, err error) error {
	if errors.Is(err, common.ErrMaxRetries) {
		return fmt.Errorf("%s: %w: %v", op, common.ErrBackendUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
