package catalog

import (
	"context"
	"errors"
	"time"
)

// RetryStore decorates a Store with a bounded retry and doubling backoff
// against transient lookup failures. ErrIndexUnavailable, ErrNotFound and
// context errors are returned immediately, only genuine store failures
// retry.
type RetryStore struct {
	inner    Store
	attempts int
	backoff  time.Duration
}

func WithRetry(inner Store, attempts int, backoff time.Duration) *RetryStore {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryStore{inner: inner, attempts: attempts, backoff: backoff}
}

func retryable(err error) bool {
	return err != nil &&
		!errors.Is(err, ErrIndexUnavailable) &&
		!errors.Is(err, ErrNotFound) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func (r *RetryStore) do(ctx context.Context, op func() error) error {
	var err error
	wait := r.backoff
	for i := 0; i < r.attempts; i++ {
		if err = op(); !retryable(err) {
			return err
		}
		if i == r.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return err
}

func (r *RetryStore) ByID(ctx context.Context, id int64) (*Entry, error) {
	var e *Entry
	err := r.do(ctx, func() (err error) {
		e, err = r.inner.ByID(ctx, id)
		return
	})
	return e, err
}

func (r *RetryStore) FindExact(ctx context.Context, name string, includeSynonyms bool) (*Entry, error) {
	var e *Entry
	err := r.do(ctx, func() (err error) {
		e, err = r.inner.FindExact(ctx, name, includeSynonyms)
		return
	})
	return e, err
}

func (r *RetryStore) FindPrefix(ctx context.Context, name string, maxExcess int, includeSynonyms bool) (*Entry, error) {
	var e *Entry
	err := r.do(ctx, func() (err error) {
		e, err = r.inner.FindPrefix(ctx, name, maxExcess, includeSynonyms)
		return
	})
	return e, err
}

func (r *RetryStore) Similar(ctx context.Context, name string, opt SimilarOptions) ([]Scored, error) {
	var sc []Scored
	err := r.do(ctx, func() (err error) {
		sc, err = r.inner.Similar(ctx, name, opt)
		return
	})
	return sc, err
}

func (r *RetryStore) ForEach(ctx context.Context, fn func(*Entry) bool) error {
	return r.inner.ForEach(ctx, fn)
}
