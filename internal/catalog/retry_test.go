package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails the first n calls of every operation.
type flakyStore struct {
	*MemStore
	failures int
	calls    int
	err      error
}

func (f *flakyStore) FindExact(ctx context.Context, name string, includeSynonyms bool) (*Entry, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.MemStore.FindExact(ctx, name, includeSynonyms)
}

func (f *flakyStore) Similar(ctx context.Context, name string, opt SimilarOptions) ([]Scored, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.MemStore.Similar(ctx, name, opt)
}

func TestRetryStoreRecovers(t *testing.T) {
	inner := &flakyStore{MemStore: seeded(), failures: 2, err: errors.New("transient")}
	s := WithRetry(inner, 3, time.Millisecond)

	e, err := s.FindExact(context.Background(), "acer palmatum", false)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryStoreGivesUp(t *testing.T) {
	boom := errors.New("still down")
	inner := &flakyStore{MemStore: seeded(), failures: 10, err: boom}
	s := WithRetry(inner, 3, time.Millisecond)

	_, err := s.FindExact(context.Background(), "acer palmatum", false)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryStoreDoesNotRetryIndexUnavailable(t *testing.T) {
	inner := &flakyStore{MemStore: seeded(), failures: 10, err: ErrIndexUnavailable}
	s := WithRetry(inner, 3, time.Millisecond)

	_, err := s.Similar(context.Background(), "acer palmatun", SimilarOptions{Threshold: 0.4})
	assert.ErrorIs(t, err, ErrIndexUnavailable)
	assert.Equal(t, 1, inner.calls, "the degraded path is not a transient failure")
}

func TestRetryStoreHonorsContext(t *testing.T) {
	inner := &flakyStore{MemStore: seeded(), failures: 10, err: errors.New("transient")}
	s := WithRetry(inner, 5, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.FindExact(ctx, "acer palmatum", false)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
