package resolve

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxtlistan-service/internal/catalog"
)

// countingStore records how often each lookup path runs.
type countingStore struct {
	catalog.Store
	exactCalls   int
	similarCalls int
}

func (c *countingStore) FindExact(ctx context.Context, name string, includeSynonyms bool) (*catalog.Entry, error) {
	c.exactCalls++
	return c.Store.FindExact(ctx, name, includeSynonyms)
}

func (c *countingStore) Similar(ctx context.Context, name string, opt catalog.SimilarOptions) ([]catalog.Scored, error) {
	c.similarCalls++
	return c.Store.Similar(ctx, name, opt)
}

func TestResolveExactShortCircuitsFuzzy(t *testing.T) {
	store := &countingStore{Store: testStore()}
	r := NewResolver(store, DefaultParams(), zerolog.Nop())

	res, err := r.Resolve(context.Background(), "acer palmatum", ResolveOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.Entry)
	assert.Equal(t, int64(1), res.Entry.ID)
	assert.Empty(t, res.Suggestions)
	assert.Zero(t, store.similarCalls, "fuzzy must not run after an exact hit")
}

func TestResolveTypoGetsSingleSuggestion(t *testing.T) {
	r := NewResolver(testStore(), DefaultParams(), zerolog.Nop())

	res, err := r.Resolve(context.Background(), "Acer palmatun", ResolveOptions{})
	require.NoError(t, err)
	assert.Nil(t, res.Entry)
	require.Len(t, res.Suggestions, 1, "an excellent fuzzy match suppresses alternatives")
	assert.Equal(t, int64(1), res.Suggestions[0].Entry.ID)
	assert.GreaterOrEqual(t, res.Suggestions[0].Score, 0.85)
}

func TestResolveEmptyAndTinyInputs(t *testing.T) {
	store := &countingStore{Store: testStore()}
	r := NewResolver(store, DefaultParams(), zerolog.Nop())

	for _, in := range []string{"", "   ", "\"\""} {
		res, err := r.Resolve(context.Background(), in, ResolveOptions{})
		require.NoError(t, err)
		assert.Nil(t, res.Entry)
		assert.Empty(t, res.Suggestions)
	}
	assert.Zero(t, store.exactCalls, "empty input performs no lookups")

	// too short for fuzzy but long enough for exact
	res, err := r.Resolve(context.Background(), "ace", ResolveOptions{})
	require.NoError(t, err)
	assert.Nil(t, res.Entry)
	assert.Empty(t, res.Suggestions)
	assert.Zero(t, store.similarCalls)
}

func TestResolveNormalizedEcho(t *testing.T) {
	r := NewResolver(testStore(), DefaultParams(), zerolog.Nop())
	res, err := r.Resolve(context.Background(), "  acer   PALMATUM ", ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Acer Palmatum", res.Normalized)
}
