package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *MemStore {
	s := NewMemStore()
	s.Load([]*Entry{
		{ID: 1, Name: "Acer palmatum", Popularity: 80},
		{ID: 2, Name: "Acer palmatum 'Osakazuki'"},
		{ID: 3, Name: "Sorbus aucuparia"},
		{ID: 4, Name: "Crataegus monogyna"},
		{ID: 5, Name: "Crataegus oxyacantha", SynonymOf: 4},
		{ID: 6, Name: "Prunus 'Höstglöd'"},
	})
	return s
}

func TestMemStoreFindExactFolding(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	e, err := s.FindExact(ctx, "ACER PALMATUM", false)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, int64(1), e.ID)

	e, err = s.FindExact(ctx, "prunus 'hostglod'", false)
	require.NoError(t, err)
	require.NotNil(t, e, "accent-insensitive lookup")
	assert.Equal(t, int64(6), e.ID)

	e, err = s.FindExact(ctx, "Rosa rugosa", false)
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestMemStoreSynonymLinking(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	// the accepted entry gained the forward list at load time
	accepted, err := s.ByID(ctx, 4)
	require.NoError(t, err)
	assert.Contains(t, accepted.Synonyms, "Crataegus oxyacantha")

	e, err := s.FindExact(ctx, "crataegus oxyacantha", false)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, int64(4), e.ID, "synonym name resolves to accepted entry")

	e, err = s.FindExact(ctx, "crataegus oxyacantha", true)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, int64(5), e.ID, "import mode keeps the synonym row")
}

func TestMemStoreFindPrefix(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	e, err := s.FindPrefix(ctx, "sorbus aucup", 15, false)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, int64(3), e.ID)

	e, err = s.FindPrefix(ctx, "acer palmatum 'o", 5, false)
	require.NoError(t, err)
	assert.Nil(t, e, "the cultivar name is too much longer than the query")

	e, err = s.FindPrefix(ctx, "acer palmatum 'o", 15, false)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, int64(2), e.ID)

	e, err = s.FindPrefix(ctx, "acer palmatum", 15, false)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, int64(1), e.ID, "zero excess beats the longer cultivar name")
}

func TestMemStoreSimilar(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	t.Run("typo scores high", func(t *testing.T) {
		out, err := s.Similar(ctx, "acer palmatun", SimilarOptions{Threshold: 0.4, Limit: 10})
		require.NoError(t, err)
		require.NotEmpty(t, out)
		assert.Equal(t, int64(1), out[0].Entry.ID)
		assert.GreaterOrEqual(t, out[0].Score, 0.85)
	})
	t.Run("token order does not matter", func(t *testing.T) {
		out, err := s.Similar(ctx, "palmatum acer", SimilarOptions{Threshold: 0.8, Limit: 10})
		require.NoError(t, err)
		require.NotEmpty(t, out)
		assert.Equal(t, int64(1), out[0].Entry.ID)
	})
	t.Run("restrict filters targets", func(t *testing.T) {
		out, err := s.Similar(ctx, "acer palmatun", SimilarOptions{Threshold: 0.4, Limit: 10, Restrict: map[int64]struct{}{2: {}}})
		require.NoError(t, err)
		for _, sc := range out {
			assert.Equal(t, int64(2), sc.Entry.ID)
		}
	})
	t.Run("synonyms map to accepted entry", func(t *testing.T) {
		out, err := s.Similar(ctx, "crataegus oxyacanta", SimilarOptions{Threshold: 0.4, Limit: 10})
		require.NoError(t, err)
		require.NotEmpty(t, out)
		for _, sc := range out {
			assert.False(t, sc.Entry.IsSynonym())
		}
	})
	t.Run("disabled index reports unavailable", func(t *testing.T) {
		s.SetIndexEnabled(false)
		defer s.SetIndexEnabled(true)
		_, err := s.Similar(ctx, "acer palmatun", SimilarOptions{Threshold: 0.4, Limit: 10})
		assert.ErrorIs(t, err, ErrIndexUnavailable)
	})
}

func TestMemStoreForEachStops(t *testing.T) {
	s := seeded()
	n := 0
	err := s.ForEach(context.Background(), func(*Entry) bool {
		n++
		return n < 3
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
