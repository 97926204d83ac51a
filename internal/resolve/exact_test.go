package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxtlistan-service/internal/catalog"
)

func testStore() *catalog.MemStore {
	s := catalog.NewMemStore()
	s.Load([]*catalog.Entry{
		{ID: 1, Name: "Acer palmatum", CommonName: "japansk lönn", Popularity: 80},
		{ID: 2, Name: "Acer palmatum 'Osakazuki'", Popularity: 40},
		{ID: 3, Name: "Sorbus aucuparia", CommonName: "rönn", Popularity: 60},
		{ID: 4, Name: "Crataegus monogyna", CommonName: "trubbhagtorn", Popularity: 30},
		{ID: 5, Name: "Betula pendula carelica", Popularity: 20},
		{ID: 6, Name: "Crataegus oxyacantha", SynonymOf: 4},
		{ID: 7, Name: "Lavandula angustifolia 'Hidcote'", Popularity: 70},
		{ID: 8, Name: "Erythronium dens-canis", Popularity: 10},
	})
	return s
}

func TestMatchExactEquality(t *testing.T) {
	store := testStore()
	p := DefaultParams()
	ctx := context.Background()

	tests := []struct {
		name   string
		input  string
		wantID int64
	}{
		{"case insensitive", "acer palmatum", 1},
		{"normalized case", Normalize("ACER PALMATUM"), 1},
		{"accent insensitive", "erythrónium dens-canis", 8},
		{"cultivar with quotes", "Acer Palmatum 'Osakazuki'", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, strategy, err := MatchExact(ctx, store, tt.input, p, ExactOptions{})
			require.NoError(t, err)
			require.NotNil(t, e)
			assert.Equal(t, tt.wantID, e.ID)
			assert.Equal(t, catalog.StrategyExact, strategy)
		})
	}
}

func TestMatchExactVariants(t *testing.T) {
	store := testStore()
	p := DefaultParams()
	ctx := context.Background()

	t.Run("qualifier stripped", func(t *testing.T) {
		e, strategy, err := MatchExact(ctx, store, "Betula Pendula Var. Carelica", p, ExactOptions{})
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, int64(5), e.ID)
		assert.Equal(t, catalog.StrategyVariant, strategy)
	})
	t.Run("missing cultivar quotes", func(t *testing.T) {
		e, _, err := MatchExact(ctx, store, "Acer Palmatum Osakazuki", p, ExactOptions{})
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, int64(2), e.ID)
	})
	t.Run("typo is not a variant", func(t *testing.T) {
		e, _, err := MatchExact(ctx, store, "Acer Palmatun", p, ExactOptions{})
		require.NoError(t, err)
		assert.Nil(t, e)
	})
}

func TestMatchExactPrefix(t *testing.T) {
	store := testStore()
	p := DefaultParams()
	ctx := context.Background()

	t.Run("genus plus species fragment", func(t *testing.T) {
		e, strategy, err := MatchExact(ctx, store, "Sorbus Aucupar", p, ExactOptions{})
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, int64(3), e.ID)
		assert.Equal(t, catalog.StrategyVariant, strategy)
	})
	t.Run("single fragment never prefix-matches", func(t *testing.T) {
		e, _, err := MatchExact(ctx, store, "Sorbus", p, ExactOptions{})
		require.NoError(t, err)
		assert.Nil(t, e)
	})
	t.Run("short input never prefix-matches", func(t *testing.T) {
		e, _, err := MatchExact(ctx, store, "So au", p, ExactOptions{})
		require.NoError(t, err)
		assert.Nil(t, e)
	})
	t.Run("excess length guard", func(t *testing.T) {
		// 'Lavandula angustifolia 'Hidcote'' is 17 runes longer than the input
		e, _, err := MatchExact(ctx, store, "Lavandula Angus", p, ExactOptions{})
		require.NoError(t, err)
		assert.Nil(t, e)
	})
}

func TestMatchExactSynonyms(t *testing.T) {
	store := testStore()
	p := DefaultParams()
	ctx := context.Background()

	t.Run("synonym name resolves to accepted entry", func(t *testing.T) {
		e, _, err := MatchExact(ctx, store, "Crataegus Oxyacantha", p, ExactOptions{})
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, int64(4), e.ID)
	})
	t.Run("import mode returns the synonym row itself", func(t *testing.T) {
		e, _, err := MatchExact(ctx, store, "Crataegus Oxyacantha", p, ExactOptions{IncludeSynonyms: true})
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, int64(6), e.ID)
		assert.Equal(t, int64(4), e.SynonymOf)
	})
}
