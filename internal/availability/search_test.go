package availability

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxtlistan-service/internal/catalog"
	"vaxtlistan-service/internal/inventory"
	"vaxtlistan-service/internal/resolve"
)

func fixture(t *testing.T) (*Searcher, *inventory.MemStore) {
	t.Helper()
	store := catalog.NewMemStore()
	store.Load([]*catalog.Entry{
		{ID: 1, Name: "Acer palmatum", CommonName: "japansk lönn", Popularity: 80},
		{ID: 2, Name: "Sorbus aucuparia", CommonName: "rönn", Popularity: 95},
		{ID: 3, Name: "Crataegus monogyna", Popularity: 10},
		{ID: 4, Name: "Rosa rugosa", Popularity: 50},
	})
	stock := inventory.NewMemStore()
	ctx := context.Background()
	rows := []inventory.Row{
		{FacitID: 1, NurseryID: 100, Price: 249, Stock: 5},
		{FacitID: 1, NurseryID: 200, Price: 199, Stock: 2},
		{FacitID: 2, NurseryID: 100, Price: 99, Stock: 10},
		{FacitID: 3, NurseryID: 300, Price: 59, Stock: 1, Hidden: true},
		{FacitID: 4, NurseryID: 200, Price: 129, Stock: 0}, // sold out
	}
	for _, r := range rows {
		_, err := stock.Insert(ctx, r)
		require.NoError(t, err)
	}
	resolver := resolve.NewResolver(store, resolve.DefaultParams(), zerolog.Nop())
	return NewSearcher(store, stock, resolver, zerolog.Nop()), stock
}

func TestSearchEmptyQueryBrowses(t *testing.T) {
	s, _ := fixture(t)

	res, err := s.Search(context.Background(), "", Options{})
	require.NoError(t, err)
	// hidden and sold-out rows are excluded from the join
	assert.Equal(t, 2, res.TotalCount)
	require.Len(t, res.Results, 2)
	assert.Equal(t, int64(2), res.Results[0].Entry.ID, "default sort is popularity descending")
	assert.Equal(t, int64(1), res.Results[1].Entry.ID)
	assert.GreaterOrEqual(t, res.ElapsedMs, int64(0))
}

func TestSearchAggregates(t *testing.T) {
	s, _ := fixture(t)

	res, err := s.Search(context.Background(), "acer palmatum", Options{Sort: SortRelevance})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	p := res.Results[0]
	assert.Equal(t, int64(1), p.Entry.ID)
	assert.Equal(t, 7, p.AvailableCount)
	assert.Equal(t, 2, p.NurseryCount)
	assert.Equal(t, []float64{199, 249}, p.Prices)
	assert.InDelta(t, 1.0, p.Relevance, 1e-9)
}

func TestSearchTypoRestrictedToStock(t *testing.T) {
	s, _ := fixture(t)

	res, err := s.Search(context.Background(), "acer palmatun", Options{Sort: SortRelevance})
	require.NoError(t, err)
	require.NotEmpty(t, res.Results)
	assert.Equal(t, int64(1), res.Results[0].Entry.ID)

	// rosa rugosa is in the catalog but sold out everywhere
	res, err = s.Search(context.Background(), "rosa rugosa", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Zero(t, res.TotalCount)
}

func TestSearchIncludeHidden(t *testing.T) {
	s, _ := fixture(t)

	res, err := s.Search(context.Background(), "crataegus monogyna", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Results)

	res, err = s.Search(context.Background(), "crataegus monogyna", Options{IncludeHidden: true})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, int64(3), res.Results[0].Entry.ID)
}

func TestSearchSortKeys(t *testing.T) {
	s, _ := fixture(t)
	ctx := context.Background()

	res, err := s.Search(ctx, "", Options{Sort: SortNameAsc})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "Acer palmatum", res.Results[0].Entry.Name)

	res, err = s.Search(ctx, "", Options{Sort: SortNameDesc})
	require.NoError(t, err)
	assert.Equal(t, "Sorbus aucuparia", res.Results[0].Entry.Name)

	// relevance without a query falls back to popularity
	res, err = s.Search(ctx, "", Options{Sort: SortRelevance})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Results[0].Entry.ID)
}

func TestSearchPaging(t *testing.T) {
	s, _ := fixture(t)

	res, err := s.Search(context.Background(), "", Options{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, res.Results, 1)
	assert.Equal(t, 2, res.TotalCount, "totalCount covers the whole join, not the page")

	res, err = s.Search(context.Background(), "", Options{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, int64(1), res.Results[0].Entry.ID)

	res, err = s.Search(context.Background(), "", Options{Limit: 1, Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}

func TestSearchNegativePaging(t *testing.T) {
	s, _ := fixture(t)

	// query parameters come straight off the URL; garbage must not panic
	res, err := s.Search(context.Background(), "", Options{Limit: -3, Offset: -1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalCount)
	require.Len(t, res.Results, 2)
	assert.Equal(t, int64(2), res.Results[0].Entry.ID)
}
