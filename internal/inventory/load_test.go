package inventory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	csv := "Facit ID;Plantskola ID;Namn;Pris;Antal;Dold\n" +
		"1;10;Acer palmatum;249,00;5;\n" +
		"2;10;Sorbus aucuparia;99;;ja\n" + // blank count defaults to 1
		";10;utan referens;50;2;\n" // no catalog reference, skipped
	path := filepath.Join(t.TempDir(), "lager.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	s := NewMemStore()
	n, err := LoadFile(context.Background(), path, s)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	aggs, err := s.Aggregate(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, aggs, 2)
	assert.Equal(t, 5, aggs[1].AvailableCount)
	assert.Equal(t, []float64{249}, aggs[1].Prices)
	assert.Equal(t, 1, aggs[2].AvailableCount)

	visible, err := s.Aggregate(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, visible, 1, "the hidden row stays out of the public join")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(context.Background(), "/nonexistent/lager.csv", NewMemStore())
	assert.Error(t, err)
}
