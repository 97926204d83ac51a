package inventory

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vaxtlistan-service/internal/fileio"
)

// LoadFile seeds the store from a stock export (CSV, XLSX or JSON).
// Swedish or English headers both work: facit id, plantskola/nursery id,
// namn/name, pris/price, antal/stock, kruka/pot, höjd/height,
// kommentar/comment, dold/hidden. Rows without a catalog reference are
// skipped.
func LoadFile(ctx context.Context, path string, store Store) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("inventory: open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := fileio.ReadAnyMaps(f, path, 1)
	if err != nil {
		return 0, fmt.Errorf("inventory: read %s: %w", path, err)
	}

	loaded := 0
	for _, rec := range rows {
		get := func(want string) string {
			return strings.TrimSpace(rec[fileio.ResolveColumn(rec, want)])
		}
		facitID, ok := fileio.ParseIntSE(get("facit id|facitid|facit"))
		if !ok || facitID == 0 {
			continue
		}
		nurseryID, _ := fileio.ParseIntSE(get("plantskola id|plantskola|nursery id|nurseryid"))
		price, _ := fileio.ParseFloatSE(get("pris|price"))
		stock, ok := fileio.ParseIntSE(get("antal|lager|stock"))
		if !ok {
			stock = 1
		}
		row := Row{
			FacitID:     int64(facitID),
			NurseryID:   int64(nurseryID),
			DisplayName: get("namn|name"),
			Comment:     get("kommentar|comment"),
			Pot:         get("kruka|pot"),
			Height:      get("höjd|hojd|height"),
			Price:       price,
			Stock:       stock,
			Hidden:      isTruthy(get("dold|hidden")),
		}
		if _, err := store.Insert(ctx, row); err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "ja", "yes", "x":
		return true
	}
	return false
}
