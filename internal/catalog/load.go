package catalog

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"vaxtlistan-service/internal/fileio"
)

// FileLoader reads the reference taxonomy from a CSV or XLSX export.
// Expected columns (Swedish or English headers both work): id, namn/name,
// svenskt namn/common name, synonym till/synonym of, typ/plant type,
// popularitet/popularity.
func FileLoader(path string) Loader {
	return func(ctx context.Context) ([]*Entry, error) {
		return loadFile(path)
	}
}

func loadFile(path string) ([]*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := fileio.ReadAnyMaps(f, path, 1)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	entries := make([]*Entry, 0, len(rows))
	for _, rec := range rows {
		idKey := fileio.ResolveColumn(rec, "id")
		nameKey := fileio.ResolveColumn(rec, "namn|name")
		commonKey := fileio.ResolveColumn(rec, "svenskt namn|common name|commonname")
		synKey := fileio.ResolveColumn(rec, "synonym till|synonym of|synonymof")
		typeKey := fileio.ResolveColumn(rec, "typ|plant type|planttype")
		popKey := fileio.ResolveColumn(rec, "popularitet|popularity")

		name := strings.TrimSpace(rec[nameKey])
		if name == "" {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rec[idKey]), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		e := &Entry{
			ID:         id,
			Name:       name,
			CommonName: strings.TrimSpace(rec[commonKey]),
			PlantType:  strings.TrimSpace(rec[typeKey]),
		}
		if v := strings.TrimSpace(rec[synKey]); v != "" {
			if syn, err := strconv.ParseInt(v, 10, 64); err == nil {
				e.SynonymOf = syn
			}
		}
		if v, ok := fileio.ParseFloatSE(rec[popKey]); ok {
			e.Popularity = v
		}
		entries = append(entries, e)
	}
	return entries, nil
}
