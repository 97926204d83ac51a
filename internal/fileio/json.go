package fileio

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// readJSON reads an array of flat objects; values are coerced to strings
// so the import pipeline sees the same shape as spreadsheet rows. Nested
// values are rejected rather than silently flattened.
func readJSON(r io.Reader) ([]map[string]string, error) {
	var raw []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	out := make([]map[string]string, 0, len(raw))
	for i, rec := range raw {
		m := make(map[string]string, len(rec))
		empty := true
		for k, v := range rec {
			s, err := coerce(v)
			if err != nil {
				return nil, fmt.Errorf("json: row %d, field %q: %w", i+1, k, err)
			}
			m[k] = s
			if s != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out, nil
}

func coerce(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
