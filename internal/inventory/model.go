package inventory

import (
	"strings"
	"unicode"
)

// Row is one nursery's claim to stock a catalog entry. FacitID must be a
// confirmed reference into the catalog before the row is persisted.
type Row struct {
	ID          string            `json:"id"`
	FacitID     int64             `json:"facitId"`
	NurseryID   int64             `json:"nurseryId"`
	DisplayName string            `json:"displayName,omitempty"`
	Comment     string            `json:"comment,omitempty"`
	Pot         string            `json:"pot,omitempty"`
	Height      string            `json:"height,omitempty"`
	Price       float64           `json:"price,omitempty"`
	Stock       int               `json:"stock"`
	Hidden      bool              `json:"hidden,omitempty"`
	// Extra carries nursery-defined key-value fields, validated for
	// display safety only.
	Extra map[string]string `json:"extra,omitempty"`
}

const maxExtraLen = 500

// SanitizeExtra keeps extension fields display-safe: control characters
// removed, values capped. Keys with empty sanitized values are dropped.
func SanitizeExtra(extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]string, len(extra))
	for k, v := range extra {
		k = sanitize(k)
		v = sanitize(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if len(s) > maxExtraLen {
		s = s[:maxExtraLen]
	}
	return s
}
