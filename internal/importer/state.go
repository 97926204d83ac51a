package importer

import "errors"

// Status is the per-row resolution state during bulk import.
type Status string

const (
	StatusPending  Status = "pending"
	StatusFound    Status = "found"
	StatusNotFound Status = "notFound"
	StatusManual   Status = "manual"
	StatusSkip     Status = "skip"
)

var (
	ErrRowNotFound    = errors.New("importer: row not found")
	ErrBadTransition  = errors.New("importer: transition not allowed")
	ErrCommitInFlight = errors.New("importer: commit already in progress")
)

// Suggestion is one did-you-mean candidate attached to a row.
type Suggestion struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	CommonName string  `json:"commonName,omitempty"`
	Score      float64 `json:"score"`
}

// RowState tracks one uploaded data row from intake to commit.
type RowState struct {
	ID          string            `json:"id"`
	Raw         map[string]string `json:"raw"`
	Name        string            `json:"name"`      // value of the mapped name column
	Sanitized   string            `json:"sanitized"` // normalized name
	Status      Status            `json:"status"`
	ChosenID    int64             `json:"chosenId,omitempty"` // confirmed catalog id
	Suggestions []Suggestion      `json:"suggestions,omitempty"`
	Committed   bool              `json:"committed,omitempty"`
}

// Mapping names the uploaded columns the import consumes. NameKey is the
// only required one; the rest feed the inventory row on commit. Keys may
// list alternatives separated by "|".
type Mapping struct {
	NameKey    string `json:"nameKey"`
	PriceKey   string `json:"priceKey,omitempty"`
	StockKey   string `json:"stockKey,omitempty"`
	PotKey     string `json:"potKey,omitempty"`
	HeightKey  string `json:"heightKey,omitempty"`
	CommentKey string `json:"commentKey,omitempty"`
	HeaderRow  int    `json:"headerRow,omitempty"`
}

// Progress reports batch processing state to the caller.
type Progress struct {
	Batch     int    `json:"batch"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Current   string `json:"current"` // plant name being resolved
}
