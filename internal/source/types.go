package source

// Export file formats recognized by the scanner.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// RawSubscription is one record as it appears in an export file. Exports from
// older app versions use start_date and is_active instead of anchor_date and
// active, so both spellings are accepted. Cost and the active flags are
// pointers to distinguish absent fields from zero values.
type RawSubscription struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Cost       *float64 `json:"cost"`
	Cycle      string   `json:"billing_cycle"`
	Category   string   `json:"category"`
	AnchorDate string   `json:"anchor_date"`
	Active     *bool    `json:"active"`
	Notes      string   `json:"notes"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`

	// Older export fields.
	StartDate string `json:"start_date"`
	IsActive  *bool  `json:"is_active"`
}

// DiscoveredFile represents an export file found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Label  string // short source label derived from the filename
	Format string // FormatJSON or FormatJSONL
}
