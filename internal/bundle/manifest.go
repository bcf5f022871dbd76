package bundle

import "time"

// Entry is one verified copy in an install manifest.
type Entry struct {
	RelPath  string `json:"relative_path"`
	Source   string `json:"source_path"`
	Size     int64  `json:"size_bytes"`
	Checksum string `json:"checksum"`
}

// Manifest is the audit record of one install run: the resolved,
// deduplicated file set with per-file integrity tokens.
type Manifest struct {
	RunID           string    `json:"run_id"`
	BundleLID       string    `json:"bundle_lid"`
	BundleRoot      string    `json:"bundle_root"`
	DestinationRoot string    `json:"destination_root"`
	Algorithm       string    `json:"checksum_algorithm"`
	CreatedAt       time.Time `json:"created_at"`
	Entries         []Entry   `json:"entries"`
}

// TotalBytes sums the size of every copied file.
func (m *Manifest) TotalBytes() int64 {
	var total int64
	for _, e := range m.Entries {
		total += e.Size
	}
	return total
}
