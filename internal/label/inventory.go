package label

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// InventoryEntry is one row of a collection inventory: a membership flag
// and a lid or lid::vid reference.
type InventoryEntry struct {
	Primary bool
	LID     string
	VID     string
}

// ParseInventory reads a collection inventory in the two-column CSV form
// (member status, lidvid). Primary rows ("P") name labels that belong to
// the collection's own tree; secondary rows ("S") are recorded but point
// outside it.
func ParseInventory(r io.Reader) ([]InventoryEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var entries []InventoryEntry
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) != 2 {
			return nil, fmt.Errorf("inventory row %d has %d fields, want 2", line, len(row))
		}
		status := strings.TrimSpace(row[0])
		ref := strings.TrimSpace(row[1])
		if ref == "" {
			return nil, fmt.Errorf("inventory row %d has an empty reference", line)
		}
		var primary bool
		switch status {
		case "P":
			primary = true
		case "S":
			primary = false
		default:
			return nil, fmt.Errorf("inventory row %d has member status %q, want P or S", line, status)
		}
		lid, vid := SplitLIDVID(ref)
		entries = append(entries, InventoryEntry{Primary: primary, LID: lid, VID: vid})
	}
	return entries, nil
}

// LoadInventory reads and parses the inventory file at path.
func LoadInventory(path string) ([]InventoryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := ParseInventory(f)
	if err != nil {
		return nil, fmt.Errorf("parse inventory %s: %w", path, err)
	}
	return entries, nil
}
