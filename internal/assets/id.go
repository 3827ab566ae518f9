package assets

import (
	"fmt"
	"path"
	"strings"
)

// IDWidth is the number of digits a Pokemon identifier is padded to.
const IDWidth = 3

// ParseID derives a Pokemon identifier from an image filename.
// "25.png", "025.png" and "025_pikachu.png" all map to "025".
func ParseID(filename string) string {
	base := path.Base(filename)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	if i := strings.Index(base, "_"); i >= 0 {
		base = base[:i]
	}
	return PadID(base)
}

// PadID left-pads id with zeros to IDWidth characters.
func PadID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) >= IDWidth {
		return id
	}
	return strings.Repeat("0", IDWidth-len(id)) + id
}

// FallbackName is the display name used for an identifier missing from the name table.
func FallbackName(id string) string {
	return fmt.Sprintf("Pokemon %s", id)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
