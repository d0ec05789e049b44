package incident

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Legacy ids (INC-######) are still accepted on lookup.
var idPattern = regexp.MustCompile(`^(\d{8}-[A-F0-9]{4}|INC-\d{6})$`)

// NewID builds an incident id from the incident date (YYYY-MM-DD) and two
// random bytes, e.g. 20240301-9F0C.
func NewID(date string) (string, error) {
	var b [2]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}

	return strings.ReplaceAll(date, "-", "") + "-" + strings.ToUpper(hex.EncodeToString(b[:])), nil
}

// ValidID reports whether id has a recognised incident id shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}
