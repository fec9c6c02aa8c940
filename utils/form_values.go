package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseOptionalFloat returns nil for empty or unparsable input. Both "37.5"
// and the pt-BR "37,5" are accepted.
func ParseOptionalFloat(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	// ParseFloat also takes hex floats and digit separators; a form never does.
	if strings.ContainsAny(s, "xXpP_") {
		return nil
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ResolvePassFlag combines the OK and NOK checkboxes into a tri-state flag.
// OK wins when both are ticked; neither ticked leaves the flag unset.
func ResolvePassFlag(okChecked, nokChecked bool) *bool {
	switch {
	case okChecked:
		v := true
		return &v
	case nokChecked:
		v := false
		return &v
	default:
		return nil
	}
}

// OptionalString returns nil for blank input.
func OptionalString(raw string, maxRunes int) *string {
	s := SanitizeInput(raw)
	if s == "" {
		return nil
	}
	s = TruncateRunes(s, maxRunes)
	return &s
}
