package utils

import (
	"strconv"
	"strings"
)

// ToInt parses a sheet value as an integer, returning def when it is not one.
// Thousands separators and a trailing ".0" are tolerated.
func ToInt(val string, def int) int {
	s := strings.ReplaceAll(strings.TrimSpace(val), ",", "")
	if s == "" {
		return def
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}

// ToBool reports whether a sheet value is a checked box or an affirmative answer.
func ToBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "yes", "y", "1", "x":
		return true
	default:
		return false
	}
}

// JoinLines flattens a multi-line cell into one line joined with sep.
// Blank lines are dropped.
func JoinLines(val, sep string) string {
	lines := strings.Split(strings.ReplaceAll(val, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, sep)
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
