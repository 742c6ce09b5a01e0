package activity

import (
	"strconv"
	"strings"
)

// ParseCompletion normalizes a completion cell into an integer percentage.
// Numeric cells use fractional semantics below one (0.2 means 20%) and are
// taken verbatim above it (45 means 45%). Text cells either carry an explicit
// percent sign, which is stripped, or a bare number that is treated as a
// fraction. Anything unparseable is 0; this never fails.
func ParseCompletion(raw string, isText bool) int {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0
	}

	if isText {
		if strings.Contains(s, "%") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(s, "%", "")))
			if err != nil {
				return 0
			}
			return n
		}
		if !isNumericText(s) {
			return 0
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return int(v * 100)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if v <= 1 {
		return int(v * 100)
	}
	return int(v)
}

// isNumericText reports whether s is digits with at most decimal points,
// mirroring the "strip the dot, check digits" rule the workbook contract uses.
func isNumericText(s string) bool {
	stripped := strings.ReplaceAll(s, ".", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
