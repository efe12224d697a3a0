// Package gp converts coin amounts between raw integers and the
// human-readable magnitude strings used across the game economy
// ("1.50k", "2.34m", "1.00b").
package gp

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	thousand = 1_000
	million  = 1_000_000
	billion  = 1_000_000_000
)

// Format renders a coin amount with a k/m/b suffix. Amounts under a
// thousand are rendered as a grouped decimal with no suffix. Total over
// all integers; there is no error path.
func Format(value int64) string {
	switch {
	case value >= billion:
		return fmt.Sprintf("%.2fb", float64(value)/billion)
	case value >= million:
		return fmt.Sprintf("%.2fm", float64(value)/million)
	case value >= thousand:
		return fmt.Sprintf("%.2fk", float64(value)/thousand)
	default:
		return group(value)
	}
}

// Parse is the lenient inverse of Format. It strips thousands separators
// and whitespace, lower-cases, applies a trailing k/m/b multiplier and
// parses the remainder as a float. Unparseable input yields 0, never an
// error: upstream data occasionally carries empty or malformed price
// strings and a batch must not fail on one of them. Callers that need to
// tell zero from unparseable must pre-validate.
func Parse(text string) float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'k':
		multiplier = thousand
		s = s[:len(s)-1]
	case 'm':
		multiplier = million
		s = s[:len(s)-1]
	case 'b':
		multiplier = billion
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v * multiplier
}

// group renders v with comma thousands separators. Negative amounts keep
// their sign ahead of the first group.
func group(v int64) string {
	s := strconv.FormatInt(v, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
