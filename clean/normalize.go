package clean

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches the first decimal or integer token in a field.
var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// Unknown is the sentinel for a numeric field that could not be parsed.
func Unknown() float64 { return math.NaN() }

// IsUnknown reports whether v is the unknown sentinel.
func IsUnknown(v float64) bool { return math.IsNaN(v) }

// ParseCurrency converts listing price text into rupees. It understands
// the Lac (1e5) and Crore (1e7) suffixes, strips the currency symbol and
// thousands separators, and returns Unknown for placeholder text such as
// "N/A" or "Call for Price". Total over all inputs, never fails.
func ParseCurrency(text string) float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" || strings.Contains(s, "n/a") || strings.Contains(s, "call for price") {
		return Unknown()
	}

	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, ",", "")

	multiplier := 1.0
	switch {
	case strings.Contains(s, "cr"): // covers "cr" and "crore"
		multiplier = 1e7
	case strings.Contains(s, "lac"), strings.Contains(s, "lakh"):
		multiplier = 1e5
	}

	token := numberPattern.FindString(s)
	if token == "" {
		return Unknown()
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return Unknown()
	}
	return v * multiplier
}

// ParseArea extracts a square-footage value from free text like
// "1,200 sqft". Returns Unknown when no numeric token is present.
func ParseArea(text string) float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return Unknown()
	}
	s = strings.ReplaceAll(s, ",", "")

	token := numberPattern.FindString(s)
	if token == "" {
		return Unknown()
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return Unknown()
	}
	return v
}
