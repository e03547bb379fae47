package helpers

import (
	"regexp"
	"strconv"
	"strings"
)

// Leading float syntax, including exponents. Mirrors how upstream scraper
// values like "4.00 AUD" were parsed before this service existed.
var leadingFloatPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber converts loosely formatted market data fields like "20,776" or
// "$4.00" into a number. Accepts a string or an already-decoded JSON number.
// Malformed or missing values degrade to 0 so a single garbled field never
// blocks ingestion of its row.
func ParseNumber(val any) float64 {
	switch v := val.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		// Remove commas and dollar signs
		clean := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(v))
		prefix := leadingFloatPattern.FindString(clean)
		if prefix == "" {
			return 0
		}
		num, err := strconv.ParseFloat(prefix, 64)
		if err != nil {
			return 0
		}
		return num
	}
	return 0
}
