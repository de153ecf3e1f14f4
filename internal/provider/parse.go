// Package provider contains parsing helpers shared by the upstream API
// clients.
//
// Upstream numeric fields arrive as formatted strings ("8.7", "1,234,567",
// "85%", "74/100") with "N/A" as the not-available sentinel. Every helper
// here degrades to nil on malformed input — a bad value must never become
// zero or an error further up the pipeline.
package provider

import (
	"math"
	"strconv"
	"strings"
)

// notAvailable is OMDb's sentinel for missing data.
const notAvailable = "N/A"

// FloatOrNil parses s as a float, returning nil for empty strings, the
// "N/A" sentinel, NaN/Inf, or malformed values.
func FloatOrNil(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == notAvailable {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// IntOrNil parses s as an integer after stripping thousands separators,
// returning nil for empty strings, the "N/A" sentinel, or malformed values.
func IntOrNil(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" || s == notAvailable {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

// PercentOrNil parses a "NN%" critic score, returning nil unless the result
// is an integer in [0,100].
func PercentOrNil(s string) *int {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
	if err != nil || n < 0 || n > 100 {
		return nil
	}
	return &n
}

// FractionOrNil parses the numerator of a "NN/100" critic score, returning
// nil unless the numerator is an integer in [0,100].
func FractionOrNil(s string) *int {
	num, _, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n < 0 || n > 100 {
		return nil
	}
	return &n
}

// YearOrNil extracts the year from a YYYY-MM-DD release date, returning nil
// when the date is absent or too short to carry one.
func YearOrNil(releaseDate string) *int {
	if len(releaseDate) < 4 {
		return nil
	}
	y, err := strconv.Atoi(releaseDate[:4])
	if err != nil || y <= 0 {
		return nil
	}
	return &y
}
