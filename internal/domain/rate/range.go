package rate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrMalformedRate = errors.New("malformed rate")

// MalformedRateError is returned when a suggested rate cannot be read cleanly. There is no implicit zero: callers pick a fallback with ParseOr.
type MalformedRateError struct {
	Raw string
}

func (e *MalformedRateError) Error() string {
	return fmt.Sprintf("malformed rate %q", e.Raw)
}

func (e *MalformedRateError) Is(target error) bool { return target == ErrMalformedRate }

// Range is a suggested monthly rate interval, in percent.
type Range struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// MaxPercent is the exclusive ceiling for a monthly rate.
const MaxPercent = 100.0

// reRate matches the whole normalized input: one number or two joined by a dash.
// A number may start with its decimal point (".5") but never with a sign.
var reRate = regexp.MustCompile(`^(\d*\.?\d+)(?:\s*-\s*(\d*\.?\d+))?$`)

// Parse reads "2.0", "2,0", "1.6-1.9" or "1,6 - 1,9%" into a Range. Anything
// else, including signs, stray dashes and bounds at or above MaxPercent, is a
// MalformedRateError.
func Parse(raw string) (Range, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, "–", "-")

	m := reRate.FindStringSubmatch(s)
	if m == nil {
		return Range{}, &MalformedRateError{Raw: raw}
	}
	lo, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Range{}, &MalformedRateError{Raw: raw}
	}
	r := Single(lo)
	if m[2] != "" {
		hi, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Range{}, &MalformedRateError{Raw: raw}
		}
		r = Between(lo, hi)
	}
	if r.Max >= MaxPercent {
		return Range{}, &MalformedRateError{Raw: raw}
	}
	return r, nil
}

// ParseOr parses raw and returns fallback when it is malformed.
func ParseOr(raw string, fallback Range) Range {
	r, err := Parse(raw)
	if err != nil {
		return fallback
	}
	return r
}

func Single(v float64) Range { return Range{Min: v, Max: v, Average: v} }

// Between orders its bounds so Min <= Max.
func Between(a, b float64) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Min: a, Max: b, Average: (a + b) / 2}
}

// Format renders r the way Parse reads it back.
func Format(r Range) string {
	if r.Min == r.Max {
		return formatNumber(r.Min)
	}
	return formatNumber(r.Min) + "-" + formatNumber(r.Max)
}

func (r Range) String() string { return Format(r) }

func (r Range) IsSingle() bool { return r.Min == r.Max }

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Clamp pulls v into [Min, Max].
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Fraction converts a percent rate (1.5) to the fraction the calculator takes (0.015).
func Fraction(percent float64) float64 { return percent / 100 }

func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
