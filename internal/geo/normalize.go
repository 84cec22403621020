package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrConversionFailed marks a component that could not be read as a number
	// or whose minutes/seconds are out of their sexagesimal range.
	ErrConversionFailed = errors.New(string(TagConversionFailed))
	// ErrInvalidRange marks a value outside the bounds of its axis.
	ErrInvalidRange = errors.New(string(TagInvalidRange))
)

// TagOf maps a normalization error to its taxonomy tag.
func TagOf(err error) ErrorTag {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRange):
		return TagInvalidRange
	default:
		return TagConversionFailed
	}
}

// Axis is latitude or longitude.
type Axis int

const (
	Latitude Axis = iota
	Longitude
)

func (a Axis) String() string {
	if a == Latitude {
		return "latitude"
	}
	return "longitude"
}

// Limit is the absolute bound of the axis in degrees.
func (a Axis) Limit() float64 {
	if a == Latitude {
		return 90
	}
	return 180
}

// Hemisphere is a direction marker normalized to N, S, E or W.
type Hemisphere rune

const (
	NoHemisphere Hemisphere = 0
	North        Hemisphere = 'N'
	South        Hemisphere = 'S'
	East         Hemisphere = 'E'
	West         Hemisphere = 'W'
)

// ParseHemisphere accepts Latin N/S/E/W and Cyrillic С/Ю/В/З in any case.
// An empty string yields NoHemisphere without error.
func ParseHemisphere(s string) (Hemisphere, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoHemisphere, nil
	}

	runes := []rune(s)
	if len(runes) != 1 {
		return NoHemisphere, fmt.Errorf("hemisphere %q: %w", s, ErrConversionFailed)
	}

	switch unicode.ToUpper(runes[0]) {
	case 'N', 'С':
		return North, nil
	case 'S', 'Ю':
		return South, nil
	case 'E', 'В':
		return East, nil
	case 'W', 'З':
		return West, nil
	}
	return NoHemisphere, fmt.Errorf("hemisphere %q: %w", s, ErrConversionFailed)
}

// Axis returns the axis the hemisphere belongs to.
func (h Hemisphere) Axis() Axis {
	if h == East || h == West {
		return Longitude
	}
	return Latitude
}

// Negative reports whether the hemisphere flips the sign.
func (h Hemisphere) Negative() bool {
	return h == South || h == West
}

// ParseNumber reads a decimal number with either comma or period separator.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty number: %w", ErrConversionFailed)
	}

	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("number %q: %w", s, ErrConversionFailed)
	}
	return v, nil
}

// DMSToDecimal combines sexagesimal components into decimal degrees.
func DMSToDecimal(deg, minutes, seconds float64) float64 {
	return deg + minutes/60 + seconds/3600
}

// Component is one raw axis token split into its textual parts.
// Min and Sec are empty for notations that do not carry them.
type Component struct {
	Deg        string
	Min        string
	Sec        string
	Hemisphere Hemisphere
}

// Normalize converts a component into signed decimal degrees for axis.
//
// The sign of Deg is kept unless a hemisphere is present, in which case
// the hemisphere decides. The value is returned together with
// ErrInvalidRange when it exceeds the axis bounds, so callers can still
// report what was read.
func Normalize(c Component, axis Axis) (float64, error) {
	deg, err := ParseNumber(c.Deg)
	if err != nil {
		return 0, fmt.Errorf("%s degrees: %w", axis, err)
	}

	negative := strings.HasPrefix(strings.TrimSpace(c.Deg), "-")
	value := math.Abs(deg)

	if c.Min != "" || c.Sec != "" {
		var minutes, seconds float64
		if c.Min != "" {
			if minutes, err = sexagesimal(c.Min); err != nil {
				return 0, fmt.Errorf("%s minutes: %w", axis, err)
			}
		}
		if c.Sec != "" {
			if seconds, err = sexagesimal(c.Sec); err != nil {
				return 0, fmt.Errorf("%s seconds: %w", axis, err)
			}
		}
		value = DMSToDecimal(value, minutes, seconds)
	}

	if c.Hemisphere != NoHemisphere {
		if c.Hemisphere.Axis() != axis {
			return 0, fmt.Errorf("hemisphere %c on %s: %w", c.Hemisphere, axis, ErrConversionFailed)
		}
		negative = c.Hemisphere.Negative()
	}

	if negative {
		value = -value
	}

	if math.Abs(value) > axis.Limit() {
		return value, fmt.Errorf("%s %.6f: %w", axis, value, ErrInvalidRange)
	}

	return value, nil
}

// sexagesimal parses a minutes or seconds field, which must be in [0, 60).
func sexagesimal(s string) (float64, error) {
	v, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= 60 {
		return 0, fmt.Errorf("%q not below 60: %w", s, ErrConversionFailed)
	}
	return v, nil
}

// InRange reports whether lat and lon are inside their axis bounds.
func InRange(lat, lon float64) bool {
	return math.Abs(lat) <= Latitude.Limit() && math.Abs(lon) <= Longitude.Limit()
}
