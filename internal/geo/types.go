// Package geo holds the coordinate data model, component normalization,
// set classification and GeoJSON export.
package geo

import (
	"encoding/json"
	"fmt"
)

// Format identifies the notation a coordinate was written in.
type Format int

const (
	Unknown     Format = iota
	Decimal            // 45.123 -122.456
	HemiDecimal        // N45.123 W122.456
	DegMin             // 51° 12.32' N
	DegMinSec          // 51° 12' 32.21″ N
	GoogleStyle        // 55.755831°, 37.617673°
)

var formatNames = [...]string{
	Unknown:     "Unknown",
	Decimal:     "Decimal",
	HemiDecimal: "HemiDecimal",
	DegMin:      "DegMin",
	DegMinSec:   "DegMinSec",
	GoogleStyle: "GoogleStyle",
}

// Formats lists every concrete notation, Unknown excluded.
var Formats = []Format{Decimal, HemiDecimal, DegMin, DegMinSec, GoogleStyle}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat resolves a format by name.
func ParseFormat(name string) (Format, error) {
	for i, n := range formatNames {
		if n == name {
			return Format(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown coordinate format %q", name)
}

// MarshalJSON encodes the format by name.
func (f Format) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON decodes a format name.
func (f *Format) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalText lets formats be used as YAML and JSON map keys.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes a format name from a map key.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// SetType is the topology of an ordered coordinate list.
type SetType int

const (
	Point SetType = iota
	Line
	ClosedPolygon
)

func (t SetType) String() string {
	switch t {
	case Point:
		return "Point"
	case Line:
		return "Line"
	case ClosedPolygon:
		return "ClosedPolygon"
	}
	return fmt.Sprintf("SetType(%d)", int(t))
}

// MarshalText encodes the set type by name.
func (t SetType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a set type name.
func (t *SetType) UnmarshalText(text []byte) error {
	for _, v := range []SetType{Point, Line, ClosedPolygon} {
		if v.String() == string(text) {
			*t = v
			return nil
		}
	}
	return fmt.Errorf("unknown set type %q", text)
}

// ErrorTag names a failure in the extraction taxonomy.
type ErrorTag string

const (
	TagNoMatch          ErrorTag = "no_match"
	TagOverlapRejected  ErrorTag = "overlap_rejected"
	TagConversionFailed ErrorTag = "conversion_failed"
	TagInvalidRange     ErrorTag = "invalid_range"
	TagBadRequest       ErrorTag = "bad_request"
	TagNotFound         ErrorTag = "not_found"
)

// Coordinate is a pair of signed decimal degrees.
// Valid implies both axes are inside their bounds.
type Coordinate struct {
	Lat    float64 `json:"lat" yaml:"lat"`
	Lon    float64 `json:"lon" yaml:"lon"`
	Format Format  `json:"format" yaml:"format"`
	Valid  bool    `json:"valid" yaml:"valid"`
}

// Metadata describes where and how a coordinate was found.
type Metadata struct {
	RawMatch string     `json:"raw_match" yaml:"raw_match"`
	Snippet  string     `json:"sentence_snippet" yaml:"sentence_snippet"`
	Label    string     `json:"label,omitempty" yaml:"label,omitempty"`
	Errors   []ErrorTag `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// AddError appends tag unless it is already present.
func (m *Metadata) AddError(tag ErrorTag) {
	for _, t := range m.Errors {
		if t == tag {
			return
		}
	}
	m.Errors = append(m.Errors, tag)
}

// Span is a byte range of the analysed text.
type Span struct {
	Offset int `json:"offset" yaml:"offset"`
	Length int `json:"length" yaml:"length"`
}

// End returns the exclusive end offset.
func (s Span) End() int {
	return s.Offset + s.Length
}

// Contains reports whether pos lies inside the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Offset && pos < s.End()
}

// Overlaps reports whether either span starts inside the other.
func (s Span) Overlaps(o Span) bool {
	return s.Offset < o.End() && o.Offset < s.End()
}

// Record is one accepted match.
type Record struct {
	Coordinate `yaml:",inline"`
	Metadata   `yaml:",inline"`
	Span       Span `json:"span" yaml:"span"`
}

// Set is the ordered result of one analysis.
type Set struct {
	Records []Record `json:"coords" yaml:"coords"`
	Type    SetType  `json:"set_type" yaml:"set_type"`
}
