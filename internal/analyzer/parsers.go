package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/woozymasta/geotext/internal/geo"
)

// MatchContext locates one candidate inside the analysed text.
type MatchContext struct {
	Offset   int
	Length   int
	Sentence int // -1 when the match lies outside every sentence
	Text     string
}

// Span returns the byte range of the match.
func (mc MatchContext) Span() geo.Span {
	return geo.Span{Offset: mc.Offset, Length: mc.Length}
}

// AxisGroups holds the raw text captured for one axis token.
type AxisGroups struct {
	Prefix string
	Suffix string
	Deg    string
	Min    string
	Sec    string
}

// hemisphere returns the letter found before or after the number.
func (a AxisGroups) hemisphere() (geo.Hemisphere, error) {
	pre, err := geo.ParseHemisphere(firstRune(a.Prefix))
	if err != nil {
		return geo.NoHemisphere, err
	}
	suf, err := geo.ParseHemisphere(firstRune(a.Suffix))
	if err != nil {
		return geo.NoHemisphere, err
	}

	switch {
	case pre == geo.NoHemisphere:
		return suf, nil
	case suf == geo.NoHemisphere || suf == pre:
		return pre, nil
	}
	return geo.NoHemisphere, fmt.Errorf("conflicting hemispheres %c and %c: %w", pre, suf, geo.ErrConversionFailed)
}

// Groups are the two axis tokens of a candidate, in text order.
type Groups [2]AxisGroups

// Parser turns the groups of one candidate into a record.
// It returns false only when a group its notation requires is missing.
type Parser interface {
	Format() geo.Format
	Parse(g Groups, mc MatchContext) (geo.Record, bool)
}

// ParserFor returns the built-in parser of a format.
func ParserFor(f geo.Format) (Parser, error) {
	switch f {
	case geo.Decimal:
		return decimalParser{}, nil
	case geo.HemiDecimal:
		return hemiDecimalParser{}, nil
	case geo.DegMin:
		return degMinParser{}, nil
	case geo.DegMinSec:
		return degMinSecParser{}, nil
	case geo.GoogleStyle:
		return googleParser{}, nil
	}
	return nil, fmt.Errorf("no parser for format %s", f)
}

type decimalParser struct{}

func (decimalParser) Format() geo.Format { return geo.Decimal }

func (p decimalParser) Parse(g Groups, mc MatchContext) (geo.Record, bool) {
	if g[0].Deg == "" || g[1].Deg == "" {
		return geo.Record{}, false
	}
	return build(p.Format(), g, mc), true
}

type hemiDecimalParser struct{}

func (hemiDecimalParser) Format() geo.Format { return geo.HemiDecimal }

func (p hemiDecimalParser) Parse(g Groups, mc MatchContext) (geo.Record, bool) {
	for _, a := range g {
		if a.Deg == "" || (a.Prefix == "" && a.Suffix == "") {
			return geo.Record{}, false
		}
	}
	return build(p.Format(), g, mc), true
}

type degMinParser struct{}

func (degMinParser) Format() geo.Format { return geo.DegMin }

func (p degMinParser) Parse(g Groups, mc MatchContext) (geo.Record, bool) {
	for _, a := range g {
		if a.Deg == "" || a.Min == "" {
			return geo.Record{}, false
		}
	}
	return build(p.Format(), g, mc), true
}

type degMinSecParser struct{}

func (degMinSecParser) Format() geo.Format { return geo.DegMinSec }

func (p degMinSecParser) Parse(g Groups, mc MatchContext) (geo.Record, bool) {
	for _, a := range g {
		if a.Deg == "" || a.Min == "" || a.Sec == "" {
			return geo.Record{}, false
		}
	}
	return build(p.Format(), g, mc), true
}

type googleParser struct{}

func (googleParser) Format() geo.Format { return geo.GoogleStyle }

func (p googleParser) Parse(g Groups, mc MatchContext) (geo.Record, bool) {
	if g[0].Deg == "" || g[1].Deg == "" {
		return geo.Record{}, false
	}
	return build(p.Format(), g, mc), true
}

// build normalizes both axes. The first token is latitude unless the
// hemisphere letters of both tokens place it on the longitude axis.
// Failures are kept on the record as error tags and clear Valid.
func build(format geo.Format, g Groups, mc MatchContext) geo.Record {
	rec := geo.Record{
		Coordinate: geo.Coordinate{Format: format},
		Metadata:   geo.Metadata{RawMatch: mc.Text},
		Span:       mc.Span(),
	}

	var comps [2]geo.Component
	for i, a := range g {
		h, err := a.hemisphere()
		if err != nil {
			rec.AddError(geo.TagOf(err))
		}
		comps[i] = geo.Component{Deg: a.Deg, Min: a.Min, Sec: a.Sec, Hemisphere: h}
	}

	lat, lon := comps[0], comps[1]
	if swapped(lat.Hemisphere, lon.Hemisphere) {
		lat, lon = lon, lat
	}

	var err error
	if rec.Lat, err = geo.Normalize(lat, geo.Latitude); err != nil {
		rec.AddError(geo.TagOf(err))
	}
	if rec.Lon, err = geo.Normalize(lon, geo.Longitude); err != nil {
		rec.AddError(geo.TagOf(err))
	}

	rec.Valid = len(rec.Errors) == 0 && geo.InRange(rec.Lat, rec.Lon)
	if !rec.Valid && len(rec.Errors) == 0 {
		rec.AddError(geo.TagInvalidRange)
	}

	return rec
}

// swapped reports whether the letters say the pair is written longitude
// first. Both axes must carry a letter; a single one is not enough.
func swapped(first, second geo.Hemisphere) bool {
	isLat := func(h geo.Hemisphere) bool { return h == geo.North || h == geo.South }
	isLon := func(h geo.Hemisphere) bool { return h == geo.East || h == geo.West }

	return isLon(first) && isLat(second)
}

func firstRune(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}
