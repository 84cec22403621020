package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/woozymasta/geotext/internal/geo"
)

// Entry pairs a compiled matcher with the parser of its notation.
type Entry struct {
	Matcher  *regexp.Regexp
	Parser   Parser
	Priority int

	fields []groupField
}

// groupField maps a submatch index to an axis part.
type groupField struct {
	index int
	axis  int
	part  string
}

// MatchFrom returns the submatch index pairs of the leftmost candidate
// starting at or after from, as offsets into text, or nil.
func (e Entry) MatchFrom(text string, from int) []int {
	if from > len(text) {
		return nil
	}
	loc := e.Matcher.FindStringSubmatchIndex(text[from:])
	for i := range loc {
		if loc[i] >= 0 {
			loc[i] += from
		}
	}
	return loc
}

// dropDetachedSuffixes clears single Cyrillic hemisphere suffixes that are
// followed by a letter, as in "37.6° с видом" or "37.6° Здание": the letter
// starts the next word. A dropped trailing suffix also shortens the match.
func (e Entry) dropDetachedSuffixes(text string, loc []int) []int {
	for _, f := range e.fields {
		if f.part != "suf" {
			continue
		}
		start, end := loc[2*f.index], loc[2*f.index+1]
		if start < 0 || attachedSuffix(text, start, end) {
			continue
		}

		loc[2*f.index], loc[2*f.index+1] = -1, -1
		if end == loc[1] {
			loc[1] = len(strings.TrimRightFunc(text[:start], unicode.IsSpace))
		}
	}
	return loc
}

// attachedSuffix reports whether text[start:end] closes the number.
// Latin letters are already bounded by \b and abbreviations such as "с.ш."
// are unambiguous.
func attachedSuffix(text string, start, end int) bool {
	r, size := utf8.DecodeRuneInString(text[start:end])
	if r < utf8.RuneSelf || size < end-start {
		return true
	}

	next, _ := utf8.DecodeRuneInString(strings.TrimLeftFunc(text[end:], unicode.IsSpace))
	return !unicode.IsLetter(next)
}

// Groups extracts the axis parts of one match returned by MatchFrom.
func (e Entry) Groups(text string, loc []int) Groups {
	var g Groups
	for _, f := range e.fields {
		start, end := loc[2*f.index], loc[2*f.index+1]
		if start < 0 {
			continue
		}
		v := text[start:end]
		a := &g[f.axis]
		switch f.part {
		case "pre":
			a.Prefix = v
		case "suf":
			a.Suffix = v
		case "deg", "alt":
			a.Deg = v
		case "min":
			a.Min = v
		case "sec":
			a.Sec = v
		}
	}
	return g
}

// Registry is the ordered list of patterns tried by the analyzer.
// It is built once at startup and only read afterwards.
type Registry struct {
	entries []Entry
}

// NewRegistry registers every built-in notation. Priorities missing from
// overrides keep their defaults.
func NewRegistry(overrides map[geo.Format]int) (*Registry, error) {
	r := &Registry{}

	for _, f := range geo.Formats {
		matcher, err := PatternFor(f)
		if err != nil {
			return nil, err
		}
		parser, err := ParserFor(f)
		if err != nil {
			return nil, err
		}

		priority := DefaultPriority(f)
		if p, ok := overrides[f]; ok {
			priority = p
		}

		if err := r.Register(matcher, parser, priority); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds a matcher and keeps entries sorted by descending priority.
// Entries with equal priority stay in registration order.
//
// Matcher groups must be named pre, suf, deg, alt, min or sec followed by
// the axis number 1 or 2; any other named group is an error.
func (r *Registry) Register(matcher *regexp.Regexp, parser Parser, priority int) error {
	if matcher == nil || parser == nil {
		return fmt.Errorf("register %v: matcher and parser are required", parser)
	}

	fields, err := groupFields(matcher)
	if err != nil {
		return fmt.Errorf("register %s: %w", parser.Format(), err)
	}

	r.entries = append(r.entries, Entry{
		Matcher:  matcher,
		Parser:   parser,
		Priority: priority,
		fields:   fields,
	})

	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].Priority > r.entries[j].Priority
	})

	return nil
}

// Entries returns a copy of the ordered entries.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

func groupFields(re *regexp.Regexp) ([]groupField, error) {
	var fields []groupField
	for i, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		if len(name) < 2 {
			return nil, fmt.Errorf("unsupported group %q", name)
		}

		axis, err := strconv.Atoi(name[len(name)-1:])
		if err != nil || axis < 1 || axis > 2 {
			return nil, fmt.Errorf("group %q: axis must be 1 or 2", name)
		}

		part := name[:len(name)-1]
		switch part {
		case "pre", "suf", "deg", "alt", "min", "sec":
		default:
			return nil, fmt.Errorf("unsupported group %q", name)
		}

		fields = append(fields, groupField{index: i, axis: axis - 1, part: part})
	}
	return fields, nil
}
