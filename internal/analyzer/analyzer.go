// Package analyzer finds geographic coordinates in free text.
//
// A Registry holds one compiled pattern per notation ordered by priority.
// The Analyzer runs every pattern over the text, keeps the first
// non-overlapping candidates, parses them into records and classifies the
// resulting list as a point, a line or a closed polygon.
package analyzer

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"github.com/woozymasta/geotext/internal/config"
	"github.com/woozymasta/geotext/internal/geo"
	"github.com/woozymasta/geotext/internal/textctx"
)

// Options tune a single Analyzer.
type Options struct {
	Order            string // config.OrderLexical or config.OrderPosition
	Keywords         []string
	ClosureTolerance float64

	// RescanRejected resumes a pattern one rune after a rejected candidate
	// instead of after its end.
	RescanRejected bool
}

// Analyzer extracts coordinates with a shared registry.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	registry *Registry
	opts     Options
}

// New returns an analyzer over reg. Zero options fall back to defaults.
func New(reg *Registry, opts Options) *Analyzer {
	if opts.Order == "" {
		opts.Order = config.OrderLexical
	}
	if opts.Keywords == nil {
		opts.Keywords = textctx.DefaultKeywords
	}
	if opts.ClosureTolerance <= 0 {
		opts.ClosureTolerance = geo.DefaultClosureTolerance
	}
	return &Analyzer{registry: reg, opts: opts}
}

// NewFromConfig builds the registry and analyzer described by cfg.
func NewFromConfig(cfg *config.Config) (*Analyzer, error) {
	reg, err := NewRegistry(cfg.Priorities)
	if err != nil {
		return nil, err
	}

	return New(reg, Options{
		Order:            cfg.Order,
		Keywords:         cfg.Keywords,
		ClosureTolerance: cfg.ClosureTolerance,
		RescanRejected:   cfg.RescanRejected,
	}), nil
}

// Registry returns the registry the analyzer matches with.
func (a *Analyzer) Registry() *Registry {
	return a.registry
}

// Analyze extracts every coordinate of text. It never fails: a text without
// coordinates yields an empty Point set and malformed candidates are kept
// with Valid cleared.
func (a *Analyzer) Analyze(text string) geo.Set {
	text = norm.NFC.String(text)
	doc := textctx.NewDocument(text)

	var (
		accepted []geo.Span
		records  []geo.Record
	)

	for _, e := range a.registry.entries {
		// The cursor moves past every candidate, accepted or not.
		// RescanRejected moves it one rune past the start of a rejected one.
		for pos := 0; ; {
			loc := e.MatchFrom(text, pos)
			if loc == nil {
				break
			}
			loc = e.dropDetachedSuffixes(text, loc)
			span := geo.Span{Offset: loc[0], Length: loc[1] - loc[0]}
			pos = span.End()
			if a.opts.RescanRejected || span.Length == 0 {
				pos = nextRune(text, span.Offset)
			}

			if span.Length == 0 || !onTokenBoundary(text, span) {
				continue
			}

			if overlapsAny(span, accepted) {
				log.Trace().
					Str("format", e.Parser.Format().String()).
					Int("offset", span.Offset).
					Str("match", text[span.Offset:span.End()]).
					Msg(string(geo.TagOverlapRejected))
				continue
			}

			sentence, _ := doc.SentenceAt(span.Offset)
			mc := MatchContext{
				Offset:   span.Offset,
				Length:   span.Length,
				Sentence: sentence,
				Text:     text[span.Offset:span.End()],
			}

			rec, ok := e.Parser.Parse(e.Groups(text, loc), mc)
			if !ok {
				continue
			}
			rec.Snippet = doc.Snippet(sentence, span)
			rec.Label = doc.Label(span.Offset, a.opts.Keywords)

			if !rec.Valid {
				log.Debug().
					Str("format", rec.Format.String()).
					Str("match", rec.RawMatch).
					Interface("errors", rec.Errors).
					Msg("invalid coordinate")
			}

			accepted = append(accepted, span)
			records = append(records, rec)
			pos = span.End()
		}
	}

	a.order(records)

	log.Trace().Int("records", len(records)).Int("bytes", len(text)).Msg("text analyzed")

	return geo.Set{
		Records: records,
		Type:    geo.Classify(records, a.opts.ClosureTolerance),
	}
}

func (a *Analyzer) order(records []geo.Record) {
	if a.opts.Order == config.OrderPosition {
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Span.Offset < records[j].Span.Offset
		})
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].RawMatch != records[j].RawMatch {
			return records[i].RawMatch < records[j].RawMatch
		}
		return records[i].Span.Offset < records[j].Span.Offset
	})
}

func overlapsAny(span geo.Span, accepted []geo.Span) bool {
	for _, s := range accepted {
		if span.Overlaps(s) {
			return true
		}
	}
	return false
}

// onTokenBoundary rejects matches glued to a letter or digit on either side,
// such as the tail of a longer number or the middle of a word.
func onTokenBoundary(text string, span geo.Span) bool {
	if span.Offset > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:span.Offset])
		if isWordRune(r) {
			return false
		}
	}
	if span.End() < len(text) {
		r, _ := utf8.DecodeRuneInString(text[span.End():])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

// nextRune returns the offset of the rune following the one at i.
func nextRune(text string, i int) int {
	if i >= len(text) {
		return i + 1
	}
	_, size := utf8.DecodeRuneInString(text[i:])
	return i + size
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
