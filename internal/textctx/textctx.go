// Package textctx derives human readable context around a match:
// the enclosing sentence and a nearby label.
package textctx

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/woozymasta/geotext/internal/geo"
)

const (
	// SnippetLimit is the maximum snippet length in runes, ellipsis included.
	SnippetLimit = 200
	// FallbackWindow is how many bytes before a match are used when it lies
	// outside every detected sentence.
	FallbackWindow = 50
	// LabelLookback is how many runes before a match are searched for a label.
	LabelLookback = 40

	ellipsis = "..."
)

// DefaultKeywords are lowercase-tolerant words accepted as label tokens even
// when they are not capitalized.
var DefaultKeywords = []string{
	"Point", "Peak", "Cape", "Summit", "Target",
	"Точка", "Мыс", "Вершина", "Цель", "Пик",
}

// Document is a text with its sentence boundaries computed once.
type Document struct {
	Text      string
	Sentences []geo.Span
}

// NewDocument splits text into sentences.
func NewDocument(text string) *Document {
	return &Document{Text: text, Sentences: Split(text)}
}

// Split returns sentence spans. A sentence ends after '.', '?' or '!'
// followed by whitespace (terminator included), or at a line break
// (break excluded). Blank spans are dropped.
func Split(text string) []geo.Span {
	var spans []geo.Span
	start := 0

	flush := func(end int) {
		if end > start && strings.TrimSpace(text[start:end]) != "" {
			spans = append(spans, geo.Span{Offset: start, Length: end - start})
		}
		start = end
	}

	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\n':
			flush(i)
			start = i + 1
		case '.', '?', '!':
			if next, _ := utf8.DecodeRuneInString(text[i+1:]); i+1 < len(text) && unicode.IsSpace(next) {
				flush(i + 1)
			}
		}
	}
	flush(len(text))

	return spans
}

// SentenceAt returns the index of the sentence containing offset.
func (d *Document) SentenceAt(offset int) (int, bool) {
	for i, s := range d.Sentences {
		if s.Contains(offset) {
			return i, true
		}
	}
	return -1, false
}

// Snippet returns the trimmed sentence with index sentence, or a short
// window ending at the match when sentence is out of range. Sentences the
// match runs into are joined, so the snippet always covers the whole match.
func (d *Document) Snippet(sentence int, match geo.Span) string {
	var raw string
	if sentence >= 0 && sentence < len(d.Sentences) {
		s := d.Sentences[sentence]
		end := s.End()
		for _, next := range d.Sentences[sentence+1:] {
			if next.Offset >= match.End() {
				break
			}
			end = next.End()
		}
		end = max(end, min(len(d.Text), match.End()))
		raw = d.Text[s.Offset:end]
	} else {
		start := max(0, match.Offset-FallbackWindow)
		for start < match.Offset && !utf8.RuneStart(d.Text[start]) {
			start++
		}
		raw = d.Text[start:min(len(d.Text), match.End())]
	}

	return Truncate(strings.TrimSpace(raw), SnippetLimit)
}

// Truncate shortens s to at most limit runes, ending with "..." when cut.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	keep := limit - len(ellipsis)
	if keep < 0 {
		keep = 0
	}

	n := 0
	for i := range s {
		if n == keep {
			return s[:i] + ellipsis
		}
		n++
	}
	return s
}

// Label looks just before offset for capitalized words or keywords and
// joins them with single spaces. It returns an empty string when nothing
// qualifies.
func (d *Document) Label(offset int, keywords []string) string {
	window := lookback(d.Text[:offset], LabelLookback)

	if i := strings.LastIndexFunc(window, isTerminator); i >= 0 {
		window = window[i+1:]
	}
	window = strings.TrimFunc(window, isTrimmable)

	var tokens []string
	for _, field := range strings.Fields(window) {
		word := strings.TrimFunc(field, isTrimmable)
		if word == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(word)
		if unicode.IsUpper(first) || isKeyword(word, keywords) {
			tokens = append(tokens, word)
		}
	}

	return strings.Join(tokens, " ")
}

// lookback returns at most n trailing runes of s.
func lookback(s string, n int) string {
	i := len(s)
	for count := 0; i > 0 && count < n; count++ {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}

func isKeyword(word string, keywords []string) bool {
	lower := strings.ToLower(word)
	for _, kw := range keywords {
		if kw != "" && strings.HasPrefix(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func isTerminator(r rune) bool {
	switch r {
	case '.', ',', ';', '!', '?', '\n', '\r':
		return true
	}
	return false
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}
