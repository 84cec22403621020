package textctx

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geotext/internal/geo"
)

func sentences(text string) []string {
	var out []string
	for _, s := range Split(text) {
		out = append(out, text[s.Offset:s.End()])
	}
	return out
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "single", text: "Camp at 45.5 10.5", want: []string{"Camp at 45.5 10.5"}},
		{
			name: "terminators need whitespace",
			text: "First is 45.5 10.5. Second? Third! end",
			want: []string{"First is 45.5 10.5.", " Second?", " Third!", " end"},
		},
		{
			name: "line breaks",
			text: "one\ntwo\n\nthree",
			want: []string{"one", "two", "three"},
		},
		{
			name: "trailing terminator",
			text: "Done.",
			want: []string{"Done."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sentences(tt.text))
		})
	}
}

func TestSentenceAt(t *testing.T) {
	doc := NewDocument("Alpha here. Beta 45.5 10.5 there.")

	idx, ok := doc.SentenceAt(strings.Index(doc.Text, "45.5"))
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = doc.SentenceAt(len(doc.Text) + 5)
	assert.False(t, ok)
}

func TestSnippet(t *testing.T) {
	doc := NewDocument("Alpha here.   Beta 45.5 10.5 there.  \nNext line.")
	match := geo.Span{Offset: strings.Index(doc.Text, "45.5"), Length: 9}

	idx, ok := doc.SentenceAt(match.Offset)
	require.True(t, ok)
	assert.Equal(t, "Beta 45.5 10.5 there.", doc.Snippet(idx, match))
}

func TestSnippetCoversMatch(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		match string
		want  string
	}{
		{
			name:  "line breaks inside match",
			text:  "line\n45.5\n10.5",
			match: "45.5\n10.5",
			want:  "45.5\n10.5",
		},
		{
			name:  "abbreviation ends a sentence",
			text:  "Координаты: 55,7558 с.ш. 37,6173 в.д. Конец.",
			match: "55,7558 с.ш. 37,6173 в.д.",
			want:  "Координаты: 55,7558 с.ш. 37,6173 в.д.",
		},
		{
			name:  "match inside one sentence",
			text:  "Camp 45.5 10.5. Next one.",
			match: "45.5 10.5",
			want:  "Camp 45.5 10.5.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument(tt.text)
			match := geo.Span{Offset: strings.Index(tt.text, tt.match), Length: len(tt.match)}

			idx, ok := doc.SentenceAt(match.Offset)
			require.True(t, ok)

			got := doc.Snippet(idx, match)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, got, tt.match)
		})
	}
}

func TestSnippetFallback(t *testing.T) {
	text := strings.Repeat("x", 80) + " 45.5 10.5"
	doc := &Document{Text: text}
	match := geo.Span{Offset: 81, Length: 9}

	got := doc.Snippet(-1, match)
	assert.Equal(t, strings.Repeat("x", 49)+" 45.5 10.5", got)
}

func TestSnippetFallbackRuneBoundary(t *testing.T) {
	text := strings.Repeat("ж", 40) + " 45.5 10.5"
	doc := &Document{Text: text}
	match := geo.Span{Offset: strings.Index(text, "45.5"), Length: 9}

	got := doc.Snippet(-1, match)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "45.5 10.5"))
}

func TestSnippetTruncated(t *testing.T) {
	long := "Camp " + strings.Repeat("long ", 60) + "45.5 10.5"
	doc := NewDocument(long)
	match := geo.Span{Offset: strings.Index(long, "45.5"), Length: 9}

	got := doc.Snippet(0, match)
	assert.Equal(t, SnippetLimit, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.True(t, strings.HasPrefix(got, "Camp long"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "абв...", Truncate("абвгдежз", 6))
	assert.Equal(t, "abcdef", Truncate("abcdef", 6))
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		anchor string
		want   string
	}{
		{name: "capitalized words", text: "Point A: 51°12'32.21″N", anchor: "51°", want: "Point A"},
		{name: "keyword lowercase", text: "we reached summit at 45.5 10.5", anchor: "45.5", want: "summit"},
		{name: "cyrillic", text: "Вершина Эльбрус: 43.35 42.44", anchor: "43.35", want: "Вершина Эльбрус"},
		{name: "after terminator", text: "Base camp, then the target: 45.5 10.5", anchor: "45.5", want: "target"},
		{name: "nothing qualifies", text: "go to 45.5 10.5", anchor: "45.5", want: ""},
		{name: "start of text", text: "45.5 10.5", anchor: "45.5", want: ""},
		{name: "previous coordinate", text: "A: 10.5 20.5, B: 11.5 21.5", anchor: "11.5", want: "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument(tt.text)
			assert.Equal(t, tt.want, doc.Label(strings.Index(tt.text, tt.anchor), DefaultKeywords))
		})
	}
}

func TestLabelLookbackLimit(t *testing.T) {
	text := "Far " + strings.Repeat("x", 50) + " 45.5 10.5"
	doc := NewDocument(text)
	assert.Equal(t, "", doc.Label(strings.Index(text, "45.5"), DefaultKeywords))
}
