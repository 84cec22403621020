package analyzer

import (
	"fmt"
	"regexp"

	"github.com/woozymasta/geotext/internal/geo"
)

// Building blocks shared by the built-in patterns. Every axis exposes its
// parts as named groups suffixed with the axis number (1 or 2):
// pre/suf hold hemisphere letters, deg/alt the degrees, min and sec the
// sexagesimal fields.
//
// \b only knows ASCII, so a Cyrillic prefix must touch the number
// ("С55,75") and a Cyrillic suffix is checked against the next word by
// Entry.dropDetachedSuffixes.
const (
	hemiPrefix = `(?P<pre%[1]d>\b[NSEW]\s*|[СЮВЗ])?`
	hemiSuffix = `(?:\s*(?P<suf%[1]d>[NSEW]\b|[СЮВЗ](?:\.\s?[шд]\.?)?))?`

	degMark = `\s*[°º˚]`
	minMark = `\s*['′’]`
	secMark = `\s*(?:''|′′|’’|"|″|”)`

	pairSep = `\s*[,;/]?\s*`
)

func dmsAxis(i int) string {
	return fmt.Sprintf(hemiPrefix+
		`(?P<deg%[1]d>-?\d{1,3})`+degMark+`\s*`+
		`(?P<min%[1]d>\d{1,2})`+minMark+`\s*`+
		`(?P<sec%[1]d>\d{1,2}(?:[.,]\d+)?)`+secMark+
		hemiSuffix, i)
}

func dmAxis(i int) string {
	return fmt.Sprintf(hemiPrefix+
		`(?P<deg%[1]d>-?\d{1,3})`+degMark+`\s*`+
		`(?P<min%[1]d>\d{1,2}(?:[.,]\d+)?)`+minMark+
		hemiSuffix, i)
}

func googleAxis(i int) string {
	return fmt.Sprintf(hemiPrefix+
		`(?P<deg%[1]d>-?\d{1,3}(?:[.,]\d+)?)`+degMark+
		hemiSuffix, i)
}

// hemiDecimalAxis requires a letter either before or after the number.
func hemiDecimalAxis(i int) string {
	return fmt.Sprintf(`(?:`+
		`(?P<pre%[1]d>\b[NSEW]\s*|[СЮВЗ])(?P<deg%[1]d>\d{1,3}(?:[.,]\d+)?)`+
		`|`+
		`(?P<alt%[1]d>\d{1,3}(?:[.,]\d+)?)\s*(?P<suf%[1]d>[NSEW]\b|[СЮВЗ](?:\.\s?[шд]\.?)?)`+
		`)`, i)
}

var patterns = map[geo.Format]*regexp.Regexp{
	geo.DegMinSec:   regexp.MustCompile(`(?i)` + dmsAxis(1) + pairSep + dmsAxis(2)),
	geo.DegMin:      regexp.MustCompile(`(?i)` + dmAxis(1) + pairSep + dmAxis(2)),
	geo.GoogleStyle: regexp.MustCompile(`(?i)` + googleAxis(1) + pairSep + googleAxis(2)),
	geo.HemiDecimal: regexp.MustCompile(`(?i)` + hemiDecimalAxis(1) + pairSep + hemiDecimalAxis(2)),
	geo.Decimal: regexp.MustCompile(
		`(?P<deg1>-?\d{1,3}[.,]\d+)` + // latitude, fraction required
			`(?:\s*[,;/]\s*|\s+)` + // separator
			`(?P<deg2>-?\d{1,3}[.,]\d+)`, // longitude
	),
}

// defaultPriorities rank the notations from the most to the least specific.
var defaultPriorities = map[geo.Format]int{
	geo.DegMinSec:   50,
	geo.DegMin:      40,
	geo.GoogleStyle: 30,
	geo.HemiDecimal: 20,
	geo.Decimal:     10,
}

// PatternFor returns the compiled built-in matcher of a format.
func PatternFor(f geo.Format) (*regexp.Regexp, error) {
	switch f {
	case geo.Decimal, geo.HemiDecimal, geo.DegMin, geo.DegMinSec, geo.GoogleStyle:
		return patterns[f], nil
	}
	return nil, fmt.Errorf("no pattern for format %s", f)
}

// DefaultPriority returns the built-in priority of a format.
func DefaultPriority(f geo.Format) int {
	return defaultPriorities[f]
}
