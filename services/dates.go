package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Unterstützte Datumsformen, in der Reihenfolge, in der sie bei gleichem
// Startpunkt und gleicher Länge bevorzugt werden.
type dateLayout int

const (
	layoutISO dateLayout = iota
	layoutNumeric
	layoutNumericMonthDay
	layoutMonthDayYear
	layoutDayMonthYear
	layoutMonthYear
	layoutMonthDay
	layoutDayMonth
	layoutYear
)

const (
	monthExpr = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
	dayExpr   = `(\d{1,2})(?:st|nd|rd|th)?`
)

type datePattern struct {
	layout dateLayout
	re     *regexp.Regexp
}

var datePatterns = []datePattern{
	{layoutISO, regexp.MustCompile(`\b(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})(?:[T ]\d{1,2}:\d{2}(?::\d{2})?)?\b`)},
	{layoutNumeric, regexp.MustCompile(`\b(\d{1,2})[/.](\d{1,2})[/.](\d{4}|\d{2})\b`)},
	{layoutNumeric, regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4}|\d{2})\b`)},
	{layoutMonthDayYear, regexp.MustCompile(`(?i)\b` + monthExpr + `\.?\s+` + dayExpr + `,?\s+(\d{4})\b`)},
	{layoutDayMonthYear, regexp.MustCompile(`(?i)\b` + dayExpr + `\s+(?:of\s+)?` + monthExpr + `\.?,?\s+(\d{4})\b`)},
	{layoutMonthDayYear, regexp.MustCompile(`(?i)\b` + monthExpr + `-` + dayExpr + `-(\d{4}|\d{2})\b`)},
	{layoutDayMonthYear, regexp.MustCompile(`(?i)\b` + dayExpr + `-` + monthExpr + `-(\d{4}|\d{2})\b`)},
	{layoutMonthYear, regexp.MustCompile(`(?i)\b` + monthExpr + `\.?,?\s+(\d{4})\b`)},
	{layoutMonthDay, regexp.MustCompile(`(?i)\b` + monthExpr + `\.?\s+` + dayExpr + `\b`)},
	{layoutDayMonth, regexp.MustCompile(`(?i)\b` + dayExpr + `\s+(?:of\s+)?` + monthExpr + `\b`)},
	{layoutNumericMonthDay, regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)},
	{layoutYear, regexp.MustCompile(`\b([12]\d{3})\b`)},
}

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// DateExtractor findet das erste Datum in einem Text.
type DateExtractor struct {
	now func() time.Time
}

// NewDateExtractor erstellt einen Extraktor. now liefert das Verarbeitungsdatum für
// unvollständige Angaben; nil bedeutet time.Now.
func NewDateExtractor(now func() time.Time) *DateExtractor {
	if now == nil {
		now = time.Now
	}
	return &DateExtractor{now: now}
}

type dateCandidate struct {
	start, end int
	pattern    datePattern
	groups     []string
}

// ExtractFirst gibt das erste gefundene Datum als YYYY-MM-DD zurück, sonst "".
//
// Nur ein Jahr: Monat und Tag kommen vom Verarbeitungsdatum. Monat und Tag ohne
// Jahr: das Jahr kommt vom Verarbeitungsdatum. Das Ergebnis solcher Eingaben
// hängt also vom Aufrufzeitpunkt ab.
func (d *DateExtractor) ExtractFirst(text string) string {
	text = NormalizeLineBreaks(text)
	if strings.TrimSpace(text) == "" {
		text = " "
	}
	today := d.now()

	var candidates []dateCandidate
	for _, p := range datePatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			groups := make([]string, 0, len(loc)/2-1)
			for g := 2; g < len(loc); g += 2 {
				if loc[g] < 0 {
					groups = append(groups, "")
					continue
				}
				groups = append(groups, text[loc[g]:loc[g+1]])
			}
			candidates = append(candidates, dateCandidate{start: loc[0], end: loc[1], pattern: p, groups: groups})
		}
	}
	// links zuerst, bei gleichem Start der längste Treffer
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		return candidates[i].end-candidates[i].start > candidates[j].end-candidates[j].start
	})

	for _, c := range candidates {
		if date, ok := resolveDate(c.pattern.layout, c.groups, today); ok {
			return date.Format("2006-01-02")
		}
	}
	return ""
}

func resolveDate(layout dateLayout, g []string, today time.Time) (time.Time, bool) {
	switch layout {
	case layoutISO:
		return exactDate(atoi(g[0]), atoi(g[1]), atoi(g[2]))
	case layoutNumeric:
		month, day := numericMonthDay(atoi(g[0]), atoi(g[1]))
		return exactDate(expandYear(g[2], today), month, day)
	case layoutNumericMonthDay:
		month, day := numericMonthDay(atoi(g[0]), atoi(g[1]))
		return exactDate(today.Year(), month, day)
	case layoutMonthDayYear:
		return exactDate(expandYear(g[2], today), int(parseMonth(g[0])), atoi(g[1]))
	case layoutDayMonthYear:
		return exactDate(expandYear(g[2], today), int(parseMonth(g[1])), atoi(g[0]))
	case layoutMonthYear:
		return clampedDate(atoi(g[1]), parseMonth(g[0]), today.Day())
	case layoutMonthDay:
		return exactDate(today.Year(), int(parseMonth(g[0])), atoi(g[1]))
	case layoutDayMonth:
		return exactDate(today.Year(), int(parseMonth(g[1])), atoi(g[0]))
	case layoutYear:
		return clampedDate(atoi(g[0]), today.Month(), today.Day())
	}
	return time.Time{}, false
}

// numericMonthDay liest zuerst den Monat, außer der erste Wert kann kein Monat sein.
func numericMonthDay(first, second int) (month, day int) {
	if first > 12 && second <= 12 {
		return second, first
	}
	return first, second
}

// exactDate lehnt ungültige Kalenderdaten wie den 30. Februar ab.
func exactDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// clampedDate kürzt einen vom Verarbeitungsdatum übernommenen Tag auf die Monatslänge.
func clampedDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December {
		return time.Time{}, false
	}
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}
	return exactDate(year, int(month), day)
}

// expandYear ergänzt zweistellige Jahre in ein Fenster von ±50 Jahren um heute.
func expandYear(s string, today time.Time) int {
	year := atoi(s)
	if len(s) > 2 {
		return year
	}
	year += today.Year() / 100 * 100
	switch {
	case year >= today.Year()+50:
		year -= 100
	case year < today.Year()-50:
		year += 100
	}
	return year
}

func parseMonth(s string) time.Month {
	if len(s) < 3 {
		return 0
	}
	return monthsByPrefix[strings.ToLower(s[:3])]
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

