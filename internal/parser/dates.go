package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/keywords"
)

// Documents in the reference corpus omit the year; year-less dates
// resolve into this fixed calendar year.
const defaultYear = 2025

// 令和1年 = 2019.
const reiwaEpoch = 2018

const weekday = `(?:（[月火水木金土日]）|\([月火水木金土日]\))?`

var (
	reDateWestern  = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日` + weekday)
	reDateEra      = regexp.MustCompile(`令和(\d{1,2})年(\d{1,2})月(\d{1,2})日` + weekday)
	reDateMonthDay = regexp.MustCompile(`(\d{1,2})月(\d{1,2})日` + weekday)
	reDateSlash    = regexp.MustCompile(`(\d{1,2})/(\d{1,2})`)
)

// dateMatcher is one independently testable format. Matchers run in
// priority order; a span already claimed by a more specific format is
// never re-emitted by a shorter one.
type dateMatcher struct {
	re         *regexp.Regexp
	confidence float64
	resolve    func(groups []string) (year, month, day int)
}

var dateMatchers = []dateMatcher{
	{
		re:         reDateWestern,
		confidence: 0.95,
		resolve: func(g []string) (int, int, int) {
			return atoi(g[1]), atoi(g[2]), atoi(g[3])
		},
	},
	{
		re:         reDateEra,
		confidence: 0.88,
		resolve: func(g []string) (int, int, int) {
			return reiwaEpoch + atoi(g[1]), atoi(g[2]), atoi(g[3])
		},
	},
	{
		re:         reDateMonthDay,
		confidence: 0.9,
		resolve: func(g []string) (int, int, int) {
			return defaultYear, atoi(g[1]), atoi(g[2])
		},
	},
	{
		re:         reDateSlash,
		confidence: 0.8,
		resolve: func(g []string) (int, int, int) {
			return defaultYear, atoi(g[1]), atoi(g[2])
		},
	},
}

type dateSpan struct {
	start, end int
	date       entity.ExtractedDate
}

// extractDates scans normalized text for date expressions. Matches are
// returned in text order; overlapping spans keep only the most specific
// format.
func extractDates(text string, catalog keywords.Catalog) []entity.ExtractedDate {
	var spans []dateSpan
	for _, m := range dateMatchers {
		for _, loc := range m.re.FindAllStringSubmatchIndex(text, -1) {
			if overlaps(spans, loc[0], loc[1]) {
				continue
			}
			groups := submatches(text, m.re, loc)
			y, mo, d := m.resolve(groups)
			if !calendarValid(y, mo, d) {
				continue
			}
			spans = append(spans, dateSpan{
				start: loc[0],
				end:   loc[1],
				date: entity.ExtractedDate{
					Text:       text[loc[0]:loc[1]],
					Date:       FormatDate(y, mo, d),
					Confidence: m.confidence,
					Type:       dateTypeAt(text, loc[0], loc[1], catalog),
				},
			})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	out := make([]entity.ExtractedDate, len(spans))
	for i, s := range spans {
		out[i] = s.date
	}
	return out
}

// dateTypeAt inspects the surrounding line: a due marker before the
// match or a due suffix right after it makes the date a due date.
func dateTypeAt(text string, start, end int, catalog keywords.Catalog) constants.DateType {
	lineStart, lineEnd := lineBounds(text, start)
	before := text[lineStart:start]
	after := text[end:lineEnd]
	if keywords.ContainsAny(before, catalog.DueMarkers) {
		return constants.DateDue
	}
	for _, suffix := range catalog.DueSuffixes {
		if suffix != "" && strings.HasPrefix(strings.TrimLeft(after, " "), suffix) {
			return constants.DateDue
		}
	}
	return constants.DateStart
}

func overlaps(spans []dateSpan, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

func submatches(text string, re *regexp.Regexp, loc []int) []string {
	n := re.NumSubexp() + 1
	groups := make([]string, n)
	for i := 0; i < n; i++ {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return groups
}

func calendarValid(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}

// FormatDate renders a calendar date as ISO YYYY-MM-DD.
func FormatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// ParseDate parses an ISO YYYY-MM-DD string back into its components.
// FormatDate(ParseDate(s)) == s for every string this package emits.
func ParseDate(s string) (year, month, day int, err error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.Year(), int(t.Month()), t.Day(), nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
