package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/keywords"
)

var (
	reTimeMeridiem = regexp.MustCompile(`(午前|午後)(\d{1,2})時(?:(\d{1,2})分)?`)
	reTimeColon    = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	reTimeHour     = regexp.MustCompile(`(\d{1,2})時(?:(\d{1,2})分)?`)
)

// timeMatcher is one independently testable format, run in priority
// order with the same claimed-span rule as the date matchers.
type timeMatcher struct {
	re         *regexp.Regexp
	confidence float64
	resolve    func(groups []string) (hour, minute int)
}

var timeMatchers = []timeMatcher{
	{
		re:         reTimeMeridiem,
		confidence: 0.9,
		resolve: func(g []string) (int, int) {
			h := atoi(g[2])
			// 午後 adds 12 except when the hour is already 12.
			if g[1] == "午後" && h != 12 {
				h += 12
			}
			return h, atoi(g[3])
		},
	},
	{
		re:         reTimeColon,
		confidence: 0.95,
		resolve: func(g []string) (int, int) {
			return atoi(g[1]), atoi(g[2])
		},
	},
	{
		// Bare H時 has an ambiguous meridiem; taken as written, lower weight.
		re:         reTimeHour,
		confidence: 0.7,
		resolve: func(g []string) (int, int) {
			return atoi(g[1]), atoi(g[2])
		},
	},
}

type timeSpan struct {
	start, end int
	time       entity.ExtractedTime
}

// extractTimes scans normalized text for time expressions. The first
// time on a line is a start time; a later time preceded by a range
// marker becomes the end time.
func extractTimes(text string, catalog keywords.Catalog) []entity.ExtractedTime {
	var spans []timeSpan
	for _, m := range timeMatchers {
		for _, loc := range m.re.FindAllStringSubmatchIndex(text, -1) {
			if timeOverlaps(spans, loc[0], loc[1]) {
				continue
			}
			groups := submatches(text, m.re, loc)
			h, min := m.resolve(groups)
			if h < 0 || h > 23 || min < 0 || min > 59 {
				continue
			}
			spans = append(spans, timeSpan{
				start: loc[0],
				end:   loc[1],
				time: entity.ExtractedTime{
					Text:       text[loc[0]:loc[1]],
					Time:       fmt.Sprintf("%02d:%02d", h, min),
					Confidence: m.confidence,
					Type:       constants.TimeStart,
				},
			})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	// Retag: a time following a range marker since the previous time is
	// the end of that range. Both times must share a line, else a list
	// dash between unrelated times would read as a range.
	for i := 1; i < len(spans); i++ {
		between := text[spans[i-1].end:spans[i].start]
		if strings.ContainsRune(between, '\n') {
			continue
		}
		if keywords.ContainsAny(between, catalog.RangeMarkers) {
			spans[i].time.Type = constants.TimeEnd
		}
	}

	out := make([]entity.ExtractedTime, len(spans))
	for i, s := range spans {
		out[i] = s.time
	}
	return out
}

func timeOverlaps(spans []timeSpan, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}
