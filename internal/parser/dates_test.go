package parser

import (
	"testing"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/keywords"
)

func TestExtractDatesFormats(t *testing.T) {
	catalog := keywords.Default()
	tests := []struct {
		name           string
		text           string
		wantDate       string
		wantConfidence float64
	}{
		{"month day", "3月15日", "2025-03-15", 0.9},
		{"month day with weekday", "3月15日（金）", "2025-03-15", 0.9},
		{"era year", "令和7年3月15日", "2025-03-15", 0.88},
		{"western year", "2025年3月15日", "2025-03-15", 0.95},
		{"slash shorthand", "3/15", "2025-03-15", 0.8},
		{"fullwidth digits", NormalizeText("３月１５日"), "2025-03-15", 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := extractDates(tt.text, catalog)
			if len(dates) != 1 {
				t.Fatalf("len(dates) = %d, want 1", len(dates))
			}
			if dates[0].Date != tt.wantDate {
				t.Fatalf("date = %q, want %q", dates[0].Date, tt.wantDate)
			}
			if dates[0].Confidence != tt.wantConfidence {
				t.Fatalf("confidence = %v, want %v", dates[0].Confidence, tt.wantConfidence)
			}
			if dates[0].Type != constants.DateStart {
				t.Fatalf("type = %q, want %q", dates[0].Type, constants.DateStart)
			}
		})
	}
}

func TestExtractDatesLongestFormatWins(t *testing.T) {
	catalog := keywords.Default()
	// The era form subsumes the plain month-day form at the same offset;
	// only one entry may come out.
	dates := extractDates("令和7年3月15日に実施します", catalog)
	if len(dates) != 1 {
		t.Fatalf("len(dates) = %d, want 1", len(dates))
	}
	if dates[0].Text != "令和7年3月15日" {
		t.Fatalf("text = %q, want %q", dates[0].Text, "令和7年3月15日")
	}
	if dates[0].Date != "2025-03-15" {
		t.Fatalf("date = %q, want %q", dates[0].Date, "2025-03-15")
	}
}

func TestExtractDatesTextOrder(t *testing.T) {
	catalog := keywords.Default()
	dates := extractDates("4月1日から、そして2025年5月2日", catalog)
	if len(dates) != 2 {
		t.Fatalf("len(dates) = %d, want 2", len(dates))
	}
	if dates[0].Date != "2025-04-01" || dates[1].Date != "2025-05-02" {
		t.Fatalf("dates = [%q, %q], want text order", dates[0].Date, dates[1].Date)
	}
}

func TestExtractDatesDueContext(t *testing.T) {
	catalog := keywords.Default()
	tests := []struct {
		name string
		text string
		want constants.DateType
	}{
		{"due marker before", "提出日:5月10日（金）", constants.DateDue},
		{"made after", "5月10日まで", constants.DateDue},
		{"deadline word", "締切 5月10日", constants.DateDue},
		{"plain", "日時:5月10日", constants.DateStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := extractDates(tt.text, catalog)
			if len(dates) != 1 {
				t.Fatalf("len(dates) = %d, want 1", len(dates))
			}
			if dates[0].Type != tt.want {
				t.Fatalf("type = %q, want %q", dates[0].Type, tt.want)
			}
		})
	}
}

func TestExtractDatesRejectsImpossibleCalendarDates(t *testing.T) {
	catalog := keywords.Default()
	if dates := extractDates("2月30日", catalog); len(dates) != 0 {
		t.Fatalf("len(dates) = %d, want 0", len(dates))
	}
	if dates := extractDates("13月1日", catalog); len(dates) != 0 {
		t.Fatalf("len(dates) = %d, want 0", len(dates))
	}
}

func TestFormatParseDateRoundTrip(t *testing.T) {
	catalog := keywords.Default()
	for _, text := range []string{"3月15日", "令和7年3月15日", "2025年3月15日", "3/15"} {
		dates := extractDates(text, catalog)
		if len(dates) != 1 {
			t.Fatalf("extractDates(%q): len = %d, want 1", text, len(dates))
		}
		y, m, d, err := ParseDate(dates[0].Date)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", dates[0].Date, err)
		}
		if got := FormatDate(y, m, d); got != dates[0].Date {
			t.Fatalf("FormatDate(ParseDate(%q)) = %q, want identity", dates[0].Date, got)
		}
	}
}
