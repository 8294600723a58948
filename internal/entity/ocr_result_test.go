package entity

import (
	"testing"

	"github.com/ktanaka/notices-tracker/constants"
)

func TestNewConfidenceThresholds(t *testing.T) {
	if _, err := NewConfidenceThresholds(0.3, 0.6, 0.85); err != nil {
		t.Fatalf("NewConfidenceThresholds: %v", err)
	}

	bad := [][3]float64{
		{0.6, 0.3, 0.85},  // not increasing
		{0.3, 0.3, 0.85},  // not strictly increasing
		{-0.1, 0.6, 0.85}, // below range
		{0.3, 0.6, 1.1},   // above range
	}
	for _, b := range bad {
		if _, err := NewConfidenceThresholds(b[0], b[1], b[2]); err == nil {
			t.Fatalf("NewConfidenceThresholds(%v) succeeded", b)
		}
	}
}

func TestStatusFor(t *testing.T) {
	th, err := NewConfidenceThresholds(0.3, 0.6, 0.85)
	if err != nil {
		t.Fatalf("NewConfidenceThresholds: %v", err)
	}
	tests := []struct {
		confidence float64
		want       constants.ProcessingStatus
	}{
		{0.92, constants.ProcessingCompleted},
		{0.85, constants.ProcessingCompleted},
		{0.84, constants.ProcessingNeedsReview},
		{0.3, constants.ProcessingNeedsReview},
		{0.29, constants.ProcessingFailed},
		{0, constants.ProcessingFailed},
	}
	for _, tt := range tests {
		if got := th.StatusFor(tt.confidence); got != tt.want {
			t.Fatalf("StatusFor(%v) = %q, want %q", tt.confidence, got, tt.want)
		}
	}
}

func TestParsedContentFirstByType(t *testing.T) {
	c := ParsedContent{
		Dates: []ExtractedDate{
			{Date: "2025-03-15", Type: constants.DateStart},
			{Date: "2025-03-16", Type: constants.DateStart},
			{Date: "2025-05-10", Type: constants.DateDue},
		},
		Times: []ExtractedTime{
			{Time: "09:30", Type: constants.TimeStart},
			{Time: "15:00", Type: constants.TimeEnd},
		},
	}
	if d := c.FirstDate(constants.DateStart); d == nil || d.Date != "2025-03-15" {
		t.Fatalf("FirstDate(start) = %v, want the first match", d)
	}
	if d := c.FirstDate(constants.DateEnd); d != nil {
		t.Fatalf("FirstDate(end) = %v, want nil", d)
	}
	if tm := c.FirstTime(constants.TimeEnd); tm == nil || tm.Time != "15:00" {
		t.Fatalf("FirstTime(end) = %v, want 15:00", tm)
	}
	if tm := c.FirstTime(constants.TimeDeadline); tm != nil {
		t.Fatalf("FirstTime(deadline) = %v, want nil", tm)
	}
}
