package entity

import (
	"github.com/ktanaka/notices-tracker/constants"
)

// ExtractedDate is one date expression found in the raw text,
// normalized to an ISO calendar date.
type ExtractedDate struct {
	Text       string             `json:"text"`
	Date       string             `json:"date"` // YYYY-MM-DD
	Confidence float64            `json:"confidence"`
	Type       constants.DateType `json:"type"`
}

// ExtractedTime is one time expression found in the raw text,
// normalized to 24-hour HH:MM.
type ExtractedTime struct {
	Text       string             `json:"text"`
	Time       string             `json:"time"` // HH:MM
	Confidence float64            `json:"confidence"`
	Type       constants.TimeType `json:"type"`
}

// ExtractedItem is one list section (e.g. a belongings list) with its
// collected nouns and the category the section was classified into.
type ExtractedItem struct {
	Text       string                 `json:"text"`
	Items      []string               `json:"items"`
	Confidence float64                `json:"confidence"`
	Category   constants.ItemCategory `json:"category"`
}

// ParsedContent is the structured, not-yet-activity-shaped extraction
// derived from one raw OCR text blob. Values are immutable once built;
// Confidence is derived by the parser and never authored by callers.
type ParsedContent struct {
	Title      *string         `json:"title,omitempty"`
	Dates      []ExtractedDate `json:"dates"`
	Times      []ExtractedTime `json:"times"`
	Items      []ExtractedItem `json:"items"`
	Locations  []string        `json:"locations"`
	Notes      []string        `json:"notes"`
	Confidence float64         `json:"confidence"`
}

// FirstDate returns the first extracted date of the given type.
func (c ParsedContent) FirstDate(t constants.DateType) *ExtractedDate {
	for i := range c.Dates {
		if c.Dates[i].Type == t {
			return &c.Dates[i]
		}
	}
	return nil
}

// FirstTime returns the first extracted time of the given type.
func (c ParsedContent) FirstTime(t constants.TimeType) *ExtractedTime {
	for i := range c.Times {
		if c.Times[i].Type == t {
			return &c.Times[i]
		}
	}
	return nil
}
