// Package validate applies the cross-cutting structural rules wherever
// extraction types are constructed. All failures are ValidationError
// values naming the dot-qualified field path; nested validation is
// fail-fast, surfacing the first violation encountered.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ktanaka/notices-tracker/internal/common"
	"github.com/ktanaka/notices-tracker/internal/entity"
)

var (
	reISODate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reClock   = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// NonEmpty rejects empty or whitespace-only strings.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return common.NewValidationError(field, "must not be empty")
	}
	return nil
}

// Confidence rejects values outside [0,1].
func Confidence(field string, value float64) error {
	if value < 0 || value > 1 {
		return common.NewValidationError(field, fmt.Sprintf("must be between 0 and 1, got %v", value))
	}
	return nil
}

// Date validates one extracted date under the given field prefix.
func Date(field string, d entity.ExtractedDate) error {
	if err := NonEmpty(field+".text", d.Text); err != nil {
		return err
	}
	if !reISODate.MatchString(d.Date) {
		return common.NewValidationError(field+".date", fmt.Sprintf("must match YYYY-MM-DD, got %q", d.Date))
	}
	if err := Confidence(field+".confidence", d.Confidence); err != nil {
		return err
	}
	if !d.Type.Valid() {
		return common.NewValidationError(field+".type", fmt.Sprintf("unknown date type %q", d.Type))
	}
	return nil
}

// Time validates one extracted time under the given field prefix.
func Time(field string, t entity.ExtractedTime) error {
	if err := NonEmpty(field+".text", t.Text); err != nil {
		return err
	}
	if !reClock.MatchString(t.Time) {
		return common.NewValidationError(field+".time", fmt.Sprintf("must match HH:MM in 00:00-23:59, got %q", t.Time))
	}
	if err := Confidence(field+".confidence", t.Confidence); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return common.NewValidationError(field+".type", fmt.Sprintf("unknown time type %q", t.Type))
	}
	return nil
}

// Item validates one item section under the given field prefix.
func Item(field string, it entity.ExtractedItem) error {
	if err := NonEmpty(field+".text", it.Text); err != nil {
		return err
	}
	if len(it.Items) == 0 {
		return common.NewValidationError(field+".items", "must contain at least one item")
	}
	for i, noun := range it.Items {
		if err := NonEmpty(fmt.Sprintf("%s.items[%d]", field, i), noun); err != nil {
			return err
		}
	}
	if err := Confidence(field+".confidence", it.Confidence); err != nil {
		return err
	}
	if !it.Category.Valid() {
		return common.NewValidationError(field+".category", fmt.Sprintf("unknown item category %q", it.Category))
	}
	return nil
}

// ParsedContent recursively validates every nested date, time and item,
// surfacing the first failure.
func ParsedContent(c entity.ParsedContent) error {
	if err := Confidence("content.confidence", c.Confidence); err != nil {
		return err
	}
	for i, d := range c.Dates {
		if err := Date(fmt.Sprintf("content.dates[%d]", i), d); err != nil {
			return err
		}
	}
	for i, t := range c.Times {
		if err := Time(fmt.Sprintf("content.times[%d]", i), t); err != nil {
			return err
		}
	}
	for i, it := range c.Items {
		if err := Item(fmt.Sprintf("content.items[%d]", i), it); err != nil {
			return err
		}
	}
	return nil
}

// Activity validates a candidate activity, including the cross-field
// date/time ordering rules.
func Activity(a entity.ExtractedActivity) error {
	if err := NonEmpty("activity.title", a.Title); err != nil {
		return err
	}
	if !a.Category.Valid() {
		return common.NewValidationError("activity.category", fmt.Sprintf("unknown category %q", a.Category))
	}
	if !a.Priority.Valid() {
		return common.NewValidationError("activity.priority", fmt.Sprintf("unknown priority %q", a.Priority))
	}
	if err := Confidence("activity.confidence", a.Confidence); err != nil {
		return err
	}
	for field, v := range map[string]*string{
		"activity.startDate": a.StartDate,
		"activity.endDate":   a.EndDate,
		"activity.dueDate":   a.DueDate,
	} {
		if v != nil && !reISODate.MatchString(*v) {
			return common.NewValidationError(field, fmt.Sprintf("must match YYYY-MM-DD, got %q", *v))
		}
	}
	for field, v := range map[string]*string{
		"activity.startTime": a.StartTime,
		"activity.endTime":   a.EndTime,
	} {
		if v != nil && !reClock.MatchString(*v) {
			return common.NewValidationError(field, fmt.Sprintf("must match HH:MM in 00:00-23:59, got %q", *v))
		}
	}
	for i, item := range a.Checklist {
		if err := NonEmpty(fmt.Sprintf("activity.checklist[%d].title", i), item.Title); err != nil {
			return err
		}
	}

	if a.StartDate != nil && a.EndDate != nil && *a.StartDate > *a.EndDate {
		return common.NewValidationError("activity.endDate", "開始日は終了日より前でなければなりません")
	}
	// The clock ordering check applies only within a single day. A
	// multi-day span may legitimately end at an earlier clock time than
	// it starts (e.g. an overnight trip from 15:00 to 09:30).
	if a.StartTime != nil && a.EndTime != nil && sameDay(a.StartDate, a.EndDate) {
		if *a.StartTime >= *a.EndTime {
			return common.NewValidationError("activity.endTime", "開始時間は終了時間より前でなければなりません")
		}
	}
	return nil
}

func sameDay(start, end *string) bool {
	if start == nil && end == nil {
		return true
	}
	return start != nil && end != nil && *start == *end
}
