package entity

import (
	"github.com/ktanaka/notices-tracker/constants"
)

// ChecklistItem is one checkable entry on an activity.
type ChecklistItem struct {
	ID       string                  `json:"id"`
	Title    string                  `json:"title"`
	Checked  bool                    `json:"checked"`
	Category *constants.ItemCategory `json:"category,omitempty"`
}

// ExtractedActivity is a candidate schedulable record synthesized from
// parsed content, prior to being assigned a persistent identity.
// Values are never mutated; a revision produces a new value.
type ExtractedActivity struct {
	Title       string                     `json:"title"`
	Description *string                    `json:"description,omitempty"`
	StartDate   *string                    `json:"start_date,omitempty"` // YYYY-MM-DD
	StartTime   *string                    `json:"start_time,omitempty"` // HH:MM
	EndDate     *string                    `json:"end_date,omitempty"`
	EndTime     *string                    `json:"end_time,omitempty"`
	DueDate     *string                    `json:"due_date,omitempty"`
	IsAllDay    bool                       `json:"is_all_day"`
	Category    constants.ActivityCategory `json:"category"`
	Priority    constants.Priority         `json:"priority"`
	Location    *string                    `json:"location,omitempty"`
	Checklist   []ChecklistItem            `json:"checklist"`
	Tags        []string                   `json:"tags"`
	Confidence  float64                    `json:"confidence"`
}

// Activity is the persistence-ready aggregate. Identity is assigned
// exactly once at conversion time and never reissued.
type Activity struct {
	ID          string                     `json:"id"` // ocr-<parentResultId>-<epochMillis>
	Title       string                     `json:"title"`
	Description *string                    `json:"description,omitempty"`
	StartDate   *string                    `json:"start_date,omitempty"`
	StartTime   *string                    `json:"start_time,omitempty"`
	EndDate     *string                    `json:"end_date,omitempty"`
	EndTime     *string                    `json:"end_time,omitempty"`
	DueDate     *string                    `json:"due_date,omitempty"`
	IsAllDay    bool                       `json:"is_all_day"`
	Category    constants.ActivityCategory `json:"category"`
	Priority    constants.Priority         `json:"priority"`
	Location    *string                    `json:"location,omitempty"`
	Status      constants.ActivityStatus   `json:"status"`
	MemberIDs   []string                   `json:"member_ids"`
	Checklist   []ChecklistItem            `json:"checklist"`
	Tags        []string                   `json:"tags"`
	Confidence  float64                    `json:"confidence"`
	CreatedAt   string                     `json:"created_at"` // YYYY-MM-DD
	UpdatedAt   string                     `json:"updated_at"`
}
