// Package synthesizer turns validated parsed content into schedulable
// activity candidates and converts accepted candidates into the
// persistence-ready aggregate.
package synthesizer

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/common"
	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/keywords"
	"github.com/ktanaka/notices-tracker/internal/validate"
)

type Synthesizer struct {
	logger  *slog.Logger
	catalog keywords.Catalog
}

func New(logger *slog.Logger, catalog keywords.Catalog) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{logger: logger, catalog: catalog}
}

// Synthesize derives one main activity from the parsed content, plus a
// split-out homework task when the document carries assignment cues.
// The main activity always comes first. Every candidate is validated;
// a failing candidate aborts the whole synthesis.
func (s *Synthesizer) Synthesize(content entity.ParsedContent) ([]entity.ExtractedActivity, error) {
	if content.Title == nil || strings.TrimSpace(*content.Title) == "" {
		return nil, common.NewConversionError(common.ReasonMissingTitle, "parsed content has no title to seed an activity")
	}
	title := strings.TrimSpace(*content.Title)

	activities := []entity.ExtractedActivity{s.mainActivity(title, content)}
	if hw, ok := s.homeworkActivity(title, content); ok {
		activities = append(activities, hw)
	}

	for _, a := range activities {
		if err := validate.Activity(a); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("synthesizer.ok",
		"title", title,
		"activities", len(activities),
		"category", string(activities[0].Category),
	)
	return activities, nil
}

// mainActivity applies the category rules in order: meeting vocabulary
// in the title wins, then a due date without a time range makes a task,
// everything else is an event.
func (s *Synthesizer) mainActivity(title string, content entity.ParsedContent) entity.ExtractedActivity {
	context := title + "\n" + strings.Join(content.Notes, "\n")

	due := content.FirstDate(constants.DateDue)
	startTime := content.FirstTime(constants.TimeStart)
	endTime := content.FirstTime(constants.TimeEnd)
	hasRange := startTime != nil && endTime != nil

	var category constants.ActivityCategory
	switch {
	case keywords.ContainsAny(title, s.catalog.Meetings):
		category = constants.CategoryMeeting
	case due != nil && !hasRange:
		category = constants.CategoryTask
	default:
		category = constants.CategoryEvent
	}

	priority := constants.PriorityMedium
	if keywords.ContainsAny(context, s.catalog.Urgency) {
		priority = constants.PriorityHigh
	}

	a := entity.ExtractedActivity{
		Title:      title,
		IsAllDay:   len(content.Times) == 0,
		Category:   category,
		Priority:   priority,
		Checklist:  buildChecklist(content.Items),
		Tags:       s.mainTags(title, category),
		Confidence: content.Confidence,
	}
	if start := content.FirstDate(constants.DateStart); start != nil {
		a.StartDate = ptr(start.Date)
	}
	if end := content.FirstDate(constants.DateEnd); end != nil {
		a.EndDate = ptr(end.Date)
	}
	if due != nil {
		a.DueDate = ptr(due.Date)
	}
	if startTime != nil {
		a.StartTime = ptr(startTime.Time)
	}
	if endTime != nil {
		a.EndTime = ptr(endTime.Time)
	}
	if len(content.Locations) > 0 {
		a.Location = ptr(content.Locations[0])
	}
	if len(content.Notes) > 0 {
		a.Description = ptr(strings.Join(content.Notes, "\n"))
	}
	return a
}

// homeworkActivity splits out an assignment sub-task when the document
// carries homework cues and a due date.
func (s *Synthesizer) homeworkActivity(title string, content entity.ParsedContent) (entity.ExtractedActivity, bool) {
	due := content.FirstDate(constants.DateDue)
	if due == nil {
		return entity.ExtractedActivity{}, false
	}
	context := title + "\n" + strings.Join(content.Notes, "\n")
	if !keywords.ContainsAny(context, s.catalog.Homework) {
		return entity.ExtractedActivity{}, false
	}

	tags := []string{"宿題"}
	subjectContext := context
	for _, it := range content.Items {
		subjectContext += "\n" + strings.Join(it.Items, "\n")
	}
	if keywords.ContainsAny(subjectContext, s.catalog.Subjects) {
		tags = append(tags, "学習")
	}

	return entity.ExtractedActivity{
		Title:      "宿題",
		DueDate:    ptr(due.Date),
		IsAllDay:   true,
		Category:   constants.CategoryTask,
		Priority:   constants.PriorityHigh,
		Checklist:  buildChecklist(content.Items),
		Tags:       tags,
		Confidence: content.Confidence,
	}, true
}

func (s *Synthesizer) mainTags(title string, category constants.ActivityCategory) []string {
	var tags []string
	switch category {
	case constants.CategoryMeeting:
		tags = []string{"会議", "学校行事"}
	case constants.CategoryEvent:
		tags = []string{"イベント", "学校行事"}
	default:
		tags = []string{"タスク"}
	}
	if strings.Contains(title, "保護者") {
		tags = append(tags, "保護者")
	}
	return tags
}

// buildChecklist flattens every item section into unchecked checklist
// entries, one per noun, carrying the section category.
func buildChecklist(items []entity.ExtractedItem) []entity.ChecklistItem {
	var checklist []entity.ChecklistItem
	for _, section := range items {
		category := section.Category
		for _, noun := range section.Items {
			checklist = append(checklist, entity.ChecklistItem{
				ID:       uuid.New().String(),
				Title:    noun,
				Checked:  false,
				Category: &category,
			})
		}
	}
	return checklist
}

func ptr(s string) *string { return &s }
