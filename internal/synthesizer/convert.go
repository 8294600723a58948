package synthesizer

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/validate"
)

// ProvenanceTag marks every activity produced from OCR. It is always
// appended, never deduplicated against pre-existing identical tags.
const ProvenanceTag = "OCR生成"

// ToDomain maps a validated candidate into the persistence-ready
// Activity aggregate. Identity is ocr-<parentResultID>-<epochMillis>;
// the timestamp keeps ids unique across activities of one result. The
// input is never mutated.
func ToDomain(a entity.ExtractedActivity, parentResultID string) (entity.Activity, error) {
	if err := validate.NonEmpty("activity.parentResultId", parentResultID); err != nil {
		return entity.Activity{}, err
	}
	if err := validate.Activity(a); err != nil {
		return entity.Activity{}, err
	}

	now := time.Now()
	today := now.Format("2006-01-02")
	millis := uniqueStamp(now.UnixMilli())

	tags := make([]string, 0, len(a.Tags)+1)
	tags = append(tags, a.Tags...)
	tags = append(tags, ProvenanceTag)

	checklist := make([]entity.ChecklistItem, len(a.Checklist))
	for i, item := range a.Checklist {
		checklist[i] = entity.ChecklistItem{
			ID:       item.ID,
			Title:    item.Title,
			Checked:  item.Checked,
			Category: clonePtr(item.Category),
		}
	}

	return entity.Activity{
		ID:          fmt.Sprintf("ocr-%s-%d", parentResultID, millis),
		Title:       a.Title,
		Description: clonePtr(a.Description),
		StartDate:   clonePtr(a.StartDate),
		StartTime:   clonePtr(a.StartTime),
		EndDate:     clonePtr(a.EndDate),
		EndTime:     clonePtr(a.EndTime),
		DueDate:     clonePtr(a.DueDate),
		IsAllDay:    a.IsAllDay,
		Category:    a.Category,
		Priority:    a.Priority,
		Location:    clonePtr(a.Location),
		Status:      constants.ActivityStatusPending,
		MemberIDs:   []string{}, // OCR cannot infer assignees
		Checklist:   checklist,
		Tags:        tags,
		Confidence:  a.Confidence,
		CreatedAt:   today,
		UpdatedAt:   today,
	}, nil
}

var lastStamp atomic.Int64

// uniqueStamp keeps the millisecond component strictly increasing:
// two conversions in the same tick must not share an identity.
func uniqueStamp(now int64) int64 {
	for {
		last := lastStamp.Load()
		if now <= last {
			now = last + 1
		}
		if lastStamp.CompareAndSwap(last, now) {
			return now
		}
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
