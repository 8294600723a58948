package entity

import (
	"time"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/common"
)

// OcrResult carries one recognized document through the pipeline for
// data transfer between layers.
type OcrResult struct {
	ID                  string                     `json:"id"`
	ImageID             string                     `json:"image_id"`
	RawText             string                     `json:"raw_text"`
	Confidence          float64                    `json:"confidence"`
	ParsedContent       *ParsedContent             `json:"parsed_content,omitempty"`
	ExtractedActivities []ExtractedActivity        `json:"extracted_activities,omitempty"`
	ProcessingStatus    constants.ProcessingStatus `json:"processing_status"`
	ErrorMessage        *string                    `json:"error_message,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

// ConfidenceThresholds configures the downstream review workflow.
// Invariant: MinAcceptable < ReviewRequired < AutoApprove, all in [0,1].
type ConfidenceThresholds struct {
	MinAcceptable  float64 `json:"min_acceptable"`
	ReviewRequired float64 `json:"review_required"`
	AutoApprove    float64 `json:"auto_approve"`
}

// NewConfidenceThresholds constructs thresholds, enforcing the ordering
// invariant.
func NewConfidenceThresholds(minAcceptable, reviewRequired, autoApprove float64) (ConfidenceThresholds, error) {
	for field, v := range map[string]float64{
		"thresholds.minAcceptable":  minAcceptable,
		"thresholds.reviewRequired": reviewRequired,
		"thresholds.autoApprove":    autoApprove,
	} {
		if v < 0 || v > 1 {
			return ConfidenceThresholds{}, common.NewValidationError(field, "must be between 0 and 1")
		}
	}
	if !(minAcceptable < reviewRequired && reviewRequired < autoApprove) {
		return ConfidenceThresholds{}, common.NewValidationError("thresholds", "must be strictly increasing: minAcceptable < reviewRequired < autoApprove")
	}
	return ConfidenceThresholds{
		MinAcceptable:  minAcceptable,
		ReviewRequired: reviewRequired,
		AutoApprove:    autoApprove,
	}, nil
}

// StatusFor maps an aggregate confidence to the processing status the
// review workflow expects.
func (t ConfidenceThresholds) StatusFor(confidence float64) constants.ProcessingStatus {
	switch {
	case confidence >= t.AutoApprove:
		return constants.ProcessingCompleted
	case confidence >= t.MinAcceptable:
		return constants.ProcessingNeedsReview
	default:
		return constants.ProcessingFailed
	}
}
