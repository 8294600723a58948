package constants

// ActivityStatus is the canonical lifecycle status for persisted activities.
type ActivityStatus string

// Stable values (store these exact strings in DB).
const (
	ActivityStatusPending   ActivityStatus = "pending"   // created, not yet confirmed by a user
	ActivityStatusConfirmed ActivityStatus = "confirmed" // accepted into the calendar
	ActivityStatusCompleted ActivityStatus = "completed" // done
	ActivityStatusCancelled ActivityStatus = "cancelled" // dropped
)

// ProcessingStatus tracks an OCR result through the pipeline.
type ProcessingStatus string

const (
	ProcessingPending     ProcessingStatus = "pending"      // queued for processing
	ProcessingInProgress  ProcessingStatus = "processing"   // parse/synthesis running
	ProcessingCompleted   ProcessingStatus = "completed"    // activities emitted
	ProcessingFailed      ProcessingStatus = "failed"       // terminal failure
	ProcessingNeedsReview ProcessingStatus = "needs_review" // below auto-approve confidence
)
