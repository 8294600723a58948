package constants

// ActivityCategory classifies what kind of schedulable record an
// extracted activity becomes.
type ActivityCategory string

const (
	CategoryEvent       ActivityCategory = "event"
	CategoryTask        ActivityCategory = "task"
	CategoryAppointment ActivityCategory = "appointment"
	CategoryDeadline    ActivityCategory = "deadline"
	CategoryMeeting     ActivityCategory = "meeting"
	CategoryMilestone   ActivityCategory = "milestone"
	CategoryReminder    ActivityCategory = "reminder"
)

var allActivityCategories = []ActivityCategory{
	CategoryEvent,
	CategoryTask,
	CategoryAppointment,
	CategoryDeadline,
	CategoryMeeting,
	CategoryMilestone,
	CategoryReminder,
}

func ActivityCategories() []string {
	result := make([]string, len(allActivityCategories))
	for i, cat := range allActivityCategories {
		result[i] = string(cat)
	}
	return result
}

func (c ActivityCategory) Valid() bool {
	for _, cat := range allActivityCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// Priority ranks how urgent an activity is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func Priorities() []string {
	return []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh)}
}

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
