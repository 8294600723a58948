package constants

// DateType marks the role a date expression plays in the source document.
type DateType string

const (
	DateStart     DateType = "start_date"
	DateEnd       DateType = "end_date"
	DateDue       DateType = "due_date"
	DateReference DateType = "reference"
)

func (t DateType) Valid() bool {
	switch t {
	case DateStart, DateEnd, DateDue, DateReference:
		return true
	}
	return false
}

// TimeType marks the role a time expression plays in the source document.
type TimeType string

const (
	TimeStart    TimeType = "start_time"
	TimeEnd      TimeType = "end_time"
	TimeDeadline TimeType = "deadline"
	TimeRef      TimeType = "reference"
)

func (t TimeType) Valid() bool {
	switch t {
	case TimeStart, TimeEnd, TimeDeadline, TimeRef:
		return true
	}
	return false
}

// ItemCategory classifies the nouns of a belongings/materials list section.
type ItemCategory string

const (
	ItemBelongings ItemCategory = "belongings"
	ItemMaterials  ItemCategory = "materials"
	ItemClothing   ItemCategory = "clothing"
	ItemFood       ItemCategory = "food"
	ItemDocuments  ItemCategory = "documents"
	ItemOther      ItemCategory = "other"
)

// ItemCategories returns the classifiable categories in matching-priority
// order. ItemOther is the fallback and is deliberately not listed.
func ItemCategories() []ItemCategory {
	return []ItemCategory{ItemBelongings, ItemMaterials, ItemClothing, ItemFood, ItemDocuments}
}

func (c ItemCategory) Valid() bool {
	switch c {
	case ItemBelongings, ItemMaterials, ItemClothing, ItemFood, ItemDocuments, ItemOther:
		return true
	}
	return false
}
