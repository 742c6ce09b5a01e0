package activity

import "strings"

// Type represents the hierarchy level of an activity
type Type string

const (
	TypeMainItem       Type = "main-item"
	TypeSubActivity    Type = "sub-activity"
	TypeSubSubActivity Type = "sub-sub-activity"
)

// Record represents one row of the Gantt chart
type Record struct {
	Name         string `json:"name"`
	ItemID       string `json:"item_id"`
	ActivityType Type   `json:"activity_type"`
	IsTitle      bool   `json:"is_title"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Team         string `json:"team"`
	Status       string `json:"status"`
	Completed    int    `json:"completed"`
}

// Classify derives the hierarchy level and title flag from a dotted item ID.
// The level is a pure function of the dot count: "1.1" is a sub-activity,
// "1.4.1" and deeper are sub-sub-activities, everything else (empty IDs,
// plain numbers, free-form labels) is a main item and renders as a title.
func Classify(itemID string) (Type, bool) {
	id := strings.TrimSpace(itemID)
	if id == "" || strings.EqualFold(id, "nan") {
		return TypeMainItem, true
	}
	switch strings.Count(id, ".") {
	case 0:
		return TypeMainItem, true
	case 1:
		return TypeSubActivity, false
	default:
		return TypeSubSubActivity, false
	}
}

// FirstMainItem returns the first main-item record in list order.
func FirstMainItem(records []Record) (Record, bool) {
	for _, r := range records {
		if r.ActivityType == TypeMainItem {
			return r, true
		}
	}
	return Record{}, false
}
