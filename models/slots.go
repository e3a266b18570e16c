package models

// Slot represents a free, bookable interval for a specific resource on a
// specific date. Start and End are minutes from midnight; [Start, End) is
// half-open so back-to-back slots abut without overlapping.
type Slot struct {
	ResourceID string `json:"resourceId"`
	Date       string `json:"date"` // "2006-01-02"
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Label      string `json:"label"` // e.g., "09:00 - 10:00", for client display
}
