package models

import "time"

// DayHours describes the working window for a single weekday, in minutes from
// midnight (e.g., 540 for 9:00 AM).
type DayHours struct {
	Open   int  `bson:"open" json:"open"`
	Close  int  `bson:"close" json:"close"`
	IsOpen bool `bson:"isOpen" json:"isOpen"`
}

// CalendarPolicy is a tenant's scheduling configuration: weekly working hours,
// blackout dates and slot granularity. It is loaded once and treated as
// read-only by the scheduling core; edits go through the calendar repository.
type CalendarPolicy struct {
	TenantID string `bson:"tenantId" json:"tenantId"`

	// WorkingHours is indexed by time.Weekday (Sunday = 0).
	WorkingHours [7]DayHours `bson:"workingHours" json:"workingHours"`

	SlotGranularityMinutes int `bson:"slotGranularityMinutes" json:"slotGranularityMinutes"`

	// BlackoutDates are "2006-01-02" dates closed regardless of weekday.
	BlackoutDates []string `bson:"blackoutDates,omitempty" json:"blackoutDates,omitempty"`

	// Timezone is the IANA zone name all dates and minutes-from-midnight
	// values are interpreted in. Never inferred from the host locale.
	Timezone string `bson:"timezone" json:"timezone"`

	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HoursFor returns the working window for the weekday of the given time.
func (p *CalendarPolicy) HoursFor(day time.Weekday) DayHours {
	return p.WorkingHours[int(day)]
}

// IsBlackout reports whether the "2006-01-02" date is in the blackout set.
func (p *CalendarPolicy) IsBlackout(date string) bool {
	for _, d := range p.BlackoutDates {
		if d == date {
			return true
		}
	}
	return false
}
