package scheduling

import (
	"fmt"
	"time"

	"ototakibim/models"
	"ototakibim/utils"
)

// minutesPerDay bounds every minutes-from-midnight value.
const minutesPerDay = 24 * 60

// Calendar is a validated, immutable view over a tenant's CalendarPolicy with
// its timezone resolved. All methods are pure functions of (date, policy).
type Calendar struct {
	policy models.CalendarPolicy
	loc    *time.Location
}

// NewCalendar validates the policy and resolves its timezone. An invalid
// policy is a configuration fault and fails here, not during scheduling.
func NewCalendar(policy models.CalendarPolicy) (*Calendar, error) {
	if policy.SlotGranularityMinutes <= 0 {
		return nil, &ConfigurationError{
			TenantID: policy.TenantID,
			Message:  fmt.Sprintf("slot granularity must be positive, got %d", policy.SlotGranularityMinutes),
		}
	}
	for day, hours := range policy.WorkingHours {
		if !hours.IsOpen {
			continue
		}
		if hours.Open < 0 || hours.Close > minutesPerDay {
			return nil, &ConfigurationError{
				TenantID: policy.TenantID,
				Message:  fmt.Sprintf("%s hours out of range: [%d, %d]", time.Weekday(day), hours.Open, hours.Close),
			}
		}
		if hours.Open >= hours.Close {
			return nil, &ConfigurationError{
				TenantID: policy.TenantID,
				Message: fmt.Sprintf("%s opens at %s but closes at %s",
					time.Weekday(day), utils.FormatMinutes(hours.Open), utils.FormatMinutes(hours.Close)),
			}
		}
	}
	for _, d := range policy.BlackoutDates {
		if _, err := time.Parse(utils.DateLayout, d); err != nil {
			return nil, &ConfigurationError{
				TenantID: policy.TenantID,
				Message:  fmt.Sprintf("blackout date %q is not a valid date", d),
			}
		}
	}

	loc, err := time.LoadLocation(policy.Timezone)
	if err != nil {
		return nil, &ConfigurationError{
			TenantID: policy.TenantID,
			Message:  fmt.Sprintf("unknown timezone %q", policy.Timezone),
		}
	}
	return &Calendar{policy: policy, loc: loc}, nil
}

// Policy returns a copy of the underlying policy.
func (c *Calendar) Policy() models.CalendarPolicy {
	return c.policy
}

// Location returns the calendar's resolved timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Today returns the current date in the calendar's timezone.
func (c *Calendar) Today(now time.Time) string {
	return now.In(c.loc).Format(utils.DateLayout)
}

// IsOpen reports whether the shop takes bookings on the given "2006-01-02"
// date: the weekday must be open and the date must not be a blackout.
func (c *Calendar) IsOpen(date string) bool {
	_, _, ok := c.OpenInterval(date)
	return ok
}

// OpenInterval returns the working window for a date in minutes from
// midnight, or ok=false if the shop is closed that day.
func (c *Calendar) OpenInterval(date string) (open, close int, ok bool) {
	t, err := utils.ParseDate(date, c.loc)
	if err != nil {
		return 0, 0, false
	}
	if c.policy.IsBlackout(date) {
		return 0, 0, false
	}
	hours := c.policy.HoursFor(t.Weekday())
	if !hours.IsOpen {
		return 0, 0, false
	}
	return hours.Open, hours.Close, true
}

// EnumerateSlotStarts produces the candidate slot start minutes for a date,
// spaced by the policy granularity, keeping only starts whose full duration
// fits before closing. Remainder slots at the end of the day are dropped.
func (c *Calendar) EnumerateSlotStarts(date string, durationMinutes int) []int {
	if durationMinutes <= 0 {
		return nil
	}
	open, close, ok := c.OpenInterval(date)
	if !ok {
		return nil
	}

	var starts []int
	for start := open; start+durationMinutes <= close; start += c.policy.SlotGranularityMinutes {
		starts = append(starts, start)
	}
	return starts
}
