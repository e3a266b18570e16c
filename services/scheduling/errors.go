package scheduling

import (
	"fmt"

	"ototakibim/models"
	"ototakibim/utils"
)

// ConfigurationError reports an invalid calendar policy. It is raised when a
// policy is loaded or replaced, never during request handling.
type ConfigurationError struct {
	TenantID string
	Message  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid calendar policy for tenant %s: %s", e.TenantID, e.Message)
}

// SlotUnavailableError reports that a requested slot conflicts with an
// existing booking or falls outside working hours at commit time. The caller
// should re-query free slots and retry with a fresh pick.
type SlotUnavailableError struct {
	ResourceID string
	Date       string
	Start      int
	End        int
	Reason     string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot %s on %s for resource %s is unavailable: %s",
		utils.IntervalLabel(e.Start, e.End), e.Date, e.ResourceID, e.Reason)
}

// NoAvailabilityError reports that a next-available-date scan exhausted its
// horizon without finding a free slot.
type NoAvailabilityError struct {
	ResourceID  string
	FromDate    string
	HorizonDays int
}

func (e *NoAvailabilityError) Error() string {
	return fmt.Sprintf("no availability for resource %s within %d days of %s",
		e.ResourceID, e.HorizonDays, e.FromDate)
}

// NotFoundError reports that an operation referenced an unknown booking id.
type NotFoundError struct {
	BookingID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("booking %s not found", e.BookingID)
}

// InvalidTransitionError reports a booking lifecycle move the state machine
// does not permit (e.g., confirming a cancelled booking).
type InvalidTransitionError struct {
	BookingID string
	From      models.BookingStatus
	To        models.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking %s cannot move from %s to %s", e.BookingID, e.From, e.To)
}
