package scheduling

import (
	"context"
	"fmt"

	bookingRepo "ototakibim/database/repository/booking"
	"ototakibim/models"
	"ototakibim/utils"
)

// Resolver computes free slots and next-available dates against a snapshot of
// committed bookings. It never mutates state; a slightly stale view is
// acceptable because the coordinator re-validates every reservation at commit.
//
// The resolver is date-agnostic on purpose: asked about a past date it will
// happily report its free slots. Rejecting past dates is the HTTP layer's job.
type Resolver struct {
	Repo     bookingRepo.BookingRepository
	Policies *PolicySource

	// HorizonDays caps next-available-date scans so a permanently full
	// resource cannot send the scan into an unbounded walk.
	HorizonDays int
}

// FreeSlots returns the chronologically ordered free slots for a resource on
// a date, for the requested service duration. Closed days yield an empty set.
func (r *Resolver) FreeSlots(ctx context.Context, tenantID, date string, durationMinutes int, resourceID string) ([]models.Slot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	cal, err := r.Policies.CalendarFor(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	starts := cal.EnumerateSlotStarts(date, durationMinutes)
	if len(starts) == 0 {
		return nil, nil
	}

	booked, err := r.Repo.ListActiveByResourceDate(ctx, tenantID, resourceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s on %s: %w", resourceID, date, err)
	}

	var free []models.Slot
	for _, start := range starts {
		end := start + durationMinutes
		if overlapsAny(booked, start, end) {
			continue
		}
		free = append(free, models.Slot{
			ResourceID: resourceID,
			Date:       date,
			Start:      start,
			End:        end,
			Label:      utils.IntervalLabel(start, end),
		})
	}
	return free, nil
}

// IsDateAvailable reports whether the date is open and has at least one free
// slot for the duration.
func (r *Resolver) IsDateAvailable(ctx context.Context, tenantID, date string, durationMinutes int, resourceID string) (bool, error) {
	slots, err := r.FreeSlots(ctx, tenantID, date, durationMinutes, resourceID)
	if err != nil {
		return false, err
	}
	return len(slots) > 0, nil
}

// NextAvailableDate scans forward day by day from fromDate (inclusive),
// skipping closed days, and returns the first date with a free slot. The scan
// is capped at HorizonDays; exhausting it returns NoAvailabilityError.
func (r *Resolver) NextAvailableDate(ctx context.Context, tenantID string, durationMinutes int, resourceID, fromDate string) (string, error) {
	if durationMinutes <= 0 {
		return "", fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	cal, err := r.Policies.CalendarFor(ctx, tenantID)
	if err != nil {
		return "", err
	}
	from, err := utils.ParseDate(fromDate, cal.Location())
	if err != nil {
		return "", err
	}

	horizon := r.HorizonDays
	if horizon <= 0 {
		horizon = 90
	}

	for offset := 0; offset < horizon; offset++ {
		date := from.AddDate(0, 0, offset).Format(utils.DateLayout)
		if !cal.IsOpen(date) {
			continue
		}
		slots, err := r.FreeSlots(ctx, tenantID, date, durationMinutes, resourceID)
		if err != nil {
			return "", err
		}
		if len(slots) > 0 {
			return date, nil
		}
	}

	return "", &NoAvailabilityError{
		ResourceID:  resourceID,
		FromDate:    fromDate,
		HorizonDays: horizon,
	}
}

func overlapsAny(bookings []models.Booking, start, end int) bool {
	for i := range bookings {
		if bookings[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}
