package bookingRepo

import (
	"context"
	"errors"
	"time"

	"ototakibim/models"
)

// ErrBookingNotFound is returned when a booking id does not exist for the tenant.
var ErrBookingNotFound = errors.New("booking not found")

// ErrBookingConflict is returned by InsertIfFree when the requested interval
// overlaps an existing non-cancelled booking for the same resource and date.
var ErrBookingConflict = errors.New("booking conflicts with an existing booking")

// ErrStatusConflict is returned by a conditional status update whose expected
// current status no longer matches the stored one.
var ErrStatusConflict = errors.New("booking status changed concurrently")

// BookingRepository is the persistence collaborator of the scheduling core.
// Implementations must make InsertIfFree atomic: the overlap check and the
// insert observe and modify the same committed state.
type BookingRepository interface {
	// InsertIfFree inserts b unless a non-cancelled booking for the same
	// (tenant, resource, date) overlaps [b.Start, b.End); in that case it
	// returns ErrBookingConflict and stores nothing.
	InsertIfFree(ctx context.Context, b *models.Booking) error

	// GetByID fetches a booking scoped to a tenant.
	GetByID(ctx context.Context, tenantID, id string) (*models.Booking, error)

	// ListByResourceDate returns all bookings for a resource on a date,
	// ordered by start time.
	ListByResourceDate(ctx context.Context, tenantID, resourceID, date string) ([]models.Booking, error)

	// ListActiveByResourceDate is ListByResourceDate restricted to
	// non-cancelled bookings; this is the availability snapshot.
	ListActiveByResourceDate(ctx context.Context, tenantID, resourceID, date string) ([]models.Booking, error)

	// UpdateStatus transitions a booking from an expected current status to
	// a new one. Returns ErrBookingNotFound if the id is unknown and
	// ErrStatusConflict if the stored status is not `from` anymore.
	UpdateStatus(ctx context.Context, tenantID, id string, from, to models.BookingStatus) (*models.Booking, error)

	// ListStalePending returns pending bookings created before the cutoff,
	// across all tenants. Used by the lifecycle sweeper.
	ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error)

	// ListElapsed returns pending or confirmed bookings whose date is
	// strictly before the given "2006-01-02" date, across all tenants.
	ListElapsed(ctx context.Context, beforeDate string) ([]models.Booking, error)
}
