package bookingRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"ototakibim/models"
)

// MemoryBookingRepo is an in-process BookingRepository used by tests and the
// "memory" storage driver. A single mutex makes InsertIfFree's check-then-act
// atomic, matching the transactional guarantee of the Mongo implementation.
type MemoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking // keyed by booking id
}

// NewMemoryBookingRepo returns an empty in-memory repository.
func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *MemoryBookingRepo) InsertIfFree(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.bookings {
		if existing.TenantID != b.TenantID ||
			existing.ResourceID != b.ResourceID ||
			existing.Date != b.Date ||
			!existing.Active() {
			continue
		}
		if existing.Overlaps(b.Start, b.End) {
			return ErrBookingConflict
		}
	}

	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, tenantID, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.TenantID != tenantID {
		return nil, ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (r *MemoryBookingRepo) ListByResourceDate(_ context.Context, tenantID, resourceID, date string) ([]models.Booking, error) {
	return r.filter(func(b *models.Booking) bool {
		return b.TenantID == tenantID && b.ResourceID == resourceID && b.Date == date
	}), nil
}

func (r *MemoryBookingRepo) ListActiveByResourceDate(_ context.Context, tenantID, resourceID, date string) ([]models.Booking, error) {
	return r.filter(func(b *models.Booking) bool {
		return b.TenantID == tenantID && b.ResourceID == resourceID && b.Date == date && b.Active()
	}), nil
}

func (r *MemoryBookingRepo) UpdateStatus(_ context.Context, tenantID, id string, from, to models.BookingStatus) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.TenantID != tenantID {
		return nil, ErrBookingNotFound
	}
	if b.Status != from {
		return nil, ErrStatusConflict
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	out := *b
	return &out, nil
}

func (r *MemoryBookingRepo) ListStalePending(_ context.Context, cutoff time.Time) ([]models.Booking, error) {
	return r.filter(func(b *models.Booking) bool {
		return b.Status == models.BookingPending && b.CreatedAt.Before(cutoff)
	}), nil
}

func (r *MemoryBookingRepo) ListElapsed(_ context.Context, beforeDate string) ([]models.Booking, error) {
	return r.filter(func(b *models.Booking) bool {
		return (b.Status == models.BookingPending || b.Status == models.BookingConfirmed) && b.Date < beforeDate
	}), nil
}

func (r *MemoryBookingRepo) filter(keep func(*models.Booking) bool) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Start < out[j].Start
	})
	return out
}
