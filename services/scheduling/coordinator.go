package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "ototakibim/database/repository/booking"
	"ototakibim/models"
	"ototakibim/utils"
)

// ReserveRequest carries everything needed to claim a slot.
type ReserveRequest struct {
	ResourceID      string
	Date            string // "2006-01-02"
	Start           int    // minutes from midnight
	DurationMinutes int

	CustomerName string
	VehiclePlate string
	ServiceType  string
	Notes        string
}

// Coordinator owns the authoritative booking set. Reserve treats the overlap
// re-check and the insert as one atomic unit per (tenant, resource, date):
// an in-process keyed mutex serializes local contenders and the repository's
// transactional InsertIfFree closes the race against other writers. It is the
// only layer that translates a storage conflict into SlotUnavailableError.
type Coordinator struct {
	Repo     bookingRepo.BookingRepository
	Policies *PolicySource
	Cache    AvailabilityInvalidator // optional

	locks *keyedMutex
}

// NewCoordinator wires a coordinator; cache may be nil.
func NewCoordinator(repo bookingRepo.BookingRepository, policies *PolicySource, cache AvailabilityInvalidator) *Coordinator {
	return &Coordinator{
		Repo:     repo,
		Policies: policies,
		Cache:    cache,
		locks:    newKeyedMutex(),
	}
}

// Reserve validates the slot against the tenant calendar, re-checks the
// overlap invariant against the current committed set and commits the booking
// in pending status. A conflict fails fast with SlotUnavailableError; the
// caller should re-query free slots and pick again.
func (co *Coordinator) Reserve(ctx context.Context, tenantID string, req ReserveRequest) (*models.Booking, error) {
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", req.DurationMinutes)
	}
	end := req.Start + req.DurationMinutes

	cal, err := co.Policies.CalendarFor(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if _, err := utils.ParseDate(req.Date, cal.Location()); err != nil {
		return nil, err
	}

	open, close, ok := cal.OpenInterval(req.Date)
	if !ok {
		return nil, &SlotUnavailableError{
			ResourceID: req.ResourceID, Date: req.Date, Start: req.Start, End: end,
			Reason: "the shop is closed on this date",
		}
	}
	if req.Start < open || end > close {
		return nil, &SlotUnavailableError{
			ResourceID: req.ResourceID, Date: req.Date, Start: req.Start, End: end,
			Reason: fmt.Sprintf("outside working hours %s", utils.IntervalLabel(open, close)),
		}
	}

	key := slotKey(tenantID, req.ResourceID, req.Date)
	co.locks.lock(key)
	defer co.locks.unlock(key)

	now := time.Now()
	booking := &models.Booking{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		ResourceID:   req.ResourceID,
		Date:         req.Date,
		Start:        req.Start,
		End:          end,
		Status:       models.BookingPending,
		CustomerName: req.CustomerName,
		VehiclePlate: req.VehiclePlate,
		ServiceType:  req.ServiceType,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := co.Repo.InsertIfFree(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingConflict) {
			return nil, &SlotUnavailableError{
				ResourceID: req.ResourceID, Date: req.Date, Start: req.Start, End: end,
				Reason: "overlaps an existing booking",
			}
		}
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	co.invalidate(ctx, tenantID, req.ResourceID, req.Date)
	utils.GetLogger().Info("booking reserved",
		zap.String("bookingId", booking.ID),
		zap.String("tenantId", tenantID),
		zap.String("resourceId", req.ResourceID),
		zap.String("date", req.Date),
		zap.String("interval", utils.IntervalLabel(req.Start, end)),
	)
	return booking, nil
}

// Confirm moves a pending booking to confirmed.
func (co *Coordinator) Confirm(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	return co.transition(ctx, tenantID, bookingID, models.BookingConfirmed)
}

// Cancel moves a pending or confirmed booking to cancelled, releasing its slot.
func (co *Coordinator) Cancel(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	return co.transition(ctx, tenantID, bookingID, models.BookingCancelled)
}

// Complete moves a confirmed booking to completed.
func (co *Coordinator) Complete(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	return co.transition(ctx, tenantID, bookingID, models.BookingCompleted)
}

// MarkNoShow moves a pending or confirmed booking to no_show.
func (co *Coordinator) MarkNoShow(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	return co.transition(ctx, tenantID, bookingID, models.BookingNoShow)
}

// Get fetches a booking scoped to a tenant.
func (co *Coordinator) Get(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	b, err := co.Repo.GetByID(ctx, tenantID, bookingID)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, &NotFoundError{BookingID: bookingID}
	}
	return b, err
}

// List returns all bookings for a resource on a date, cancelled included.
func (co *Coordinator) List(ctx context.Context, tenantID, resourceID, date string) ([]models.Booking, error) {
	return co.Repo.ListByResourceDate(ctx, tenantID, resourceID, date)
}

func (co *Coordinator) transition(ctx context.Context, tenantID, bookingID string, to models.BookingStatus) (*models.Booking, error) {
	// Conditional update keyed on the observed status; retried a few times
	// so a racing transition surfaces as InvalidTransitionError against the
	// freshest state instead of a spurious storage error.
	for attempt := 0; attempt < 3; attempt++ {
		current, err := co.Repo.GetByID(ctx, tenantID, bookingID)
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, &NotFoundError{BookingID: bookingID}
		}
		if err != nil {
			return nil, err
		}

		if !current.Status.CanTransition(to) {
			return nil, &InvalidTransitionError{BookingID: bookingID, From: current.Status, To: to}
		}

		updated, err := co.Repo.UpdateStatus(ctx, tenantID, bookingID, current.Status, to)
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			continue
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, &NotFoundError{BookingID: bookingID}
		}
		if err != nil {
			return nil, err
		}

		if to == models.BookingCancelled {
			co.invalidate(ctx, tenantID, updated.ResourceID, updated.Date)
		}
		utils.GetLogger().Info("booking transitioned",
			zap.String("bookingId", bookingID),
			zap.String("from", string(current.Status)),
			zap.String("to", string(to)),
		)
		return updated, nil
	}
	return nil, fmt.Errorf("booking %s status kept changing concurrently", bookingID)
}

func (co *Coordinator) invalidate(ctx context.Context, tenantID, resourceID, date string) {
	if co.Cache != nil {
		co.Cache.Invalidate(ctx, tenantID, resourceID, date)
	}
}
