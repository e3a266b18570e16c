package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"

	bookingRepo "ototakibim/database/repository/booking"
	calendarRepo "ototakibim/database/repository/calendar"
	"ototakibim/models"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *bookingRepo.MemoryBookingRepo) {
	t.Helper()
	repo := bookingRepo.NewMemoryBookingRepo()
	policies, err := NewPolicySource(calendarRepo.NewMemoryCalendarRepo(), weekdayPolicy())
	if err != nil {
		t.Fatalf("unexpected error building policy source: %v", err)
	}
	return NewCoordinator(repo, policies, nil), repo
}

func TestCoordinator_Reserve_ConflictScenario(t *testing.T) {
	co, _ := newTestCoordinator(t)
	ctx := context.Background()

	// Monday 09:00 for 60 minutes succeeds.
	first, err := co.Reserve(ctx, testTenant, ReserveRequest{
		ResourceID: "bay1", Date: "2024-09-02", Start: 9 * 60, DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}
	if first.Status != models.BookingPending {
		t.Errorf("new booking status = %s, want pending", first.Status)
	}
	if first.End != 10*60 {
		t.Errorf("booking end = %d, want 600", first.End)
	}

	// 09:30 overlaps [09:00, 10:00) and must be rejected.
	_, err = co.Reserve(ctx, testTenant, ReserveRequest{
		ResourceID: "bay1", Date: "2024-09-02", Start: 9*60 + 30, DurationMinutes: 60,
	})
	var slotErr *SlotUnavailableError
	if !errors.As(err, &slotErr) {
		t.Fatalf("expected SlotUnavailableError, got %v", err)
	}

	// 10:00 abuts but does not overlap, so it succeeds.
	if _, err := co.Reserve(ctx, testTenant, ReserveRequest{
		ResourceID: "bay1", Date: "2024-09-02", Start: 10 * 60, DurationMinutes: 60,
	}); err != nil {
		t.Fatalf("abutting reservation failed: %v", err)
	}
}

func TestCoordinator_Reserve_ClosedAndOutOfHours(t *testing.T) {
	co, _ := newTestCoordinator(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  ReserveRequest
	}{
		{"saturday", ReserveRequest{ResourceID: "bay1", Date: "2024-09-07", Start: 10 * 60, DurationMinutes: 60}},
		{"before opening", ReserveRequest{ResourceID: "bay1", Date: "2024-09-02", Start: 8 * 60, DurationMinutes: 60}},
		{"spills past closing", ReserveRequest{ResourceID: "bay1", Date: "2024-09-02", Start: 16*60 + 30, DurationMinutes: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := co.Reserve(ctx, testTenant, tt.req)
			var slotErr *SlotUnavailableError
			if !errors.As(err, &slotErr) {
				t.Fatalf("expected SlotUnavailableError, got %v", err)
			}
		})
	}
}

func TestCoordinator_Reserve_DifferentResourcesDoNotConflict(t *testing.T) {
	co, _ := newTestCoordinator(t)
	ctx := context.Background()

	if _, err := co.Reserve(ctx, testTenant, ReserveRequest{
		ResourceID: "bay1", Date: "2024-09-02", Start: 9 * 60, DurationMinutes: 60,
	}); err != nil {
		t.Fatalf("bay1 reservation failed: %v", err)
	}
	if _, err := co.Reserve(ctx, testTenant, ReserveRequest{
		ResourceID: "bay2", Date: "2024-09-02", Start: 9 * 60, DurationMinutes: 60,
	}); err != nil {
		t.Fatalf("bay2 reservation failed: %v", err)
	}
}

func TestCoordinator_Reserve_ConcurrentStorm(t *testing.T) {
	co, repo := newTestCoordinator(t)
	ctx := context.Background()

	// 40 goroutines race for heavily overlapping Monday slots. Whatever
	// subset commits, the committed set must be pairwise non-overlapping.
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := 9*60 + (i%16)*30
			_, _ = co.Reserve(ctx, testTenant, ReserveRequest{
				ResourceID: "bay1", Date: "2024-09-02", Start: start, DurationMinutes: 60,
			})
		}(i)
	}
	wg.Wait()

	committed, err := repo.ListActiveByResourceDate(ctx, testTenant, "bay1", "2024-09-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(committed) == 0 {
		t.Fatalf("expected at least one reservation to commit")
	}
	for i := 0; i < len(committed); i++ {
		for j := i + 1; j < len(committed); j++ {
			a, b := committed[i], committed[j]
			if a.Overlaps(b.Start, b.End) {
				t.Fatalf("double booking committed: [%d,%d) and [%d,%d)", a.Start, a.End, b.Start, b.End)
			}
		}
	}
}

func TestCoordinator_Lifecycle(t *testing.T) {
	co, _ := newTestCoordinator(t)
	ctx := context.Background()

	reserve := func(start int) *models.Booking {
		t.Helper()
		b, err := co.Reserve(ctx, testTenant, ReserveRequest{
			ResourceID: "bay1", Date: "2024-09-02", Start: start, DurationMinutes: 30,
		})
		if err != nil {
			t.Fatalf("reservation failed: %v", err)
		}
		return b
	}

	t.Run("pending to confirmed to completed", func(t *testing.T) {
		b := reserve(9 * 60)
		if _, err := co.Confirm(ctx, testTenant, b.ID); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}
		done, err := co.Complete(ctx, testTenant, b.ID)
		if err != nil {
			t.Fatalf("complete failed: %v", err)
		}
		if done.Status != models.BookingCompleted {
			t.Errorf("status = %s, want completed", done.Status)
		}
	})

	t.Run("pending cannot complete", func(t *testing.T) {
		b := reserve(10 * 60)
		_, err := co.Complete(ctx, testTenant, b.ID)
		var invalid *InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})

	t.Run("cancel frees the slot for rebooking", func(t *testing.T) {
		b := reserve(11 * 60)
		if _, err := co.Cancel(ctx, testTenant, b.ID); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		if _, err := co.Reserve(ctx, testTenant, ReserveRequest{
			ResourceID: "bay1", Date: "2024-09-02", Start: 11 * 60, DurationMinutes: 30,
		}); err != nil {
			t.Fatalf("rebooking a cancelled slot failed: %v", err)
		}
	})

	t.Run("no-show from confirmed", func(t *testing.T) {
		b := reserve(12 * 60)
		if _, err := co.Confirm(ctx, testTenant, b.ID); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}
		got, err := co.MarkNoShow(ctx, testTenant, b.ID)
		if err != nil {
			t.Fatalf("no-show failed: %v", err)
		}
		if got.Status != models.BookingNoShow {
			t.Errorf("status = %s, want no_show", got.Status)
		}
	})

	t.Run("terminal states reject every transition", func(t *testing.T) {
		b := reserve(13 * 60)
		if _, err := co.Cancel(ctx, testTenant, b.ID); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}

		ops := map[string]func(context.Context, string, string) (*models.Booking, error){
			"confirm":  co.Confirm,
			"cancel":   co.Cancel,
			"complete": co.Complete,
			"no-show":  co.MarkNoShow,
		}
		for name, op := range ops {
			_, err := op(ctx, testTenant, b.ID)
			var invalid *InvalidTransitionError
			if !errors.As(err, &invalid) {
				t.Errorf("%s on a cancelled booking: expected InvalidTransitionError, got %v", name, err)
			}
		}
	})

	t.Run("unknown booking id", func(t *testing.T) {
		_, err := co.Confirm(ctx, testTenant, "nope")
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("booking invisible to other tenants", func(t *testing.T) {
		b := reserve(14 * 60)
		_, err := co.Get(ctx, "tenant-2", b.ID)
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError for foreign tenant, got %v", err)
		}
	})
}
