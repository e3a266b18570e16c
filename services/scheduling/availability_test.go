package scheduling

import (
	"context"
	"errors"
	"reflect"
	"testing"

	bookingRepo "ototakibim/database/repository/booking"
	calendarRepo "ototakibim/database/repository/calendar"
	"ototakibim/models"
)

const testTenant = "tenant-1"

func newTestResolver(t *testing.T) (*Resolver, *bookingRepo.MemoryBookingRepo) {
	t.Helper()
	repo := bookingRepo.NewMemoryBookingRepo()
	policies, err := NewPolicySource(calendarRepo.NewMemoryCalendarRepo(), weekdayPolicy())
	if err != nil {
		t.Fatalf("unexpected error building policy source: %v", err)
	}
	return &Resolver{Repo: repo, Policies: policies, HorizonDays: 90}, repo
}

func seedBooking(t *testing.T, repo *bookingRepo.MemoryBookingRepo, id, date string, start, end int, status models.BookingStatus) {
	t.Helper()
	err := repo.InsertIfFree(context.Background(), &models.Booking{
		ID:         id,
		TenantID:   testTenant,
		ResourceID: "bay1",
		Date:       date,
		Start:      start,
		End:        end,
		Status:     status,
	})
	if err != nil {
		t.Fatalf("failed to seed booking %s: %v", id, err)
	}
}

func slotStarts(slots []models.Slot) []int {
	var starts []int
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	return starts
}

func TestResolver_FreeSlots_ClosedDayIsEmpty(t *testing.T) {
	resolver, _ := newTestResolver(t)

	slots, err := resolver.FreeSlots(context.Background(), testTenant, "2024-09-07", 60, "bay1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on Saturday, got %d", len(slots))
	}
}

func TestResolver_FreeSlots_ExcludesOverlaps(t *testing.T) {
	resolver, repo := newTestResolver(t)
	// Monday 10:00-11:00 occupied.
	seedBooking(t, repo, "b1", "2024-09-02", 10*60, 11*60, models.BookingConfirmed)

	slots, err := resolver.FreeSlots(context.Background(), testTenant, "2024-09-02", 60, "bay1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range slots {
		if s.Start < 11*60 && 10*60 < s.End {
			t.Errorf("slot %s overlaps the 10:00-11:00 booking", s.Label)
		}
	}
	// 09:00 abuts the booking and must survive; 09:30 and 10:30 must not.
	starts := slotStarts(slots)
	wantPresent, wantAbsent := 9*60, 9*60+30
	found := map[int]bool{}
	for _, s := range starts {
		found[s] = true
	}
	if !found[wantPresent] {
		t.Errorf("expected 09:00 slot to remain available")
	}
	if found[wantAbsent] || found[10*60+30] {
		t.Errorf("expected 09:30 and 10:30 slots to be excluded, got %v", starts)
	}
}

func TestResolver_FreeSlots_CancelledBookingFreesInterval(t *testing.T) {
	resolver, repo := newTestResolver(t)
	seedBooking(t, repo, "b1", "2024-09-02", 10*60, 11*60, models.BookingCancelled)

	slots, err := resolver.FreeSlots(context.Background(), testTenant, "2024-09-02", 60, "bay1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range slots {
		if s.Start == 10*60 {
			return
		}
	}
	t.Fatalf("expected the cancelled 10:00 interval to be offered again")
}

func TestResolver_FreeSlots_IdempotentRead(t *testing.T) {
	resolver, repo := newTestResolver(t)
	seedBooking(t, repo, "b1", "2024-09-02", 9*60, 10*60, models.BookingPending)

	first, err := resolver.FreeSlots(context.Background(), testTenant, "2024-09-02", 30, "bay1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := resolver.FreeSlots(context.Background(), testTenant, "2024-09-02", 30, "bay1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two reads without writes differ:\n%v\n%v", first, second)
	}
}

func TestResolver_IsDateAvailable(t *testing.T) {
	resolver, repo := newTestResolver(t)

	ok, err := resolver.IsDateAvailable(context.Background(), testTenant, "2024-09-02", 60, "bay1")
	if err != nil || !ok {
		t.Fatalf("expected Monday to be available, got (%v, %v)", ok, err)
	}

	ok, err = resolver.IsDateAvailable(context.Background(), testTenant, "2024-09-08", 60, "bay1")
	if err != nil || ok {
		t.Fatalf("expected Sunday to be unavailable, got (%v, %v)", ok, err)
	}

	// Fill the whole Monday; the date flips to unavailable.
	seedBooking(t, repo, "full", "2024-09-02", 9*60, 17*60, models.BookingConfirmed)
	ok, err = resolver.IsDateAvailable(context.Background(), testTenant, "2024-09-02", 60, "bay1")
	if err != nil || ok {
		t.Fatalf("expected fully booked Monday to be unavailable, got (%v, %v)", ok, err)
	}
}

func TestResolver_NextAvailableDate_SkipsWeekend(t *testing.T) {
	resolver, _ := newTestResolver(t)

	// Saturday 2024-09-07: the next open day with room is Monday the 9th.
	got, err := resolver.NextAvailableDate(context.Background(), testTenant, 60, "bay1", "2024-09-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-09-09" {
		t.Fatalf("NextAvailableDate = %s, want 2024-09-09", got)
	}
}

func TestResolver_NextAvailableDate_FromDateInclusive(t *testing.T) {
	resolver, _ := newTestResolver(t)

	got, err := resolver.NextAvailableDate(context.Background(), testTenant, 60, "bay1", "2024-09-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-09-02" {
		t.Fatalf("NextAvailableDate = %s, want the from date itself", got)
	}
}

func TestResolver_NextAvailableDate_SkipsFullDays(t *testing.T) {
	resolver, repo := newTestResolver(t)
	seedBooking(t, repo, "full-monday", "2024-09-02", 9*60, 17*60, models.BookingConfirmed)

	got, err := resolver.NextAvailableDate(context.Background(), testTenant, 60, "bay1", "2024-09-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-09-03" {
		t.Fatalf("NextAvailableDate = %s, want 2024-09-03", got)
	}
}

func TestResolver_NextAvailableDate_HorizonExhaustion(t *testing.T) {
	resolver, _ := newTestResolver(t)
	resolver.HorizonDays = 14

	// A 9-hour service never fits an 8-hour day: the scan must terminate
	// at the horizon instead of walking forever.
	_, err := resolver.NextAvailableDate(context.Background(), testTenant, 9*60, "bay1", "2024-09-02")
	var noAvail *NoAvailabilityError
	if !errors.As(err, &noAvail) {
		t.Fatalf("expected NoAvailabilityError, got %v", err)
	}
	if noAvail.HorizonDays != 14 {
		t.Errorf("error reports horizon %d, want 14", noAvail.HorizonDays)
	}
}

func TestResolver_FreeSlots_RejectsNonPositiveDuration(t *testing.T) {
	resolver, _ := newTestResolver(t)
	if _, err := resolver.FreeSlots(context.Background(), testTenant, "2024-09-02", 0, "bay1"); err == nil {
		t.Fatalf("expected error for zero duration")
	}
}
