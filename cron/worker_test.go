package cron

import (
	"context"
	"testing"
	"time"

	bookingRepo "ototakibim/database/repository/booking"
	calendarRepo "ototakibim/database/repository/calendar"
	"ototakibim/models"
	"ototakibim/services/scheduling"
)

func sweepFixture(t *testing.T) (*scheduling.Coordinator, *bookingRepo.MemoryBookingRepo) {
	t.Helper()

	var hours [7]models.DayHours
	for d := 0; d < 7; d++ {
		hours[d] = models.DayHours{Open: 9 * 60, Close: 17 * 60, IsOpen: true}
	}
	policy := models.CalendarPolicy{
		TenantID:               "tenant-1",
		WorkingHours:           hours,
		SlotGranularityMinutes: 30,
		Timezone:               "UTC",
	}

	repo := bookingRepo.NewMemoryBookingRepo()
	policies, err := scheduling.NewPolicySource(calendarRepo.NewMemoryCalendarRepo(), policy)
	if err != nil {
		t.Fatalf("unexpected error building policy source: %v", err)
	}
	return scheduling.NewCoordinator(repo, policies, nil), repo
}

func seed(t *testing.T, repo *bookingRepo.MemoryBookingRepo, id, date string, status models.BookingStatus, createdAt time.Time) {
	t.Helper()
	err := repo.InsertIfFree(context.Background(), &models.Booking{
		ID:         id,
		TenantID:   "tenant-1",
		ResourceID: "bay-" + id, // separate resources, no overlap concerns
		Date:       date,
		Start:      10 * 60,
		End:        11 * 60,
		Status:     status,
		CreatedAt:  createdAt,
	})
	if err != nil {
		t.Fatalf("failed to seed booking %s: %v", id, err)
	}
}

func TestSweepOnce(t *testing.T) {
	co, repo := sweepFixture(t)
	ctx := context.Background()

	now := time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)
	today := "2024-09-10"
	yesterday := "2024-09-09"
	tomorrow := "2024-09-11"

	// Pending for two hours: past the default TTL, should be cancelled.
	seed(t, repo, "stale", tomorrow, models.BookingPending, now.Add(-2*time.Hour))
	// Fresh pending: untouched.
	seed(t, repo, "fresh", tomorrow, models.BookingPending, now.Add(-5*time.Minute))
	// Confirmed but the date has passed: customer never showed up.
	seed(t, repo, "gone", yesterday, models.BookingConfirmed, now.Add(-48*time.Hour))
	// Confirmed for today: still live.
	seed(t, repo, "today", today, models.BookingConfirmed, now.Add(-24*time.Hour))

	SweepOnce(ctx, co, repo, now)

	want := map[string]models.BookingStatus{
		"stale": models.BookingCancelled,
		"fresh": models.BookingPending,
		"gone":  models.BookingNoShow,
		"today": models.BookingConfirmed,
	}
	for id, status := range want {
		b, err := repo.GetByID(ctx, "tenant-1", id)
		if err != nil {
			t.Fatalf("failed to fetch booking %s: %v", id, err)
		}
		if b.Status != status {
			t.Errorf("booking %s status = %s, want %s", id, b.Status, status)
		}
	}
}

func TestSweepOnce_StalePendingWithElapsedDate(t *testing.T) {
	co, repo := sweepFixture(t)
	ctx := context.Background()

	now := time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)
	// Stale and elapsed at once: the pending-expiry pass cancels it first
	// and the no-show pass must tolerate the terminal state.
	seed(t, repo, "both", "2024-09-08", models.BookingPending, now.Add(-72*time.Hour))

	SweepOnce(ctx, co, repo, now)

	b, err := repo.GetByID(ctx, "tenant-1", "both")
	if err != nil {
		t.Fatalf("failed to fetch booking: %v", err)
	}
	if b.Status != models.BookingCancelled {
		t.Errorf("status = %s, want cancelled", b.Status)
	}
}
