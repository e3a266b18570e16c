package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingNoShow    BookingStatus = "no_show"
)

// transitions holds the permitted moves of the booking state machine.
// completed, cancelled and no_show are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled, BookingNoShow},
	BookingConfirmed: {BookingCompleted, BookingCancelled, BookingNoShow},
}

// IsTerminal reports whether no further transitions are permitted from s.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingCompleted, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

// CanTransition reports whether the state machine permits moving from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

// Booking represents a committed appointment for a resource (service bay or
// technician) on a given date. Start and End are minutes from midnight in the
// tenant calendar's timezone; the interval is half-open [Start, End).
type Booking struct {
	ID         string        `bson:"id" json:"id"`
	TenantID   string        `bson:"tenantId" json:"tenantId"`
	ResourceID string        `bson:"resourceId" json:"resourceId"`
	Date       string        `bson:"date" json:"date"` // "2006-01-02"
	Start      int           `bson:"start" json:"start"`
	End        int           `bson:"end" json:"end"`
	Status     BookingStatus `bson:"status" json:"status"`

	// Work-order metadata carried for the shop front desk; not interpreted
	// by the scheduling core.
	CustomerName string `bson:"customerName,omitempty" json:"customerName,omitempty"`
	VehiclePlate string `bson:"vehiclePlate,omitempty" json:"vehiclePlate,omitempty"`
	ServiceType  string `bson:"serviceType,omitempty" json:"serviceType,omitempty"`
	Notes        string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Active reports whether the booking still occupies its interval for
// availability purposes. Cancelled bookings release their slot; every other
// status keeps it.
func (b *Booking) Active() bool {
	return b.Status != BookingCancelled
}

// Overlaps reports whether the half-open interval [start, end) collides with
// the booking's own interval. Caller is expected to have matched resource and
// date already.
func (b *Booking) Overlaps(start, end int) bool {
	return b.Start < end && start < b.End
}
