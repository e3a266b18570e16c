package bookingRepo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"ototakibim/database"
)

const (
	bookingCollection = "bookings"

	// slotGuardCollection holds one document per (tenant, resource, date)
	// that every InsertIfFree transaction writes, so concurrent reserves
	// for the same key conflict instead of committing side by side.
	slotGuardCollection = "booking_slot_guards"
)

// MongoBookingRepo is the MongoDB-backed BookingRepository.
type MongoBookingRepo struct {
	coll   *mongo.Collection
	guards *mongo.Collection
}

// NewMongoBookingRepo returns a repository bound to the application database.
func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.Database()
	return &MongoBookingRepo{
		coll:   db.Collection(bookingCollection),
		guards: db.Collection(slotGuardCollection),
	}
}
