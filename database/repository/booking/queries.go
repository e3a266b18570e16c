package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ototakibim/models"
)

func (r *MongoBookingRepo) ListByResourceDate(ctx context.Context, tenantID, resourceID, date string) ([]models.Booking, error) {
	filter := bson.M{"tenantId": tenantID, "resourceId": resourceID, "date": date}
	return r.list(ctx, filter)
}

func (r *MongoBookingRepo) ListActiveByResourceDate(ctx context.Context, tenantID, resourceID, date string) ([]models.Booking, error) {
	filter := bson.M{
		"tenantId":   tenantID,
		"resourceId": resourceID,
		"date":       date,
		"status":     bson.M{"$ne": models.BookingCancelled},
	}
	return r.list(ctx, filter)
}

func (r *MongoBookingRepo) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status":    models.BookingPending,
		"createdAt": bson.M{"$lt": cutoff},
	}
	return r.list(ctx, filter)
}

func (r *MongoBookingRepo) ListElapsed(ctx context.Context, beforeDate string) ([]models.Booking, error) {
	filter := bson.M{
		"status": bson.M{"$in": bson.A{models.BookingPending, models.BookingConfirmed}},
		"date":   bson.M{"$lt": beforeDate},
	}
	return r.list(ctx, filter)
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
