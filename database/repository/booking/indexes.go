// File: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ototakibim/models"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (r *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on booking ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Compound index for the availability query pattern
		{
			Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "resourceId", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("tenant_resource_date_start_idx"),
		},
		// Second line of defense behind the transactional overlap check:
		// two active bookings can never share the exact same start minute.
		{
			Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "resourceId", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_active_slot_start").
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": bson.A{
					models.BookingPending, models.BookingConfirmed, models.BookingCompleted, models.BookingNoShow,
				}}}),
		},
		// Sweeper query patterns
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("status_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("status_date_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	guardIndexes := []mongo.IndexModel{
		// One guard document per slot key; the unique index keeps racing
		// upserts from creating duplicates.
		{
			Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "resourceId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_slot_guard"),
		},
		// Guards for long-gone dates are garbage; let Mongo reap them.
		{
			Keys:    bson.D{{Key: "touchedAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(30 * 24 * 3600).SetName("slot_guard_ttl"),
		},
	}
	if _, err := r.guards.Indexes().CreateMany(ctx, guardIndexes); err != nil {
		return fmt.Errorf("failed to create slot guard indexes: %w", err)
	}
	return nil
}
