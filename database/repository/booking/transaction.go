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

// InsertIfFree re-checks the overlap invariant and inserts the booking inside
// a single MongoDB transaction. Snapshot isolation alone is not enough: two
// racing transactions would each count zero overlaps against the pre-insert
// snapshot, insert distinct documents and both commit (write skew). So the
// transaction first writes the shared guard document for the booking's
// (tenant, resource, date); racing reserves for the same key then touch the
// same document, one of them aborts with a transient transaction error, and
// its driver-level retry re-runs the overlap check against the winner's
// committed insert.
func (r *MongoBookingRepo) InsertIfFree(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		guard := bson.M{
			"tenantId":   b.TenantID,
			"resourceId": b.ResourceID,
			"date":       b.Date,
		}
		if _, err := r.guards.UpdateOne(sc, guard,
			bson.M{"$set": bson.M{"touchedAt": time.Now()}},
			options.Update().SetUpsert(true),
		); err != nil {
			return nil, fmt.Errorf("slot guard write failed: %w", err)
		}

		overlapFilter := bson.M{
			"tenantId":   b.TenantID,
			"resourceId": b.ResourceID,
			"date":       b.Date,
			"status":     bson.M{"$ne": models.BookingCancelled},
			// half-open interval overlap: existing.start < end && start < existing.end
			"start": bson.M{"$lt": b.End},
			"end":   bson.M{"$gt": b.Start},
		}
		n, err := r.coll.CountDocuments(sc, overlapFilter)
		if err != nil {
			return nil, fmt.Errorf("overlap check failed: %w", err)
		}
		if n > 0 {
			return nil, ErrBookingConflict
		}

		if _, err := r.coll.InsertOne(sc, b); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrBookingConflict
			}
			return nil, fmt.Errorf("insert booking failed: %w", err)
		}
		return nil, nil
	})
	return err
}
