package calendarRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ototakibim/database"
	"ototakibim/models"
)

const calendarCollection = "calendars"

// MongoCalendarRepo is the MongoDB-backed CalendarRepository.
type MongoCalendarRepo struct {
	coll *mongo.Collection
}

// NewMongoCalendarRepo returns a repository bound to the application database.
func NewMongoCalendarRepo() *MongoCalendarRepo {
	return &MongoCalendarRepo{coll: database.Database().Collection(calendarCollection)}
}

func (r *MongoCalendarRepo) GetByTenant(ctx context.Context, tenantID string) (*models.CalendarPolicy, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.CalendarPolicy
	err := r.coll.FindOne(ctx, bson.M{"tenantId": tenantID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar policy for tenant %s: %w", tenantID, err)
	}
	return &p, nil
}

func (r *MongoCalendarRepo) Upsert(ctx context.Context, policy *models.CalendarPolicy) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	policy.UpdatedAt = time.Now()
	filter := bson.M{"tenantId": policy.TenantID}
	update := bson.M{"$set": policy}
	opts := options.Update().SetUpsert(true)

	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert calendar policy for tenant %s: %w", policy.TenantID, err)
	}
	return nil
}

// EnsureIndexes creates the tenant lookup index on the calendars collection.
func (r *MongoCalendarRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenantId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_tenant"),
	})
	if err != nil {
		return fmt.Errorf("failed to create calendar indexes: %w", err)
	}
	return nil
}
