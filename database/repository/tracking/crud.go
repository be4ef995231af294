// File: database/repository/tracking/crud.go
package trackingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servilink/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoTrackingRepo) Create(ctx context.Context, tracking *models.LocationTracking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if tracking.ID == "" {
		tracking.ID = uuid.New().String()
	}
	now := time.Now()
	tracking.CreatedAt = now
	tracking.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, tracking); err != nil {
		return fmt.Errorf("error creating tracking record: %w", err)
	}
	return nil
}

func (r *mongoTrackingRepo) GetActiveBySession(ctx context.Context, sessionID string) (*models.LocationTracking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tracking models.LocationTracking
	err := r.coll.FindOne(ctx, bson.M{"sessionId": sessionID, "isActive": true}).Decode(&tracking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching active tracking for session %s: %w", sessionID, err)
	}
	return &tracking, nil
}

func (r *mongoTrackingRepo) Update(ctx context.Context, tracking *models.LocationTracking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tracking.UpdatedAt = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": tracking.ID}, bson.M{"$set": tracking})
	if err != nil {
		return fmt.Errorf("error updating tracking record %s: %w", tracking.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("tracking record %s not found", tracking.ID)
	}
	return nil
}

func (r *mongoTrackingRepo) ListBySession(ctx context.Context, sessionID string) ([]models.LocationTracking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return nil, fmt.Errorf("error listing tracking for session %s: %w", sessionID, err)
	}
	defer cursor.Close(ctx)

	var records []models.LocationTracking
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding tracking for session %s: %w", sessionID, err)
	}
	return records, nil
}

func (r *mongoTrackingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Partial unique index enforces the at-most-one-active-record invariant at
	// the store level; deactivated records stay behind as history.
	index := mongo.IndexModel{
		Keys: bson.D{{Key: "sessionId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"isActive": true}),
	}
	if _, err := r.coll.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("error creating tracking indexes: %w", err)
	}
	return nil
}
