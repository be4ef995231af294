// File: database/repository/availability/crud.go
package availabilityRepo

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

func (r *mongoAvailabilityRepo) Upsert(ctx context.Context, availability *models.Availability) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if availability.ID == "" {
		availability.ID = uuid.New().String()
		availability.CreatedAt = now
	}
	availability.UpdatedAt = now

	filter := bson.M{"providerId": availability.ProviderID, "dayOfWeek": availability.DayOfWeek}
	update := bson.M{
		"$set": bson.M{
			"timeSlots": availability.TimeSlots,
			"isActive":  availability.IsActive,
			"updatedAt": availability.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"id":         availability.ID,
			"providerId": availability.ProviderID,
			"dayOfWeek":  availability.DayOfWeek,
			"createdAt":  availability.CreatedAt,
		},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("error upserting availability for provider %s: %w", availability.ProviderID, err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) GetByProviderAndDay(ctx context.Context, providerID string, day models.DayOfWeek) (*models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var availability models.Availability
	err := r.coll.FindOne(ctx, bson.M{"providerId": providerID, "dayOfWeek": day}).Decode(&availability)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching availability for provider %s on %s: %w", providerID, day, err)
	}
	return &availability, nil
}

func (r *mongoAvailabilityRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"providerId": providerID})
	if err != nil {
		return nil, fmt.Errorf("error listing availability for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	var schedules []models.Availability
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("error decoding availability for provider %s: %w", providerID, err)
	}
	return schedules, nil
}

func (r *mongoAvailabilityRepo) Delete(ctx context.Context, providerID string, day models.DayOfWeek) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"providerId": providerID, "dayOfWeek": day})
	if err != nil {
		return fmt.Errorf("error deleting availability for provider %s on %s: %w", providerID, day, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAvailabilityRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Uniqueness invariant: one document per (providerId, dayOfWeek).
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.coll.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("error creating availability indexes: %w", err)
	}
	return nil
}
