// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"

	"servilink/database"
	"servilink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AvailabilityRepository persists per-provider weekly schedules.
type AvailabilityRepository interface {
	// Upsert writes the schedule for (providerId, dayOfWeek), replacing any
	// existing document for that pair.
	Upsert(ctx context.Context, availability *models.Availability) error
	GetByProviderAndDay(ctx context.Context, providerID string, day models.DayOfWeek) (*models.Availability, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Availability, error)
	Delete(ctx context.Context, providerID string, day models.DayOfWeek) error
	EnsureIndexes(ctx context.Context) error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB-backed AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &mongoAvailabilityRepo{coll: database.DB().Collection("availabilities")}
}
