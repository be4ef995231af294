// File: database/repository/tracking/interface.go
package trackingRepo

import (
	"context"

	"servilink/database"
	"servilink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// TrackingRepository persists LocationTracking records.
type TrackingRepository interface {
	Create(ctx context.Context, tracking *models.LocationTracking) error
	GetActiveBySession(ctx context.Context, sessionID string) (*models.LocationTracking, error)
	Update(ctx context.Context, tracking *models.LocationTracking) error
	ListBySession(ctx context.Context, sessionID string) ([]models.LocationTracking, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoTrackingRepo struct {
	coll *mongo.Collection
}

// NewMongoTrackingRepo constructs a MongoDB-backed TrackingRepository.
func NewMongoTrackingRepo() TrackingRepository {
	return &mongoTrackingRepo{coll: database.DB().Collection("location_tracking")}
}
