// File: services/tracking/interface.go
package tracking

import (
	"context"

	trackingRepo "servilink/database/repository/tracking"
	"servilink/models"
	"servilink/services/session"
)

// StartTrackingInput opens live tracking for a session.
type StartTrackingInput struct {
	SessionID       string
	ActorID         string
	Role            string
	CurrentLocation models.GeoPoint
}

// LocationUpdateInput is one GPS ping from the provider.
type LocationUpdateInput struct {
	SessionID       string
	ActorID         string
	Role            string
	CurrentLocation models.GeoPoint
	SpeedKph        float64
	AccuracyMeters  float64
}

// Service is the per-session location tracking coordinator. Every mutating
// operation is identity-checked against the tracking record's provider or
// seeker, with an admin bypass.
type Service interface {
	StartTracking(ctx context.Context, input StartTrackingInput) (*models.LocationTracking, error)
	UpdateLocation(ctx context.Context, input LocationUpdateInput) (*models.LocationTracking, error)
	MarkArrived(ctx context.Context, sessionID, actorID, role string) (*models.LocationTracking, error)
	MarkServiceStarted(ctx context.Context, sessionID, actorID, role string) (*models.LocationTracking, error)
	CompleteService(ctx context.Context, sessionID, actorID, role string) (*models.LocationTracking, error)
	StopTracking(ctx context.Context, sessionID, actorID, role string) (*models.LocationTracking, error)
	GetActiveTracking(ctx context.Context, sessionID, actorID, role string) (*models.LocationTracking, error)
}

// DefaultTrackingService implements Service.
type DefaultTrackingService struct {
	Repo      trackingRepo.TrackingRepository
	Sessions  session.Service
	Proximity ProximityPolicy
}
