package models

import "time"

// TrackingStatus advances monotonically: on_route -> at_location -> service_complete.
type TrackingStatus string

const (
	TrackingOnRoute         TrackingStatus = "on_route"
	TrackingAtLocation      TrackingStatus = "at_location"
	TrackingServiceComplete TrackingStatus = "service_complete"
)

// LocationTracking is the live GPS/state record for one session. At most one
// record per session has IsActive=true; completed or stopped records are
// deactivated, never deleted.
type LocationTracking struct {
	ID         string `bson:"id" json:"id"`
	SessionID  string `bson:"sessionId" json:"sessionId"`
	ProviderID string `bson:"providerId" json:"providerId"`
	SeekerID   string `bson:"seekerId" json:"seekerId"`

	CurrentLocation GeoPoint `bson:"currentLocation" json:"currentLocation"`
	ServiceLocation GeoPoint `bson:"serviceLocation" json:"serviceLocation"`

	Status         TrackingStatus `bson:"status" json:"status"`
	DistanceMeters float64        `bson:"distanceMeters" json:"distanceMeters"`
	SpeedKph       float64        `bson:"speedKph,omitempty" json:"speedKph,omitempty"`
	AccuracyMeters float64        `bson:"accuracyMeters,omitempty" json:"accuracyMeters,omitempty"`

	ArrivedAt          *time.Time `bson:"arrivedAt,omitempty" json:"arrivedAt,omitempty"`
	ServiceStartedAt   *time.Time `bson:"serviceStartedAt,omitempty" json:"serviceStartedAt,omitempty"`
	ServiceCompletedAt *time.Time `bson:"serviceCompletedAt,omitempty" json:"serviceCompletedAt,omitempty"`

	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
