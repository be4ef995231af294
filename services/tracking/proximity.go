// File: services/tracking/proximity.go
package tracking

// TrackingEvent is a state-machine event produced by a policy evaluation.
type TrackingEvent string

const (
	// EventArrived fires when the provider comes within the arrival radius of
	// the service point while still on route.
	EventArrived TrackingEvent = "arrived"
)

// ProximityPolicy turns a recomputed distance into an explicit tracking event.
// Keeping the auto-arrival decision here, instead of inlined in the location
// update, makes the implicit transition auditable and testable.
type ProximityPolicy struct {
	ArrivalRadiusMeters float64
}

// Evaluate returns the event the distance triggers, or nil when none does.
func (p ProximityPolicy) Evaluate(distanceMeters float64) *TrackingEvent {
	radius := p.ArrivalRadiusMeters
	if radius <= 0 {
		radius = 100
	}
	if distanceMeters <= radius {
		event := EventArrived
		return &event
	}
	return nil
}
