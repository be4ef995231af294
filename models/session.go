package models

import "time"

// SessionStatus is the lifecycle state of a session.
type SessionStatus string

const (
	StatusPendingAssignment SessionStatus = "pending_assignment"
	StatusAssigned          SessionStatus = "assigned"
	StatusConfirmed         SessionStatus = "confirmed"
	StatusInProgress        SessionStatus = "in_progress"
	StatusCompleted         SessionStatus = "completed"
	StatusCancelled         SessionStatus = "cancelled"
	StatusRejected          SessionStatus = "rejected"

	// StatusPending is the direct-booking state used when admin assignment is
	// disabled: the provider is fixed at creation and confirms the session himself.
	StatusPending SessionStatus = "pending"
)

// Terminal reports whether no further status transition is permitted.
func (s SessionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// ActiveStatuses are the states that hold a provider's time: any session in one
// of these blocks overlapping bookings for the same provider and date.
func ActiveStatuses() []SessionStatus {
	return []SessionStatus{
		StatusPending,
		StatusPendingAssignment,
		StatusAssigned,
		StatusConfirmed,
		StatusInProgress,
	}
}

// PaymentStatus is tracked independently of the session status.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Session is a single booking between a seeker and (eventually) a provider.
type Session struct {
	ID          string          `bson:"id" json:"id"`
	SeekerID    string          `bson:"seekerId" json:"seekerId"`
	ProviderID  string          `bson:"providerId,omitempty" json:"providerId,omitempty"`
	ServiceID   string          `bson:"serviceId" json:"serviceId"`
	ServiceName string          `bson:"serviceName" json:"serviceName"`
	Category    ServiceCategory `bson:"category" json:"category"`

	SessionDate   string  `bson:"sessionDate" json:"sessionDate"` // "2006-01-02"
	StartTime     string  `bson:"startTime" json:"startTime"`     // "HH:mm"
	EndTime       string  `bson:"endTime" json:"endTime"`         // "HH:mm"
	DurationHours float64 `bson:"durationHours" json:"durationHours"`
	BaseDuration  float64 `bson:"baseDuration" json:"baseDuration"`
	OvertimeHours float64 `bson:"overtimeHours" json:"overtimeHours"`

	// Pricing snapshot, recomputed only when the duration changes.
	BasePrice     float64 `bson:"basePrice" json:"basePrice"`
	OvertimePrice float64 `bson:"overtimePrice" json:"overtimePrice"`
	TotalAmount   float64 `bson:"totalAmount" json:"totalAmount"`
	Currency      string  `bson:"currency" json:"currency"`

	Status        SessionStatus `bson:"status" json:"status"`
	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`

	// Assignment metadata (admin-mediated flow).
	AssignedBy      string     `bson:"assignedBy,omitempty" json:"assignedBy,omitempty"`
	AssignedAt      *time.Time `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	AssignmentNotes string     `bson:"assignmentNotes,omitempty" json:"assignmentNotes,omitempty"`

	RejectionReason string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	RejectedBy      string     `bson:"rejectedBy,omitempty" json:"rejectedBy,omitempty"`
	RejectedAt      *time.Time `bson:"rejectedAt,omitempty" json:"rejectedAt,omitempty"`

	CancellationReason string     `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancelledBy        string     `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`

	ServiceLocation Province `bson:"serviceLocation" json:"serviceLocation"`
	Address         string   `bson:"address,omitempty" json:"address,omitempty"`
	Latitude        *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude       *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`

	Instructions string `bson:"instructions,omitempty" json:"instructions,omitempty"`

	// Mutual post-completion ratings: the seeker rates the provider and vice versa.
	SeekerRating   int    `bson:"seekerRating,omitempty" json:"seekerRating,omitempty"`
	SeekerReview   string `bson:"seekerReview,omitempty" json:"seekerReview,omitempty"`
	ProviderRating int    `bson:"providerRating,omitempty" json:"providerRating,omitempty"`
	ProviderReview string `bson:"providerReview,omitempty" json:"providerReview,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SessionSummary is the grouped status count returned alongside session listings.
type SessionSummary struct {
	Total    int64                   `json:"total"`
	ByStatus map[SessionStatus]int64 `json:"byStatus"`
}
