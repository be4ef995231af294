package models

import "time"

// TimeSlot is one open window inside a provider's day schedule.
type TimeSlot struct {
	StartTime   string `bson:"startTime" json:"startTime"` // "HH:mm"
	EndTime     string `bson:"endTime" json:"endTime"`     // "HH:mm"
	IsAvailable bool   `bson:"isAvailable" json:"isAvailable"`
}

// Availability is a provider's recurring schedule for one weekday.
// At most one document exists per (providerId, dayOfWeek).
type Availability struct {
	ID         string     `bson:"id" json:"id"`
	ProviderID string     `bson:"providerId" json:"providerId"`
	DayOfWeek  DayOfWeek  `bson:"dayOfWeek" json:"dayOfWeek"`
	TimeSlots  []TimeSlot `bson:"timeSlots" json:"timeSlots"`
	IsActive   bool       `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}
