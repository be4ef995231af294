package models

import "time"

// Service is a catalog entry a seeker books against. Generic services carry no
// fixed provider and exist to back the admin-assignment request flow; one is
// created lazily per category.
type Service struct {
	ID          string          `bson:"id" json:"id"`
	ProviderID  string          `bson:"providerId,omitempty" json:"providerId,omitempty"`
	Category    ServiceCategory `bson:"category" json:"category"`
	Title       string          `bson:"title" json:"title"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	IsAvailable bool            `bson:"isAvailable" json:"isAvailable"`
	IsGeneric   bool            `bson:"isGeneric" json:"isGeneric"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
}
