package models

import "time"

// Roles recognized by the authorization checks.
const (
	RoleSeeker   = "seeker"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// User is the directory view used for identity and role lookups.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Role      string    `bson:"role" json:"role"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Provider is the worker directory entry consulted during admin assignment.
type Provider struct {
	ID                 string          `bson:"id" json:"id"`
	Name               string          `bson:"name" json:"name"`
	Category           ServiceCategory `bson:"category" json:"category"`
	Provinces          []Province      `bson:"provinces" json:"provinces"`
	Rating             float64         `bson:"rating" json:"rating"`
	RatingCount        int             `bson:"ratingCount" json:"ratingCount"`
	ActiveSessionCount int             `bson:"activeSessionCount" json:"activeSessionCount"`
	IsActive           bool            `bson:"isActive" json:"isActive"`
	CreatedAt          time.Time       `bson:"createdAt" json:"createdAt"`
}
