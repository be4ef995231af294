// File: database/repository/session/interface.go
package sessionRepo

import (
	"context"

	"servilink/database"
	"servilink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SessionRepository persists Session documents.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error

	// FindActiveForProviderDate returns the provider's sessions on the given
	// date whose status still holds the provider's time, optionally excluding
	// one session (rescheduling must not conflict with itself).
	FindActiveForProviderDate(ctx context.Context, providerID, date, excludeSessionID string) ([]models.Session, error)

	FindBySeeker(ctx context.Context, seekerID string, page, limit int64) ([]models.Session, int64, error)
	FindByProvider(ctx context.Context, providerID string, page, limit int64) ([]models.Session, int64, error)
	FindPendingAssignment(ctx context.Context, page, limit int64) ([]models.Session, int64, error)

	// CountByStatus groups the party's sessions by status. field is
	// "seekerId" or "providerId".
	CountByStatus(ctx context.Context, field, id string) (map[models.SessionStatus]int64, error)

	EnsureIndexes(ctx context.Context) error
}

type mongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo constructs a MongoDB-backed SessionRepository.
func NewMongoSessionRepo() SessionRepository {
	return &mongoSessionRepo{coll: database.DB().Collection("sessions")}
}
