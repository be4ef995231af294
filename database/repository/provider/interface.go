// File: database/repository/provider/interface.go
package providerRepo

import (
	"context"

	"servilink/database"
	"servilink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ProviderSearchCriteria filters the provider directory for admin assignment.
type ProviderSearchCriteria struct {
	Category  models.ServiceCategory
	Province  models.Province
	MinRating float64
	Limit     int64
}

// ProviderRepository is the worker directory consumed by assignment and authz.
type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	Search(ctx context.Context, criteria ProviderSearchCriteria) ([]models.Provider, error)
	// AdjustActiveSessions shifts the provider's live-session load counter used
	// to rank assignment candidates.
	AdjustActiveSessions(ctx context.Context, providerID string, delta int) error
	UpdateRating(ctx context.Context, providerID string, rating int) error
}

type mongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo constructs a MongoDB-backed ProviderRepository.
func NewMongoProviderRepo() ProviderRepository {
	return &mongoProviderRepo{coll: database.DB().Collection("providers")}
}
