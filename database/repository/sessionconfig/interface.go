// File: database/repository/sessionconfig/interface.go
package sessionConfigRepo

import (
	"context"

	"servilink/database"
	"servilink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SessionConfigRepository persists the single active pricing configuration.
type SessionConfigRepository interface {
	GetActive(ctx context.Context) (*models.SessionConfig, error)
	Create(ctx context.Context, cfg *models.SessionConfig) error
	UpdateCategoryPricing(ctx context.Context, pricing models.CategoryPricing) error
}

type mongoSessionConfigRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionConfigRepo constructs a MongoDB-backed SessionConfigRepository.
func NewMongoSessionConfigRepo() SessionConfigRepository {
	return &mongoSessionConfigRepo{coll: database.DB().Collection("session_configs")}
}
