// File: database/repository/servicecatalog/interface.go
package serviceCatalogRepo

import (
	"context"

	"servilink/database"
	"servilink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceCatalogRepository is the read/write surface over the service catalog.
type ServiceCatalogRepository interface {
	GetByID(ctx context.Context, id string) (*models.Service, error)
	// GetGenericByCategory returns the generic per-category service backing the
	// admin-assignment request flow, or nil when none exists yet.
	GetGenericByCategory(ctx context.Context, category models.ServiceCategory) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) error
}

type mongoServiceCatalogRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceCatalogRepo constructs a MongoDB-backed ServiceCatalogRepository.
func NewMongoServiceCatalogRepo() ServiceCatalogRepository {
	return &mongoServiceCatalogRepo{coll: database.DB().Collection("services")}
}
