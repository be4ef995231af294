// File: database/repository/servicecatalog/crud.go
package serviceCatalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servilink/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoServiceCatalogRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var service models.Service
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&service)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching service %s: %w", id, err)
	}
	return &service, nil
}

func (r *mongoServiceCatalogRepo) GetGenericByCategory(ctx context.Context, category models.ServiceCategory) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var service models.Service
	err := r.coll.FindOne(ctx, bson.M{"category": category, "isGeneric": true}).Decode(&service)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching generic service for category %s: %w", category, err)
	}
	return &service, nil
}

func (r *mongoServiceCatalogRepo) Create(ctx context.Context, service *models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	service.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, service); err != nil {
		return fmt.Errorf("error creating service: %w", err)
	}
	return nil
}
