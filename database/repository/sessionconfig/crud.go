// File: database/repository/sessionconfig/crud.go
package sessionConfigRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servilink/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoSessionConfigRepo) GetActive(ctx context.Context) (*models.SessionConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cfg models.SessionConfig
	err := r.coll.FindOne(ctx, bson.M{"isActive": true}).Decode(&cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching active session config: %w", err)
	}
	return &cfg, nil
}

func (r *mongoSessionConfigRepo) Create(ctx context.Context, cfg *models.SessionConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	now := time.Now()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, cfg); err != nil {
		return fmt.Errorf("error creating session config: %w", err)
	}
	return nil
}

// UpdateCategoryPricing rewrites one category entry on the active config.
func (r *mongoSessionConfigRepo) UpdateCategoryPricing(ctx context.Context, pricing models.CategoryPricing) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"isActive": true}
	update := bson.M{
		"$set": bson.M{
			"categoryPricing.$[entry]": pricing,
			"updatedAt":                time.Now(),
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"entry.category": pricing.Category}},
	})
	res, err := r.coll.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("error updating pricing for category %s: %w", pricing.Category, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
