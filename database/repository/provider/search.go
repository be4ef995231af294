// File: database/repository/provider/search.go
package providerRepo

import (
	"context"
	"fmt"
	"time"

	"servilink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Search returns active providers matching the criteria, best candidates first:
// highest rating, then lightest current session load.
func (r *mongoProviderRepo) Search(ctx context.Context, criteria ProviderSearchCriteria) ([]models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	match := bson.M{"isActive": true}
	if criteria.Category != "" {
		match["category"] = criteria.Category
	}
	if criteria.Province != "" {
		match["provinces"] = criteria.Province
	}
	if criteria.MinRating > 0 {
		match["rating"] = bson.M{"$gte": criteria.MinRating}
	}

	limit := criteria.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "rating", Value: -1},
			{Key: "activeSessionCount", Value: 1},
			{Key: "ratingCount", Value: -1},
		}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error searching providers: %w", err)
	}
	defer cursor.Close(ctx)

	var providers []models.Provider
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("error decoding provider search results: %w", err)
	}
	return providers, nil
}
