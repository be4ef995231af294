// File: database/repository/provider/crud.go
package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servilink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var provider models.Provider
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&provider)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching provider %s: %w", id, err)
	}
	return &provider, nil
}

func (r *mongoProviderRepo) AdjustActiveSessions(ctx context.Context, providerID string, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$inc": bson.M{"activeSessionCount": delta}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": providerID}, update); err != nil {
		return fmt.Errorf("error adjusting active sessions for provider %s: %w", providerID, err)
	}
	return nil
}

// UpdateRating folds one new 1-5 rating into the provider's running average.
func (r *mongoProviderRepo) UpdateRating(ctx context.Context, providerID string, rating int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	provider, err := r.GetByID(ctx, providerID)
	if err != nil {
		return err
	}
	if provider == nil {
		return mongo.ErrNoDocuments
	}

	newCount := provider.RatingCount + 1
	newRating := (provider.Rating*float64(provider.RatingCount) + float64(rating)) / float64(newCount)

	update := bson.M{"$set": bson.M{"rating": newRating, "ratingCount": newCount}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": providerID}, update); err != nil {
		return fmt.Errorf("error updating rating for provider %s: %w", providerID, err)
	}
	return nil
}
