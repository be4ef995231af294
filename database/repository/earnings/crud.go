// File: database/repository/earnings/crud.go
package earningsRepo

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

func (r *mongoEarningsRepo) CreateEarning(ctx context.Context, earning *models.Earning) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if earning.ID == "" {
		earning.ID = uuid.New().String()
	}
	earning.CreatedAt = time.Now()

	_, err := r.earningsColl.InsertOne(ctx, earning)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadySettled
	}
	if err != nil {
		return fmt.Errorf("error posting earning for session %s: %w", earning.SessionID, err)
	}
	return nil
}

func (r *mongoEarningsRepo) CreditWallet(ctx context.Context, providerID string, amount float64, currency string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": providerID}
	update := bson.M{
		"$inc":         bson.M{"balance": amount},
		"$set":         bson.M{"updatedAt": time.Now(), "currency": currency},
		"$setOnInsert": bson.M{"providerId": providerID},
	}
	if _, err := r.walletColl.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("error crediting wallet for provider %s: %w", providerID, err)
	}
	return nil
}

func (r *mongoEarningsRepo) GetWallet(ctx context.Context, providerID string) (*models.Wallet, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var wallet models.Wallet
	err := r.walletColl.FindOne(ctx, bson.M{"providerId": providerID}).Decode(&wallet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching wallet for provider %s: %w", providerID, err)
	}
	return &wallet, nil
}

func (r *mongoEarningsRepo) ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.Earning, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit < 1 || limit > 100 {
		limit = 20
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.earningsColl.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing earnings for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	var earnings []models.Earning
	if err := cursor.All(ctx, &earnings); err != nil {
		return nil, fmt.Errorf("error decoding earnings for provider %s: %w", providerID, err)
	}
	return earnings, nil
}

func (r *mongoEarningsRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Idempotent settlement: one earning per session, ever.
	earningIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "sessionId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.earningsColl.Indexes().CreateOne(ctx, earningIdx); err != nil {
		return fmt.Errorf("error creating earnings indexes: %w", err)
	}

	walletIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "providerId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.walletColl.Indexes().CreateOne(ctx, walletIdx); err != nil {
		return fmt.Errorf("error creating wallet indexes: %w", err)
	}
	return nil
}
