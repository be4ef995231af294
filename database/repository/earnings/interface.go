// File: database/repository/earnings/interface.go
package earningsRepo

import (
	"context"
	"errors"

	"servilink/database"
	"servilink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrAlreadySettled signals that an earning for the session is already posted.
// It is the expected outcome on settlement redelivery, not a failure.
var ErrAlreadySettled = errors.New("earning already settled for session")

// EarningsRepository is the provider earnings ledger plus wallet balances.
type EarningsRepository interface {
	// CreateEarning posts one earning. Returns ErrAlreadySettled when an
	// earning for the same session already exists.
	CreateEarning(ctx context.Context, earning *models.Earning) error
	CreditWallet(ctx context.Context, providerID string, amount float64, currency string) error
	GetWallet(ctx context.Context, providerID string) (*models.Wallet, error)
	ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.Earning, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoEarningsRepo struct {
	earningsColl *mongo.Collection
	walletColl   *mongo.Collection
}

// NewMongoEarningsRepo constructs a MongoDB-backed EarningsRepository.
func NewMongoEarningsRepo() EarningsRepository {
	db := database.DB()
	return &mongoEarningsRepo{
		earningsColl: db.Collection("earnings"),
		walletColl:   db.Collection("wallets"),
	}
}
