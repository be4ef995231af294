// File: services/wallet/processor.go
package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	earningsRepo "servilink/database/repository/earnings"
	"servilink/models"
	"servilink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EarningsProcessor settles a completed session into the provider's ledger
// and wallet. Implementations must be idempotent per session.
type EarningsProcessor interface {
	ProcessSessionEarning(ctx context.Context, sessionID, providerID string, amount float64, currency string) error
	GetWallet(ctx context.Context, providerID string) (*models.Wallet, error)
	ListEarnings(ctx context.Context, providerID string, limit int64) ([]models.Earning, error)
}

// DefaultEarningsProcessor implements EarningsProcessor over the MongoDB
// earnings ledger.
type DefaultEarningsProcessor struct {
	Repo earningsRepo.EarningsRepository
}

// ProcessSessionEarning posts the ledger entry first, then credits the wallet.
// The unique session index makes redelivery a no-op: a duplicate posting skips
// the wallet credit entirely, so the balance is only ever credited once.
func (p *DefaultEarningsProcessor) ProcessSessionEarning(ctx context.Context, sessionID, providerID string, amount float64, currency string) error {
	if providerID == "" {
		return fmt.Errorf("session %s completed without a provider; cannot settle", sessionID)
	}
	if amount <= 0 {
		utils.GetLogger().Warn("skipping settlement of non-positive amount",
			zap.String("sessionID", sessionID), zap.Float64("amount", amount))
		return nil
	}

	earning := &models.Earning{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		ProviderID: providerID,
		Amount:     amount,
		Currency:   currency,
		CreatedAt:  time.Now(),
	}
	if err := p.Repo.CreateEarning(ctx, earning); err != nil {
		if errors.Is(err, earningsRepo.ErrAlreadySettled) {
			utils.GetLogger().Info("session already settled, skipping",
				zap.String("sessionID", sessionID))
			return nil
		}
		return fmt.Errorf("failed to post earning: %w", err)
	}

	if err := p.Repo.CreditWallet(ctx, providerID, amount, currency); err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	utils.GetLogger().Info("session earning settled",
		zap.String("sessionID", sessionID),
		zap.String("providerID", providerID),
		zap.Float64("amount", amount),
		zap.String("currency", currency))
	return nil
}

func (p *DefaultEarningsProcessor) GetWallet(ctx context.Context, providerID string) (*models.Wallet, error) {
	wallet, err := p.Repo.GetWallet(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	if wallet == nil {
		return &models.Wallet{ProviderID: providerID, Balance: 0}, nil
	}
	return wallet, nil
}

func (p *DefaultEarningsProcessor) ListEarnings(ctx context.Context, providerID string, limit int64) ([]models.Earning, error) {
	earnings, err := p.Repo.ListByProvider(ctx, providerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list earnings: %w", err)
	}
	return earnings, nil
}
