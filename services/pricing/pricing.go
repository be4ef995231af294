// File: services/pricing/pricing.go
package pricing

import (
	"context"
	"fmt"
	"math"

	"servilink/models"
	"servilink/utils"
)

// ConfigSource resolves the pricing configuration for a category. Injecting it
// keeps the calculator deterministic in tests and allows hot-reload of the
// admin-managed config.
type ConfigSource interface {
	GetCategoryPricing(ctx context.Context, category models.ServiceCategory) (*models.CategoryPricing, error)
}

// Engine computes the cost of a session.
type Engine interface {
	CalculateSessionPrice(ctx context.Context, category models.ServiceCategory, durationHours float64) (*models.PricingResult, error)
}

// DefaultEngine is the production pricing calculator.
type DefaultEngine struct {
	Config ConfigSource
}

// CalculateSessionPrice bills the base window at the category's base price and
// any time beyond it in whole overtime increments, rounded up: a partial
// increment is billed as a full one.
func (e *DefaultEngine) CalculateSessionPrice(ctx context.Context, category models.ServiceCategory, durationHours float64) (*models.PricingResult, error) {
	if durationHours <= 0 {
		return nil, utils.NewBadRequestError("duration must be greater than zero")
	}

	cfg, err := e.Config.GetCategoryPricing(ctx, category)
	if err != nil {
		return nil, err
	}

	result := &models.PricingResult{
		BasePrice:    cfg.BaseSessionPrice,
		BaseDuration: cfg.BaseSessionDuration,
	}

	if durationHours > cfg.BaseSessionDuration {
		result.OvertimeHours = durationHours - cfg.BaseSessionDuration
		increment := cfg.OvertimeIncrement
		if increment <= 0 {
			increment = 30
		}
		blocks := math.Ceil(result.OvertimeHours * 60 / float64(increment))
		result.OvertimePrice = blocks * cfg.OvertimeRate
	}

	result.TotalPrice = result.BasePrice + result.OvertimePrice
	return result, nil
}

// ErrNoCategoryPricing builds the calculator's not-found failure for a category.
func ErrNoCategoryPricing(category models.ServiceCategory) error {
	return utils.NewNotFoundError(fmt.Sprintf("no pricing configured for category %s", category))
}
