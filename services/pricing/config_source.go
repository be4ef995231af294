// File: services/pricing/config_source.go
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sessionConfigRepo "servilink/database/repository/sessionconfig"
	"servilink/models"
	"servilink/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	configCacheKey = "session-config:active"
	configCacheTTL = 5 * time.Minute
)

// RepoConfigSource serves category pricing from the active SessionConfig
// document, seeding defaults on first access and reading through a short-lived
// redis cache. Admin writes invalidate the cache.
type RepoConfigSource struct {
	Repo  sessionConfigRepo.SessionConfigRepository
	Cache *redis.Client
}

func (s *RepoConfigSource) GetCategoryPricing(ctx context.Context, category models.ServiceCategory) (*models.CategoryPricing, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cfg.CategoryPricing {
		if cfg.CategoryPricing[i].Category == category {
			return &cfg.CategoryPricing[i], nil
		}
	}
	return nil, ErrNoCategoryPricing(category)
}

// GetActiveConfig exposes the full config for the admin surface.
func (s *RepoConfigSource) GetActiveConfig(ctx context.Context) (*models.SessionConfig, error) {
	return s.loadConfig(ctx)
}

// UpdateCategoryPricing rewrites one category entry and drops the cache.
func (s *RepoConfigSource) UpdateCategoryPricing(ctx context.Context, entry models.CategoryPricing) error {
	if !models.ValidCategory(entry.Category) {
		return utils.NewBadRequestError(fmt.Sprintf("unknown category %s", entry.Category))
	}
	if entry.BaseSessionPrice <= 0 || entry.BaseSessionDuration <= 0 || entry.OvertimeRate < 0 || entry.OvertimeIncrement <= 0 {
		return utils.NewBadRequestError("pricing values must be positive")
	}
	if err := s.Repo.UpdateCategoryPricing(ctx, entry); err != nil {
		return fmt.Errorf("failed to update category pricing: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *RepoConfigSource) loadConfig(ctx context.Context) (*models.SessionConfig, error) {
	logger := utils.GetLogger()

	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, configCacheKey).Result(); err == nil {
			var cached models.SessionConfig
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	cfg, err := s.Repo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session config: %w", err)
	}
	if cfg == nil {
		// First access: seed the configuration with defaults for every category.
		cfg = &models.SessionConfig{
			IsActive:        true,
			CategoryPricing: models.DefaultCategoryPricing(),
		}
		if err := s.Repo.Create(ctx, cfg); err != nil {
			return nil, fmt.Errorf("failed to seed session config: %w", err)
		}
		logger.Info("seeded default session config", zap.Int("categories", len(cfg.CategoryPricing)))
	}

	if s.Cache != nil {
		if data, err := json.Marshal(cfg); err == nil {
			if err := s.Cache.Set(ctx, configCacheKey, data, configCacheTTL).Err(); err != nil {
				logger.Warn("failed to cache session config", zap.Error(err))
			}
		}
	}
	return cfg, nil
}

func (s *RepoConfigSource) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, configCacheKey).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate session config cache", zap.Error(err))
	}
}
