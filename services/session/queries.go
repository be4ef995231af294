// File: services/session/queries.go
package session

import (
	"context"
	"fmt"

	"servilink/models"
)

func (s *DefaultSessionService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	return s.mustGetSession(ctx, sessionID)
}

func (s *DefaultSessionService) FindBySeeker(ctx context.Context, seekerID string, page, limit int64) (*SessionPage, error) {
	sessions, total, err := s.Repo.FindBySeeker(ctx, seekerID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeker sessions: %w", err)
	}
	summary, err := s.summarize(ctx, "seekerId", seekerID)
	if err != nil {
		return nil, err
	}
	return &SessionPage{Sessions: sessions, Total: total, Summary: summary}, nil
}

func (s *DefaultSessionService) FindByProvider(ctx context.Context, providerID string, page, limit int64) (*SessionPage, error) {
	sessions, total, err := s.Repo.FindByProvider(ctx, providerID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider sessions: %w", err)
	}
	summary, err := s.summarize(ctx, "providerId", providerID)
	if err != nil {
		return nil, err
	}
	return &SessionPage{Sessions: sessions, Total: total, Summary: summary}, nil
}

func (s *DefaultSessionService) FindPendingAssignment(ctx context.Context, page, limit int64) ([]models.Session, int64, error) {
	sessions, total, err := s.Repo.FindPendingAssignment(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pending assignments: %w", err)
	}
	return sessions, total, nil
}

func (s *DefaultSessionService) summarize(ctx context.Context, field, id string) (models.SessionSummary, error) {
	counts, err := s.Repo.CountByStatus(ctx, field, id)
	if err != nil {
		return models.SessionSummary{}, fmt.Errorf("failed to summarize sessions: %w", err)
	}
	summary := models.SessionSummary{ByStatus: counts}
	for _, count := range counts {
		summary.Total += count
	}
	return summary, nil
}
