// File: services/session/assignment.go
package session

import (
	"context"
	"fmt"
	"time"

	"servilink/models"
	"servilink/utils"

	"go.uber.org/zap"
)

// AssignProvider binds a provider to a pending service request. Admin-only;
// callers enforce the role, this validates the state.
func (s *DefaultSessionService) AssignProvider(ctx context.Context, sessionID, providerID, adminID, notes string) (*models.Session, error) {
	session, err := s.mustGetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusPendingAssignment {
		return nil, utils.NewBadRequestError(fmt.Sprintf("session is %s; only pending_assignment sessions can be assigned", session.Status))
	}
	if session.ProviderID != "" {
		return nil, utils.NewBadRequestError("session already has a provider assigned")
	}

	provider, err := s.ProviderRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up provider: %w", err)
	}
	if provider == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("provider %s not found", providerID))
	}
	if provider.Category != session.Category {
		return nil, utils.NewBadRequestError(fmt.Sprintf("provider serves %s, session requires %s", provider.Category, session.Category))
	}

	unlock, err := s.acquireScheduleLock(ctx, providerID, session.SessionDate)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkProviderSchedule(ctx, providerID, session, session.ID); err != nil {
		return nil, err
	}

	now := time.Now()
	session.ProviderID = providerID
	session.AssignedBy = adminID
	session.AssignedAt = &now
	session.AssignmentNotes = notes
	if s.Opts.AutoConfirmOnAssign {
		session.Status = models.StatusConfirmed
	} else {
		session.Status = models.StatusAssigned
	}

	if err := s.Repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to assign provider: %w", err)
	}
	s.adjustProviderLoad(ctx, providerID, 1)

	utils.GetLogger().Info("provider assigned",
		zap.String("sessionID", session.ID),
		zap.String("providerID", providerID),
		zap.String("adminID", adminID),
		zap.String("status", string(session.Status)))
	return session, nil
}

// RejectServiceRequest rejects a session awaiting assignment (admin) or an
// assignment awaiting the provider's acceptance (provider).
func (s *DefaultSessionService) RejectServiceRequest(ctx context.Context, sessionID, reason, adminNotes, actorID string) (*models.Session, error) {
	session, err := s.mustGetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	switch session.Status {
	case models.StatusPendingAssignment, models.StatusAssigned, models.StatusPending:
	default:
		return nil, utils.NewBadRequestError(fmt.Sprintf("session is %s and can no longer be rejected", session.Status))
	}

	now := time.Now()
	hadProvider := session.ProviderID
	session.Status = models.StatusRejected
	session.RejectionReason = reason
	session.RejectedBy = actorID
	session.RejectedAt = &now
	if adminNotes != "" {
		session.AssignmentNotes = adminNotes
	}

	if err := s.Repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to reject session: %w", err)
	}
	if hadProvider != "" {
		s.adjustProviderLoad(ctx, hadProvider, -1)
	}

	utils.GetLogger().Info("session rejected",
		zap.String("sessionID", session.ID),
		zap.String("reason", reason))
	return session, nil
}

// ReopenForAssignment puts a rejected session back into the admin queue,
// clearing the previous provider binding.
func (s *DefaultSessionService) ReopenForAssignment(ctx context.Context, sessionID, adminID string) (*models.Session, error) {
	session, err := s.mustGetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusRejected {
		return nil, utils.NewBadRequestError(fmt.Sprintf("only rejected sessions can be reopened, session is %s", session.Status))
	}

	session.Status = models.StatusPendingAssignment
	session.ProviderID = ""
	session.AssignedBy = ""
	session.AssignedAt = nil
	session.AssignmentNotes = ""
	session.RejectionReason = ""
	session.RejectedBy = ""
	session.RejectedAt = nil

	if err := s.Repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to reopen session: %w", err)
	}

	utils.GetLogger().Info("session reopened for assignment",
		zap.String("sessionID", session.ID),
		zap.String("adminID", adminID))
	return session, nil
}

// ConfirmSession is the provider's acceptance of an assigned (or direct
// pending) session.
func (s *DefaultSessionService) ConfirmSession(ctx context.Context, sessionID, actorID, role string) (*models.Session, error) {
	session, err := s.mustGetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && actorID != session.ProviderID {
		return nil, utils.NewForbiddenError("only the assigned provider or an admin can confirm a session")
	}
	switch session.Status {
	case models.StatusAssigned, models.StatusPending:
	default:
		return nil, utils.NewBadRequestError(fmt.Sprintf("session is %s and cannot be confirmed", session.Status))
	}

	session.Status = models.StatusConfirmed
	if err := s.Repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to confirm session: %w", err)
	}

	utils.GetLogger().Info("session confirmed", zap.String("sessionID", session.ID))
	return session, nil
}

func (s *DefaultSessionService) mustGetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.Repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("session %s not found", sessionID))
	}
	return session, nil
}
