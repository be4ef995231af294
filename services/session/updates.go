// File: services/session/updates.go
package session

import (
	"context"
	"fmt"
	"time"

	"servilink/models"
	"servilink/utils"

	"go.uber.org/zap"
)

var allowedTransitions = map[models.SessionStatus][]models.SessionStatus{
	models.StatusPendingAssignment: {models.StatusAssigned, models.StatusConfirmed, models.StatusRejected, models.StatusCancelled},
	models.StatusPending:           {models.StatusConfirmed, models.StatusRejected, models.StatusCancelled},
	models.StatusAssigned:          {models.StatusConfirmed, models.StatusRejected, models.StatusCancelled, models.StatusPendingAssignment},
	models.StatusConfirmed:         {models.StatusInProgress, models.StatusCompleted, models.StatusCancelled},
	models.StatusInProgress:        {models.StatusCompleted},
}

func canTransition(from, to models.SessionStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// UpdateSession applies a patch on behalf of the session's seeker, its
// assigned provider, or an admin. Rescheduling recomputes the end time and the
// pricing snapshot and re-runs the availability and conflict checks, excluding
// the session itself. A transition to completed triggers earnings settlement
// exactly once.
func (s *DefaultSessionService) UpdateSession(ctx context.Context, sessionID string, patch SessionPatch, actorID, role string) (*models.Session, error) {
	session, err := s.mustGetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeParty(session, actorID, role); err != nil {
		return nil, err
	}

	statusChanging := patch.Status != nil && *patch.Status != session.Status
	if statusChanging {
		if session.Status.Terminal() {
			return nil, utils.NewBadRequestError(fmt.Sprintf("session is %s; no further status transitions are permitted", session.Status))
		}
		if !canTransition(session.Status, *patch.Status) {
			return nil, utils.NewBadRequestError(fmt.Sprintf("cannot transition session from %s to %s", session.Status, *patch.Status))
		}
		if *patch.Status != models.StatusCancelled && session.ProviderID == "" {
			return nil, utils.NewBadRequestError("session has no provider assigned")
		}
	}

	rescheduling := patch.SessionDate != nil || patch.StartTime != nil || patch.DurationHours != nil
	if rescheduling {
		if err := s.applyReschedule(ctx, session, patch); err != nil {
			return nil, err
		}
	}

	if patch.Address != nil {
		session.Address = *patch.Address
	}
	if patch.Instructions != nil {
		session.Instructions = *patch.Instructions
	}
	if patch.PaymentStatus != nil {
		switch *patch.PaymentStatus {
		case models.PaymentPending, models.PaymentPaid, models.PaymentFailed, models.PaymentRefunded:
			session.PaymentStatus = *patch.PaymentStatus
		default:
			return nil, utils.NewBadRequestError(fmt.Sprintf("unknown payment status %s", *patch.PaymentStatus))
		}
	}

	completing := false
	if statusChanging {
		now := time.Now()
		switch *patch.Status {
		case models.StatusCancelled:
			session.CancelledBy = actorID
			session.CancelledAt = &now
			if patch.CancellationReason != nil {
				session.CancellationReason = *patch.CancellationReason
			}
		case models.StatusCompleted:
			completing = true
		}
		session.Status = *patch.Status
		if session.Status.Terminal() && session.ProviderID != "" {
			s.adjustProviderLoad(ctx, session.ProviderID, -1)
		}
	}

	if err := s.Repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if completing {
		s.settle(ctx, session)
	}
	return session, nil
}

// CancelSession cancels on behalf of the seeker or the assigned provider, then
// delegates the transition to UpdateSession.
func (s *DefaultSessionService) CancelSession(ctx context.Context, sessionID, actorID, role, reason string) (*models.Session, error) {
	session, err := s.mustGetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if actorID != session.SeekerID && (session.ProviderID == "" || actorID != session.ProviderID) {
		return nil, utils.NewForbiddenError("only the session's seeker or provider can cancel it")
	}
	if session.Status == models.StatusCompleted {
		return nil, utils.NewBadRequestError("completed sessions cannot be cancelled")
	}

	cancelled := models.StatusCancelled
	return s.UpdateSession(ctx, sessionID, SessionPatch{Status: &cancelled, CancellationReason: &reason}, actorID, role)
}

// RateSession records a post-completion rating: seekers rate the provider,
// providers rate the seeker. Provider ratings feed the directory average.
func (s *DefaultSessionService) RateSession(ctx context.Context, sessionID, actorID, role string, rating int, review string) (*models.Session, error) {
	session, err := s.mustGetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusCompleted {
		return nil, utils.NewBadRequestError("only completed sessions can be rated")
	}
	if rating < 1 || rating > 5 {
		return nil, utils.NewBadRequestError("rating must be between 1 and 5")
	}

	switch {
	case actorID == session.SeekerID:
		if session.SeekerRating != 0 {
			return nil, utils.NewBadRequestError("session already rated by seeker")
		}
		session.SeekerRating = rating
		session.SeekerReview = review
		if err := s.ProviderRepo.UpdateRating(ctx, session.ProviderID, rating); err != nil {
			utils.GetLogger().Warn("failed to fold rating into provider average",
				zap.String("providerID", session.ProviderID), zap.Error(err))
		}
	case actorID == session.ProviderID:
		if session.ProviderRating != 0 {
			return nil, utils.NewBadRequestError("session already rated by provider")
		}
		session.ProviderRating = rating
		session.ProviderReview = review
	default:
		return nil, utils.NewForbiddenError("only the session's seeker or provider can rate it")
	}

	if err := s.Repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}
	return session, nil
}

// MarkInProgress transitions confirmed -> in_progress when tracking starts.
func (s *DefaultSessionService) MarkInProgress(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.mustGetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.StatusInProgress {
		return session, nil
	}
	if session.Status != models.StatusConfirmed {
		return nil, utils.NewBadRequestError(fmt.Sprintf("session is %s and cannot start", session.Status))
	}
	session.Status = models.StatusInProgress
	if err := s.Repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to mark session in progress: %w", err)
	}
	return session, nil
}

// CompleteFromTracking is the completion path used by the tracking
// coordinator. Calling it on an already completed session is a no-op, which
// keeps settlement idempotent.
func (s *DefaultSessionService) CompleteFromTracking(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.mustGetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.StatusCompleted {
		return session, nil
	}
	switch session.Status {
	case models.StatusInProgress, models.StatusConfirmed:
	default:
		return nil, utils.NewBadRequestError(fmt.Sprintf("session is %s and cannot be completed", session.Status))
	}

	session.Status = models.StatusCompleted
	if err := s.Repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	if session.ProviderID != "" {
		s.adjustProviderLoad(ctx, session.ProviderID, -1)
	}
	s.settle(ctx, session)
	return session, nil
}

// settle hands the completed session to the wallet subsystem. Failures are
// logged and discarded: completion must never roll back because settlement
// could not be published.
func (s *DefaultSessionService) settle(ctx context.Context, session *models.Session) {
	if s.Settlement == nil {
		return
	}
	if err := s.Settlement.PublishSessionCompleted(ctx, session); err != nil {
		utils.GetLogger().Error("failed to publish session completion for settlement",
			zap.String("sessionID", session.ID),
			zap.String("providerID", session.ProviderID),
			zap.Float64("amount", session.TotalAmount),
			zap.Error(err))
	}
}

func (s *DefaultSessionService) applyReschedule(ctx context.Context, session *models.Session, patch SessionPatch) error {
	if session.Status.Terminal() || session.Status == models.StatusInProgress {
		return utils.NewBadRequestError(fmt.Sprintf("session is %s and cannot be rescheduled", session.Status))
	}

	date := session.SessionDate
	startTime := session.StartTime
	duration := session.DurationHours
	if patch.SessionDate != nil {
		date = *patch.SessionDate
	}
	if patch.StartTime != nil {
		startTime = *patch.StartTime
	}
	if patch.DurationHours != nil {
		duration = *patch.DurationHours
	}
	if err := validateSchedulingFields(date, startTime, duration); err != nil {
		return err
	}

	endTime, err := utils.AddToClock(startTime, int(duration*60))
	if err != nil {
		return utils.NewBadRequestError(err.Error())
	}

	// Pricing is recomputed, never carried over, whenever the duration changes.
	price, err := s.Pricing.CalculateSessionPrice(ctx, session.Category, duration)
	if err != nil {
		return err
	}

	session.SessionDate = date
	session.StartTime = startTime
	session.EndTime = endTime
	session.DurationHours = duration
	session.BaseDuration = price.BaseDuration
	session.OvertimeHours = price.OvertimeHours
	session.BasePrice = price.BasePrice
	session.OvertimePrice = price.OvertimePrice
	session.TotalAmount = price.TotalPrice

	if session.ProviderID != "" {
		unlock, err := s.acquireScheduleLock(ctx, session.ProviderID, date)
		if err != nil {
			return err
		}
		defer unlock()
		if err := s.checkProviderSchedule(ctx, session.ProviderID, session, session.ID); err != nil {
			return err
		}
	}
	return nil
}

func authorizeParty(session *models.Session, actorID, role string) error {
	if role == models.RoleAdmin {
		return nil
	}
	if actorID == session.SeekerID {
		return nil
	}
	if session.ProviderID != "" && actorID == session.ProviderID {
		return nil
	}
	return utils.NewForbiddenError("caller is neither the session's seeker, its provider, nor an admin")
}
