// File: services/tracking/tracking.go
package tracking

import (
	"context"
	"fmt"
	"time"

	"servilink/models"
	"servilink/utils"

	"go.uber.org/zap"
)

// StartTracking opens the live tracking record for a session. Only the
// assigned provider (or an admin) may start, the session must be confirmed or
// in progress, and at most one active record may exist per session. Starting
// tracking on a confirmed session moves it to in_progress.
func (s *DefaultTrackingService) StartTracking(ctx context.Context, input StartTrackingInput) (*models.LocationTracking, error) {
	sess, err := s.Sessions.GetSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if input.Role != models.RoleAdmin && input.ActorID != sess.ProviderID {
		return nil, utils.NewForbiddenError("only the assigned provider or an admin can start tracking")
	}
	switch sess.Status {
	case models.StatusConfirmed, models.StatusInProgress:
	default:
		return nil, utils.NewBadRequestError(fmt.Sprintf("session is %s; tracking requires a confirmed or in-progress session", sess.Status))
	}
	if sess.Latitude == nil || sess.Longitude == nil {
		return nil, utils.NewBadRequestError("session has no service coordinates to track against")
	}

	existing, err := s.Repo.GetActiveBySession(ctx, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for active tracking: %w", err)
	}
	if existing != nil {
		return nil, utils.NewConflictError("tracking is already active for this session")
	}

	serviceLocation := models.GeoPoint{Latitude: *sess.Latitude, Longitude: *sess.Longitude}
	record := &models.LocationTracking{
		SessionID:       sess.ID,
		ProviderID:      sess.ProviderID,
		SeekerID:        sess.SeekerID,
		CurrentLocation: input.CurrentLocation,
		ServiceLocation: serviceLocation,
		Status:          models.TrackingOnRoute,
		DistanceMeters:  Haversine(input.CurrentLocation, serviceLocation),
		IsActive:        true,
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create tracking record: %w", err)
	}

	if sess.Status == models.StatusConfirmed {
		if _, err := s.Sessions.MarkInProgress(ctx, sess.ID); err != nil {
			utils.GetLogger().Error("failed to move session to in_progress after tracking start",
				zap.String("sessionID", sess.ID), zap.Error(err))
		}
	}

	utils.GetLogger().Info("tracking started",
		zap.String("sessionID", sess.ID),
		zap.String("providerID", sess.ProviderID),
		zap.Float64("distanceMeters", record.DistanceMeters))
	return record, nil
}

// UpdateLocation records one GPS ping and recomputes the distance to the
// service point. When the provider is still on route and the proximity policy
// fires, the record auto-transitions to at_location.
func (s *DefaultTrackingService) UpdateLocation(ctx context.Context, input LocationUpdateInput) (*models.LocationTracking, error) {
	record, err := s.mustGetActive(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if input.Role != models.RoleAdmin && input.ActorID != record.ProviderID {
		return nil, utils.NewForbiddenError("only the tracked provider can report locations")
	}

	record.CurrentLocation = input.CurrentLocation
	record.SpeedKph = input.SpeedKph
	record.AccuracyMeters = input.AccuracyMeters
	record.DistanceMeters = Haversine(input.CurrentLocation, record.ServiceLocation)

	if record.Status == models.TrackingOnRoute {
		if event := s.Proximity.Evaluate(record.DistanceMeters); event != nil && *event == EventArrived {
			now := time.Now()
			record.Status = models.TrackingAtLocation
			record.ArrivedAt = &now
			utils.GetLogger().Info("provider auto-marked arrived",
				zap.String("sessionID", record.SessionID),
				zap.Float64("distanceMeters", record.DistanceMeters))
		}
	}

	if err := s.Repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save location update: %w", err)
	}
	return record, nil
}

// MarkArrived is the explicit arrival transition: on_route -> at_location.
func (s *DefaultTrackingService) MarkArrived(ctx context.Context, sessionID, actorID, role string) (*models.LocationTracking, error) {
	record, err := s.mustGetActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && actorID != record.ProviderID {
		return nil, utils.NewForbiddenError("only the tracked provider can mark arrival")
	}
	if record.Status != models.TrackingOnRoute {
		return nil, utils.NewBadRequestError(fmt.Sprintf("tracking is %s; arrival applies only while on route", record.Status))
	}

	now := time.Now()
	record.Status = models.TrackingAtLocation
	record.ArrivedAt = &now
	if err := s.Repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to mark arrival: %w", err)
	}
	return record, nil
}

// MarkServiceStarted stamps the service start. The tracking status is
// deliberately untouched; service start is tracked only by timestamp presence.
func (s *DefaultTrackingService) MarkServiceStarted(ctx context.Context, sessionID, actorID, role string) (*models.LocationTracking, error) {
	record, err := s.mustGetActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && actorID != record.ProviderID {
		return nil, utils.NewForbiddenError("only the tracked provider can mark service start")
	}
	if record.ServiceStartedAt != nil {
		return nil, utils.NewBadRequestError("service already marked as started")
	}

	now := time.Now()
	record.ServiceStartedAt = &now
	if err := s.Repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to mark service start: %w", err)
	}
	return record, nil
}

// CompleteService closes the tracking record and completes the parent session.
// This is the production completion trigger for tracked sessions, so the
// earnings settlement fires through the session lifecycle manager here.
func (s *DefaultTrackingService) CompleteService(ctx context.Context, sessionID, actorID, role string) (*models.LocationTracking, error) {
	record, err := s.mustGetActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && actorID != record.ProviderID {
		return nil, utils.NewForbiddenError("only the tracked provider can complete the service")
	}

	now := time.Now()
	record.Status = models.TrackingServiceComplete
	record.ServiceCompletedAt = &now
	record.IsActive = false
	if err := s.Repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to close tracking record: %w", err)
	}

	if _, err := s.Sessions.CompleteFromTracking(ctx, sessionID); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("service completed via tracking",
		zap.String("sessionID", sessionID),
		zap.String("providerID", record.ProviderID))
	return record, nil
}

// StopTracking is the emergency deactivation: provider, seeker, or admin. The
// parent session status is left untouched.
func (s *DefaultTrackingService) StopTracking(ctx context.Context, sessionID, actorID, role string) (*models.LocationTracking, error) {
	record, err := s.mustGetActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && actorID != record.ProviderID && actorID != record.SeekerID {
		return nil, utils.NewForbiddenError("only the session's parties or an admin can stop tracking")
	}

	record.IsActive = false
	if err := s.Repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to stop tracking: %w", err)
	}

	utils.GetLogger().Info("tracking stopped",
		zap.String("sessionID", sessionID),
		zap.String("stoppedBy", actorID))
	return record, nil
}

// GetActiveTracking is the read side used by the seeker's live view.
func (s *DefaultTrackingService) GetActiveTracking(ctx context.Context, sessionID, actorID, role string) (*models.LocationTracking, error) {
	record, err := s.mustGetActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && actorID != record.ProviderID && actorID != record.SeekerID {
		return nil, utils.NewForbiddenError("only the session's parties or an admin can view tracking")
	}
	return record, nil
}

func (s *DefaultTrackingService) mustGetActive(ctx context.Context, sessionID string) (*models.LocationTracking, error) {
	record, err := s.Repo.GetActiveBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracking record: %w", err)
	}
	if record == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("no active tracking for session %s", sessionID))
	}
	return record, nil
}
