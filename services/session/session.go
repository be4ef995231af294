// File: services/session/session.go
package session

import (
	"context"
	"fmt"
	"time"

	"servilink/models"
	"servilink/utils"

	"go.uber.org/zap"
)

const scheduleLockTTL = 5 * time.Second

// CreateSession books a concrete catalog service for a seeker. Availability is
// checked before conflicts; both must pass before the session is persisted.
func (s *DefaultSessionService) CreateSession(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	if err := validateSchedulingFields(input.SessionDate, input.StartTime, input.DurationHours); err != nil {
		return nil, err
	}

	seeker, err := s.UserRepo.GetByID(ctx, input.SeekerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up seeker: %w", err)
	}
	if seeker == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("seeker %s not found", input.SeekerID))
	}

	service, err := s.CatalogRepo.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up service: %w", err)
	}
	if service == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("service %s not found", input.ServiceID))
	}
	if !service.IsAvailable {
		return nil, utils.NewConflictError(fmt.Sprintf("service %s is not available", service.Title))
	}
	if service.ProviderID == "" {
		return nil, utils.NewBadRequestError("service has no provider; submit a service request instead")
	}

	endTime, err := utils.AddToClock(input.StartTime, int(input.DurationHours*60))
	if err != nil {
		return nil, utils.NewBadRequestError(err.Error())
	}

	price, err := s.Pricing.CalculateSessionPrice(ctx, service.Category, input.DurationHours)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		SeekerID:        input.SeekerID,
		ServiceID:       service.ID,
		ServiceName:     service.Title,
		Category:        service.Category,
		SessionDate:     input.SessionDate,
		StartTime:       input.StartTime,
		EndTime:         endTime,
		DurationHours:   input.DurationHours,
		BaseDuration:    price.BaseDuration,
		OvertimeHours:   price.OvertimeHours,
		BasePrice:       price.BasePrice,
		OvertimePrice:   price.OvertimePrice,
		TotalAmount:     price.TotalPrice,
		Currency:        s.Opts.Currency,
		PaymentStatus:   models.PaymentPending,
		ServiceLocation: input.ServiceLocation,
		Address:         input.Address,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Instructions:    input.Instructions,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	unlock, err := s.acquireScheduleLock(ctx, service.ProviderID, input.SessionDate)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkProviderSchedule(ctx, service.ProviderID, session, ""); err != nil {
		return nil, err
	}

	if s.Opts.RequireAdminAssignment {
		// The catalog provider is only a suggestion here: the session enters the
		// admin queue unassigned and an admin binds the final provider.
		session.Status = models.StatusPendingAssignment
	} else {
		session.Status = models.StatusPending
		session.ProviderID = service.ProviderID
	}

	if err := s.Repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if session.ProviderID != "" {
		s.adjustProviderLoad(ctx, session.ProviderID, 1)
	}

	utils.GetLogger().Info("session created",
		zap.String("sessionID", session.ID),
		zap.String("seekerID", session.SeekerID),
		zap.String("status", string(session.Status)))
	return session, nil
}

// CreateServiceRequest books by category only. The session is created against a
// lazily-created generic per-category service, with no provider, awaiting
// admin assignment.
func (s *DefaultSessionService) CreateServiceRequest(ctx context.Context, input ServiceRequestInput) (*models.Session, error) {
	if err := validateSchedulingFields(input.SessionDate, input.StartTime, input.DurationHours); err != nil {
		return nil, err
	}
	if !models.ValidCategory(input.Category) {
		return nil, utils.NewBadRequestError(fmt.Sprintf("unknown category %s", input.Category))
	}

	seeker, err := s.UserRepo.GetByID(ctx, input.SeekerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up seeker: %w", err)
	}
	if seeker == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("seeker %s not found", input.SeekerID))
	}

	service, err := s.getOrCreateGenericService(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	endTime, err := utils.AddToClock(input.StartTime, int(input.DurationHours*60))
	if err != nil {
		return nil, utils.NewBadRequestError(err.Error())
	}

	price, err := s.Pricing.CalculateSessionPrice(ctx, input.Category, input.DurationHours)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		SeekerID:        input.SeekerID,
		ServiceID:       service.ID,
		ServiceName:     service.Title,
		Category:        input.Category,
		SessionDate:     input.SessionDate,
		StartTime:       input.StartTime,
		EndTime:         endTime,
		DurationHours:   input.DurationHours,
		BaseDuration:    price.BaseDuration,
		OvertimeHours:   price.OvertimeHours,
		BasePrice:       price.BasePrice,
		OvertimePrice:   price.OvertimePrice,
		TotalAmount:     price.TotalPrice,
		Currency:        s.Opts.Currency,
		Status:          models.StatusPendingAssignment,
		PaymentStatus:   models.PaymentPending,
		ServiceLocation: input.ServiceLocation,
		Address:         input.Address,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Instructions:    input.Instructions,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.Repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create service request: %w", err)
	}

	utils.GetLogger().Info("service request created",
		zap.String("sessionID", session.ID),
		zap.String("category", string(input.Category)))
	return session, nil
}

func (s *DefaultSessionService) getOrCreateGenericService(ctx context.Context, category models.ServiceCategory) (*models.Service, error) {
	service, err := s.CatalogRepo.GetGenericByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to look up generic service: %w", err)
	}
	if service != nil {
		return service, nil
	}
	service = &models.Service{
		Category:    category,
		Title:       fmt.Sprintf("%s (any provider)", category),
		IsAvailable: true,
		IsGeneric:   true,
	}
	if err := s.CatalogRepo.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to create generic service: %w", err)
	}
	return service, nil
}

// checkProviderSchedule runs the availability check, then the conflict check.
func (s *DefaultSessionService) checkProviderSchedule(ctx context.Context, providerID string, session *models.Session, excludeSessionID string) error {
	available, err := s.Availability.IsAvailable(ctx, providerID, session.SessionDate, session.StartTime, session.EndTime)
	if err != nil {
		return err
	}
	if !available {
		return utils.NewConflictError("provider is not available at the requested time")
	}

	conflict, err := s.Availability.CheckSessionConflict(ctx, providerID, session.SessionDate, session.StartTime, session.EndTime, excludeSessionID)
	if err != nil {
		return err
	}
	if conflict {
		return utils.NewConflictError("provider already has a session at the requested time")
	}
	return nil
}

// acquireScheduleLock serializes check-then-write booking sequences per
// provider and date, closing the race between the conflict check and the
// insert. With no Locker configured the check runs unguarded.
func (s *DefaultSessionService) acquireScheduleLock(ctx context.Context, providerID, date string) (func(), error) {
	if s.Lock == nil || providerID == "" {
		return func() {}, nil
	}
	key := fmt.Sprintf("schedule:%s:%s", providerID, date)
	ok, err := s.Lock.Lock(ctx, key, scheduleLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire schedule lock: %w", err)
	}
	if !ok {
		return nil, utils.NewConflictError("another booking for this provider is in progress; retry shortly")
	}
	return func() {
		if err := s.Lock.Unlock(ctx, key); err != nil {
			utils.GetLogger().Warn("failed to release schedule lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *DefaultSessionService) adjustProviderLoad(ctx context.Context, providerID string, delta int) {
	if err := s.ProviderRepo.AdjustActiveSessions(ctx, providerID, delta); err != nil {
		utils.GetLogger().Warn("failed to adjust provider session load",
			zap.String("providerID", providerID), zap.Error(err))
	}
}

func validateSchedulingFields(date, startTime string, durationHours float64) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return utils.NewBadRequestError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}
	if !utils.ValidClock(startTime) {
		return utils.NewBadRequestError(fmt.Sprintf("invalid start time %q, expected HH:mm", startTime))
	}
	if durationHours <= 0 || durationHours > 16 {
		return utils.NewBadRequestError("duration must be between 0 and 16 hours")
	}
	if mins := durationHours * 60; mins != float64(int(mins)) {
		return utils.NewBadRequestError("duration must be a whole number of minutes")
	}
	return nil
}
