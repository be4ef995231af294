// File: services/availability/availability.go
package availability

import (
	"context"
	"fmt"
	"time"

	availabilityRepo "servilink/database/repository/availability"
	sessionRepo "servilink/database/repository/session"
	"servilink/models"
	"servilink/utils"
)

// Checker answers scheduling questions for the session lifecycle manager.
// Availability is checked first, conflicts second; both must pass.
type Checker interface {
	IsAvailable(ctx context.Context, providerID, date, startTime, endTime string) (bool, error)
	CheckSessionConflict(ctx context.Context, providerID, date, startTime, endTime, excludeSessionID string) (bool, error)
}

// Manager is the provider-facing schedule CRUD surface.
type Manager interface {
	SetDaySchedule(ctx context.Context, providerID string, day models.DayOfWeek, slots []models.TimeSlot, isActive bool) (*models.Availability, error)
	GetWeeklySchedule(ctx context.Context, providerID string) ([]models.Availability, error)
	RemoveDaySchedule(ctx context.Context, providerID string, day models.DayOfWeek) error
}

// DefaultAvailabilityService implements Checker and Manager.
type DefaultAvailabilityService struct {
	Repo        availabilityRepo.AvailabilityRepository
	SessionRepo sessionRepo.SessionRepository
}

// IsAvailable reports whether [startTime, endTime] falls entirely inside a
// single open slot of the provider's schedule for that weekday. A request
// spanning two adjacent slots is not satisfied even when they are contiguous;
// that simplification is intentional.
func (s *DefaultAvailabilityService) IsAvailable(ctx context.Context, providerID, date, startTime, endTime string) (bool, error) {
	if !utils.ValidClock(startTime) || !utils.ValidClock(endTime) {
		return false, utils.NewBadRequestError("start and end times must be HH:mm")
	}
	day, err := weekdayOf(date)
	if err != nil {
		return false, err
	}

	schedule, err := s.Repo.GetByProviderAndDay(ctx, providerID, day)
	if err != nil {
		return false, fmt.Errorf("failed to load availability: %w", err)
	}
	if schedule == nil || !schedule.IsActive {
		return false, nil
	}

	for _, slot := range schedule.TimeSlots {
		if !slot.IsAvailable {
			continue
		}
		if startTime >= slot.StartTime && endTime <= slot.EndTime {
			return true, nil
		}
	}
	return false, nil
}

// CheckSessionConflict reports whether the requested range overlaps an active
// session for the same provider and date, using half-open interval overlap.
func (s *DefaultAvailabilityService) CheckSessionConflict(ctx context.Context, providerID, date, startTime, endTime, excludeSessionID string) (bool, error) {
	if !utils.ValidClock(startTime) || !utils.ValidClock(endTime) {
		return false, utils.NewBadRequestError("start and end times must be HH:mm")
	}

	existing, err := s.SessionRepo.FindActiveForProviderDate(ctx, providerID, date, excludeSessionID)
	if err != nil {
		return false, fmt.Errorf("failed to load provider sessions: %w", err)
	}

	for _, session := range existing {
		if session.StartTime < endTime && session.EndTime > startTime {
			return true, nil
		}
	}
	return false, nil
}

func weekdayOf(date string) (models.DayOfWeek, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", utils.NewBadRequestError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}
	return models.DayFromWeekday(parsed.Weekday()), nil
}
