// File: services/availability/schedule.go
package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"servilink/models"
	"servilink/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// SetDaySchedule replaces the provider's schedule for one weekday. Slots must
// be well-formed and non-overlapping.
func (s *DefaultAvailabilityService) SetDaySchedule(ctx context.Context, providerID string, day models.DayOfWeek, slots []models.TimeSlot, isActive bool) (*models.Availability, error) {
	if err := validateSlots(slots); err != nil {
		return nil, err
	}

	sorted := make([]models.TimeSlot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartTime < sorted[j].StartTime })

	availability := &models.Availability{
		ProviderID: providerID,
		DayOfWeek:  day,
		TimeSlots:  sorted,
		IsActive:   isActive,
	}
	if err := s.Repo.Upsert(ctx, availability); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}
	return availability, nil
}

func (s *DefaultAvailabilityService) GetWeeklySchedule(ctx context.Context, providerID string) ([]models.Availability, error) {
	schedules, err := s.Repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly schedule: %w", err)
	}
	return schedules, nil
}

func (s *DefaultAvailabilityService) RemoveDaySchedule(ctx context.Context, providerID string, day models.DayOfWeek) error {
	err := s.Repo.Delete(ctx, providerID, day)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.NewNotFoundError(fmt.Sprintf("no schedule for %s", day))
	}
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

func validateSlots(slots []models.TimeSlot) error {
	if len(slots) == 0 {
		return utils.NewBadRequestError("at least one time slot is required")
	}
	for _, slot := range slots {
		if !utils.ValidClock(slot.StartTime) || !utils.ValidClock(slot.EndTime) {
			return utils.NewBadRequestError("slot times must be HH:mm")
		}
		if slot.StartTime >= slot.EndTime {
			return utils.NewBadRequestError(fmt.Sprintf("slot %s-%s ends before it starts", slot.StartTime, slot.EndTime))
		}
	}
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			if slots[i].StartTime < slots[j].EndTime && slots[i].EndTime > slots[j].StartTime {
				return utils.NewBadRequestError("time slots must not overlap")
			}
		}
	}
	return nil
}
