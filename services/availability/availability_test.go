package availability

import (
	"context"
	"testing"

	"servilink/models"
	"servilink/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAvailabilityRepo struct {
	schedules map[string]*models.Availability // key: providerID + "/" + day
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{schedules: make(map[string]*models.Availability)}
}

func (f *fakeAvailabilityRepo) key(providerID string, day models.DayOfWeek) string {
	return providerID + "/" + string(day)
}

func (f *fakeAvailabilityRepo) Upsert(ctx context.Context, a *models.Availability) error {
	f.schedules[f.key(a.ProviderID, a.DayOfWeek)] = a
	return nil
}

func (f *fakeAvailabilityRepo) GetByProviderAndDay(ctx context.Context, providerID string, day models.DayOfWeek) (*models.Availability, error) {
	return f.schedules[f.key(providerID, day)], nil
}

func (f *fakeAvailabilityRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Availability, error) {
	var out []models.Availability
	for _, a := range f.schedules {
		if a.ProviderID == providerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) Delete(ctx context.Context, providerID string, day models.DayOfWeek) error {
	delete(f.schedules, f.key(providerID, day))
	return nil
}

func (f *fakeAvailabilityRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeSessionRepo struct {
	sessions []models.Session
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *models.Session) error { return nil }
func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	return nil, nil
}
func (f *fakeSessionRepo) Update(ctx context.Context, s *models.Session) error { return nil }

func (f *fakeSessionRepo) FindActiveForProviderDate(ctx context.Context, providerID, date, excludeSessionID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range f.sessions {
		if s.ProviderID != providerID || s.SessionDate != date {
			continue
		}
		if excludeSessionID != "" && s.ID == excludeSessionID {
			continue
		}
		if s.Status.Terminal() {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSessionRepo) FindBySeeker(ctx context.Context, seekerID string, page, limit int64) ([]models.Session, int64, error) {
	return nil, 0, nil
}
func (f *fakeSessionRepo) FindByProvider(ctx context.Context, providerID string, page, limit int64) ([]models.Session, int64, error) {
	return nil, 0, nil
}
func (f *fakeSessionRepo) FindPendingAssignment(ctx context.Context, page, limit int64) ([]models.Session, int64, error) {
	return nil, 0, nil
}
func (f *fakeSessionRepo) CountByStatus(ctx context.Context, field, id string) (map[models.SessionStatus]int64, error) {
	return map[models.SessionStatus]int64{}, nil
}
func (f *fakeSessionRepo) EnsureIndexes(ctx context.Context) error { return nil }

// 2026-01-05 is a Monday.
const mondayDate = "2026-01-05"

func newTestService() (*DefaultAvailabilityService, *fakeAvailabilityRepo, *fakeSessionRepo) {
	availRepo := newFakeAvailabilityRepo()
	sessRepo := &fakeSessionRepo{}
	return &DefaultAvailabilityService{Repo: availRepo, SessionRepo: sessRepo}, availRepo, sessRepo
}

func TestIsAvailable(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	repo.schedules[repo.key("prov-1", models.Monday)] = &models.Availability{
		ProviderID: "prov-1",
		DayOfWeek:  models.Monday,
		IsActive:   true,
		TimeSlots: []models.TimeSlot{
			{StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
			{StartTime: "13:00", EndTime: "17:00", IsAvailable: true},
			{StartTime: "18:00", EndTime: "20:00", IsAvailable: false},
		},
	}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"fully inside a slot", "09:00", "12:00", true},
		{"inside the afternoon slot", "14:00", "16:00", true},
		{"ends past the slot", "16:00", "18:00", false},
		{"starts before the slot", "08:00", "10:00", false},
		{"spans two adjacent slots", "11:00", "14:00", false},
		{"inside a closed slot", "18:00", "19:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsAvailable(ctx, "prov-1", mondayDate, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAvailableNoSchedule(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	got, err := svc.IsAvailable(ctx, "prov-1", mondayDate, "09:00", "10:00")
	require.NoError(t, err)
	assert.False(t, got, "no schedule means unavailable")

	repo.schedules[repo.key("prov-1", models.Monday)] = &models.Availability{
		ProviderID: "prov-1",
		DayOfWeek:  models.Monday,
		IsActive:   false,
		TimeSlots:  []models.TimeSlot{{StartTime: "09:00", EndTime: "17:00", IsAvailable: true}},
	}
	got, err = svc.IsAvailable(ctx, "prov-1", mondayDate, "09:00", "10:00")
	require.NoError(t, err)
	assert.False(t, got, "inactive day means unavailable")
}

func TestIsAvailableRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.IsAvailable(ctx, "prov-1", mondayDate, "9:00", "10:00")
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))

	_, err = svc.IsAvailable(ctx, "prov-1", "05-01-2026", "09:00", "10:00")
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))
}

func TestCheckSessionConflict(t *testing.T) {
	svc, _, sessRepo := newTestService()
	ctx := context.Background()

	sessRepo.sessions = []models.Session{
		{ID: "s1", ProviderID: "prov-1", SessionDate: mondayDate, StartTime: "10:00", EndTime: "12:00", Status: models.StatusConfirmed},
		{ID: "s2", ProviderID: "prov-1", SessionDate: mondayDate, StartTime: "15:00", EndTime: "16:00", Status: models.StatusCancelled},
	}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"overlapping start", "11:00", "13:00", true},
		{"overlapping end", "09:00", "11:00", true},
		{"contained", "10:30", "11:30", true},
		{"containing", "09:00", "13:00", true},
		{"edge-touching end-to-start is free", "12:00", "13:00", false},
		{"edge-touching start-to-end is free", "09:00", "10:00", false},
		{"cancelled sessions do not block", "15:00", "16:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CheckSessionConflict(ctx, "prov-1", mondayDate, tt.start, tt.end, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckSessionConflictExcludesSelf(t *testing.T) {
	svc, _, sessRepo := newTestService()
	ctx := context.Background()

	sessRepo.sessions = []models.Session{
		{ID: "s1", ProviderID: "prov-1", SessionDate: mondayDate, StartTime: "10:00", EndTime: "12:00", Status: models.StatusConfirmed},
	}

	conflict, err := svc.CheckSessionConflict(ctx, "prov-1", mondayDate, "10:00", "12:00", "s1")
	require.NoError(t, err)
	assert.False(t, conflict, "a session must not conflict with itself when rescheduling")
}

func TestSetDaySchedule(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	saved, err := svc.SetDaySchedule(ctx, "prov-1", models.Monday, []models.TimeSlot{
		{StartTime: "13:00", EndTime: "17:00", IsAvailable: true},
		{StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
	}, true)
	require.NoError(t, err)
	require.Len(t, saved.TimeSlots, 2)
	assert.Equal(t, "09:00", saved.TimeSlots[0].StartTime, "slots are sorted by start time")

	_, err = svc.SetDaySchedule(ctx, "prov-1", models.Monday, []models.TimeSlot{
		{StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
		{StartTime: "11:00", EndTime: "14:00", IsAvailable: true},
	}, true)
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest), "overlapping slots are rejected")

	_, err = svc.SetDaySchedule(ctx, "prov-1", models.Monday, []models.TimeSlot{
		{StartTime: "12:00", EndTime: "09:00", IsAvailable: true},
	}, true)
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest), "inverted slot is rejected")

	_, err = svc.SetDaySchedule(ctx, "prov-1", models.Monday, nil, true)
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest), "empty slot list is rejected")
}
