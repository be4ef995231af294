package session

import (
	"context"
	"fmt"
	"testing"

	providerRepo "servilink/database/repository/provider"
	"servilink/models"
	"servilink/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes -----------------------------------------------------------------

type memSessionRepo struct {
	sessions map[string]*models.Session
	nextID   int
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*models.Session)}
}

func (m *memSessionRepo) Create(ctx context.Context, s *models.Session) error {
	if s.ID == "" {
		m.nextID++
		s.ID = fmt.Sprintf("sess-%d", m.nextID)
	}
	copied := *s
	m.sessions[s.ID] = &copied
	return nil
}

func (m *memSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *memSessionRepo) Update(ctx context.Context, s *models.Session) error {
	if _, ok := m.sessions[s.ID]; !ok {
		return fmt.Errorf("session %s not found", s.ID)
	}
	copied := *s
	m.sessions[s.ID] = &copied
	return nil
}

func (m *memSessionRepo) FindActiveForProviderDate(ctx context.Context, providerID, date, excludeSessionID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.ProviderID != providerID || s.SessionDate != date || s.ID == excludeSessionID {
			continue
		}
		if s.Status.Terminal() {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m *memSessionRepo) FindBySeeker(ctx context.Context, seekerID string, page, limit int64) ([]models.Session, int64, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.SeekerID == seekerID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memSessionRepo) FindByProvider(ctx context.Context, providerID string, page, limit int64) ([]models.Session, int64, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.ProviderID == providerID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memSessionRepo) FindPendingAssignment(ctx context.Context, page, limit int64) ([]models.Session, int64, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.Status == models.StatusPendingAssignment {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memSessionRepo) CountByStatus(ctx context.Context, field, id string) (map[models.SessionStatus]int64, error) {
	counts := make(map[models.SessionStatus]int64)
	for _, s := range m.sessions {
		if (field == "seekerId" && s.SeekerID == id) || (field == "providerId" && s.ProviderID == id) {
			counts[s.Status]++
		}
	}
	return counts, nil
}

func (m *memSessionRepo) EnsureIndexes(ctx context.Context) error { return nil }

type memCatalogRepo struct {
	services map[string]*models.Service
}

func (m *memCatalogRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	return m.services[id], nil
}

func (m *memCatalogRepo) GetGenericByCategory(ctx context.Context, category models.ServiceCategory) (*models.Service, error) {
	for _, svc := range m.services {
		if svc.IsGeneric && svc.Category == category {
			return svc, nil
		}
	}
	return nil, nil
}

func (m *memCatalogRepo) Create(ctx context.Context, svc *models.Service) error {
	if svc.ID == "" {
		svc.ID = fmt.Sprintf("svc-%d", len(m.services)+1)
	}
	m.services[svc.ID] = svc
	return nil
}

type memProviderRepo struct {
	providers map[string]*models.Provider
	loads     map[string]int
	ratings   map[string][]int
}

func newMemProviderRepo() *memProviderRepo {
	return &memProviderRepo{
		providers: make(map[string]*models.Provider),
		loads:     make(map[string]int),
		ratings:   make(map[string][]int),
	}
}

func (m *memProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	return m.providers[id], nil
}

func (m *memProviderRepo) Search(ctx context.Context, criteria providerRepo.ProviderSearchCriteria) ([]models.Provider, error) {
	return nil, nil
}

func (m *memProviderRepo) AdjustActiveSessions(ctx context.Context, providerID string, delta int) error {
	m.loads[providerID] += delta
	return nil
}

func (m *memProviderRepo) UpdateRating(ctx context.Context, providerID string, rating int) error {
	m.ratings[providerID] = append(m.ratings[providerID], rating)
	return nil
}

type memUserRepo struct {
	users map[string]*models.User
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.users[id], nil
}

type fixedPricing struct{}

func (fixedPricing) CalculateSessionPrice(ctx context.Context, category models.ServiceCategory, durationHours float64) (*models.PricingResult, error) {
	result := &models.PricingResult{BasePrice: 3000, TotalPrice: 3000, BaseDuration: 4}
	if durationHours > 4 {
		result.OvertimeHours = durationHours - 4
		result.OvertimePrice = result.OvertimeHours * 750
		result.TotalPrice = result.BasePrice + result.OvertimePrice
	}
	return result, nil
}

type openChecker struct{}

func (openChecker) IsAvailable(ctx context.Context, providerID, date, startTime, endTime string) (bool, error) {
	return true, nil
}
func (openChecker) CheckSessionConflict(ctx context.Context, providerID, date, startTime, endTime, excludeSessionID string) (bool, error) {
	return false, nil
}

type countingPublisher struct {
	published []string
}

func (p *countingPublisher) PublishSessionCompleted(ctx context.Context, session *models.Session) error {
	p.published = append(p.published, session.ID)
	return nil
}

// --- harness ---------------------------------------------------------------

type harness struct {
	svc       *DefaultSessionService
	repo      *memSessionRepo
	catalog   *memCatalogRepo
	providers *memProviderRepo
	publisher *countingPublisher
}

func newHarness(opts Options) *harness {
	repo := newMemSessionRepo()
	catalog := &memCatalogRepo{services: map[string]*models.Service{
		"svc-clean": {
			ID: "svc-clean", ProviderID: "prov-1", Category: models.CategoryCleaning,
			Title: "Deep cleaning", IsAvailable: true,
		},
	}}
	providers := newMemProviderRepo()
	providers.providers["prov-1"] = &models.Provider{ID: "prov-1", Category: models.CategoryCleaning, IsActive: true}
	providers.providers["prov-2"] = &models.Provider{ID: "prov-2", Category: models.CategoryPlumbing, IsActive: true}
	users := &memUserRepo{users: map[string]*models.User{
		"seeker-1": {ID: "seeker-1", Role: models.RoleSeeker, IsActive: true},
	}}
	publisher := &countingPublisher{}

	return &harness{
		svc: &DefaultSessionService{
			Repo:         repo,
			CatalogRepo:  catalog,
			ProviderRepo: providers,
			UserRepo:     users,
			Pricing:      fixedPricing{},
			Availability: openChecker{},
			Settlement:   publisher,
			Opts:         opts,
		},
		repo:      repo,
		catalog:   catalog,
		providers: providers,
		publisher: publisher,
	}
}

func adminOpts() Options {
	return Options{RequireAdminAssignment: true, AutoConfirmOnAssign: true, Currency: "FCFA"}
}

func validCreateInput() CreateSessionInput {
	return CreateSessionInput{
		SeekerID:        "seeker-1",
		ServiceID:       "svc-clean",
		SessionDate:     "2026-01-05",
		StartTime:       "09:00",
		DurationHours:   4,
		ServiceLocation: models.ProvinceLittoral,
	}
}

// --- tests -----------------------------------------------------------------

func TestCreateSessionAdminMediated(t *testing.T) {
	h := newHarness(adminOpts())

	created, err := h.svc.CreateSession(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPendingAssignment, created.Status)
	assert.Empty(t, created.ProviderID, "admin-mediated sessions start unassigned")
	assert.Equal(t, "13:00", created.EndTime)
	assert.Equal(t, 3000.0, created.TotalAmount)
	assert.Equal(t, "FCFA", created.Currency)
	assert.Equal(t, models.PaymentPending, created.PaymentStatus)
}

func TestCreateSessionDirectBooking(t *testing.T) {
	h := newHarness(Options{RequireAdminAssignment: false, Currency: "FCFA"})

	created, err := h.svc.CreateSession(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "prov-1", created.ProviderID, "direct bookings bind the catalog provider")
	assert.Equal(t, 1, h.providers.loads["prov-1"])
}

func TestCreateSessionValidation(t *testing.T) {
	h := newHarness(adminOpts())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateSessionInput)
	}{
		{"bad date", func(in *CreateSessionInput) { in.SessionDate = "05/01/2026" }},
		{"bad start time", func(in *CreateSessionInput) { in.StartTime = "9am" }},
		{"zero duration", func(in *CreateSessionInput) { in.DurationHours = 0 }},
		{"excessive duration", func(in *CreateSessionInput) { in.DurationHours = 17 }},
		{"fractional minutes", func(in *CreateSessionInput) { in.DurationHours = 1.001 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			tt.mutate(&input)
			_, err := h.svc.CreateSession(ctx, input)
			assert.True(t, utils.IsCode(err, utils.CodeBadRequest), "got %v", err)
		})
	}

	input := validCreateInput()
	input.SeekerID = "ghost"
	_, err := h.svc.CreateSession(ctx, input)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	input = validCreateInput()
	input.ServiceID = "no-such-service"
	_, err = h.svc.CreateSession(ctx, input)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestCreateServiceRequestCreatesGenericService(t *testing.T) {
	h := newHarness(adminOpts())

	created, err := h.svc.CreateServiceRequest(context.Background(), ServiceRequestInput{
		SeekerID:        "seeker-1",
		Category:        models.CategoryPlumbing,
		SessionDate:     "2026-01-05",
		StartTime:       "10:00",
		DurationHours:   2,
		ServiceLocation: models.ProvinceCentre,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPendingAssignment, created.Status)
	assert.Empty(t, created.ProviderID)

	generic, err := h.catalog.GetGenericByCategory(context.Background(), models.CategoryPlumbing)
	require.NoError(t, err)
	require.NotNil(t, generic, "a generic catalog entry is created lazily")
	assert.Equal(t, generic.ID, created.ServiceID)

	// A second request reuses the same generic service.
	second, err := h.svc.CreateServiceRequest(context.Background(), ServiceRequestInput{
		SeekerID:        "seeker-1",
		Category:        models.CategoryPlumbing,
		SessionDate:     "2026-01-06",
		StartTime:       "10:00",
		DurationHours:   2,
		ServiceLocation: models.ProvinceCentre,
	})
	require.NoError(t, err)
	assert.Equal(t, generic.ID, second.ServiceID)
}

func TestAssignProvider(t *testing.T) {
	h := newHarness(adminOpts())
	created, err := h.svc.CreateSession(context.Background(), validCreateInput())
	require.NoError(t, err)

	assigned, err := h.svc.AssignProvider(context.Background(), created.ID, "prov-1", "admin-1", "closest match")
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, assigned.Status, "AutoConfirmOnAssign skips the assigned state")
	assert.Equal(t, "prov-1", assigned.ProviderID)
	assert.Equal(t, "admin-1", assigned.AssignedBy)
	require.NotNil(t, assigned.AssignedAt)
	assert.Equal(t, "closest match", assigned.AssignmentNotes)
	assert.Equal(t, 1, h.providers.loads["prov-1"])
}

func TestAssignProviderWithoutAutoConfirm(t *testing.T) {
	opts := adminOpts()
	opts.AutoConfirmOnAssign = false
	h := newHarness(opts)
	created, err := h.svc.CreateSession(context.Background(), validCreateInput())
	require.NoError(t, err)

	assigned, err := h.svc.AssignProvider(context.Background(), created.ID, "prov-1", "admin-1", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, assigned.Status)

	confirmed, err := h.svc.ConfirmSession(context.Background(), created.ID, "prov-1", models.RoleProvider)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)
}

func TestAssignProviderPreconditions(t *testing.T) {
	h := newHarness(adminOpts())
	ctx := context.Background()
	created, err := h.svc.CreateSession(ctx, validCreateInput())
	require.NoError(t, err)

	// Wrong category.
	_, err = h.svc.AssignProvider(ctx, created.ID, "prov-2", "admin-1", "")
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))

	// Unknown provider.
	_, err = h.svc.AssignProvider(ctx, created.ID, "ghost", "admin-1", "")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	// Double assignment.
	_, err = h.svc.AssignProvider(ctx, created.ID, "prov-1", "admin-1", "")
	require.NoError(t, err)
	_, err = h.svc.AssignProvider(ctx, created.ID, "prov-1", "admin-1", "")
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest), "assigning a non-pending session must fail")
}

func TestRejectAndReopen(t *testing.T) {
	h := newHarness(adminOpts())
	ctx := context.Background()
	created, err := h.svc.CreateSession(ctx, validCreateInput())
	require.NoError(t, err)

	rejected, err := h.svc.RejectServiceRequest(ctx, created.ID, "no providers in the area", "checked littoral", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "no providers in the area", rejected.RejectionReason)
	require.NotNil(t, rejected.RejectedAt)

	// Rejection is terminal: no assignment afterwards.
	_, err = h.svc.AssignProvider(ctx, created.ID, "prov-1", "admin-1", "")
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))

	// Reopen puts it back into the queue with a clean slate.
	reopened, err := h.svc.ReopenForAssignment(ctx, created.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingAssignment, reopened.Status)
	assert.Empty(t, reopened.RejectionReason)
	assert.Empty(t, reopened.ProviderID)

	_, err = h.svc.AssignProvider(ctx, created.ID, "prov-1", "admin-1", "")
	require.NoError(t, err, "reopened sessions can be assigned again")
}

func TestCompleteSettlesExactlyOnce(t *testing.T) {
	h := newHarness(adminOpts())
	ctx := context.Background()
	created, err := h.svc.CreateSession(ctx, validCreateInput())
	require.NoError(t, err)
	_, err = h.svc.AssignProvider(ctx, created.ID, "prov-1", "admin-1", "")
	require.NoError(t, err)

	completed, err := h.svc.CompleteFromTracking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.Equal(t, []string{created.ID}, h.publisher.published)
	assert.Equal(t, 0, h.providers.loads["prov-1"], "completion releases the provider's load")

	// Redelivery of the completion is a no-op.
	again, err := h.svc.CompleteFromTracking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, again.Status)
	assert.Len(t, h.publisher.published, 1, "settlement must not be published twice")
}

func TestUpdateSessionStatusRules(t *testing.T) {
	h := newHarness(adminOpts())
	ctx := context.Background()
	created, err := h.svc.CreateSession(ctx, validCreateInput())
	require.NoError(t, err)
	_, err = h.svc.AssignProvider(ctx, created.ID, "prov-1", "admin-1", "")
	require.NoError(t, err)

	// confirmed -> in_progress -> completed via patches.
	inProgress := models.StatusInProgress
	_, err = h.svc.UpdateSession(ctx, created.ID, SessionPatch{Status: &inProgress}, "prov-1", models.RoleProvider)
	require.NoError(t, err)

	// in_progress cannot go back to confirmed.
	confirmedStatus := models.StatusConfirmed
	_, err = h.svc.UpdateSession(ctx, created.ID, SessionPatch{Status: &confirmedStatus}, "prov-1", models.RoleProvider)
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))

	completedStatus := models.StatusCompleted
	updated, err := h.svc.UpdateSession(ctx, created.ID, SessionPatch{Status: &completedStatus}, "prov-1", models.RoleProvider)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Len(t, h.publisher.published, 1, "the patch path settles too")

	// Completed is terminal.
	cancelledStatus := models.StatusCancelled
	_, err = h.svc.UpdateSession(ctx, created.ID, SessionPatch{Status: &cancelledStatus}, "prov-1", models.RoleProvider)
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))
}

func TestUpdateSessionAuthorization(t *testing.T) {
	h := newHarness(adminOpts())
	ctx := context.Background()
	created, err := h.svc.CreateSession(ctx, validCreateInput())
	require.NoError(t, err)

	addr := "12 Rue Joffre"
	_, err = h.svc.UpdateSession(ctx, created.ID, SessionPatch{Address: &addr}, "stranger", models.RoleSeeker)
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))

	updated, err := h.svc.UpdateSession(ctx, created.ID, SessionPatch{Address: &addr}, "seeker-1", models.RoleSeeker)
	require.NoError(t, err)
	assert.Equal(t, addr, updated.Address)
}

func TestRescheduleRecomputesPricing(t *testing.T) {
	h := newHarness(adminOpts())
	ctx := context.Background()
	created, err := h.svc.CreateSession(ctx, validCreateInput())
	require.NoError(t, err)

	newDuration := 6.0
	updated, err := h.svc.UpdateSession(ctx, created.ID, SessionPatch{DurationHours: &newDuration}, "seeker-1", models.RoleSeeker)
	require.NoError(t, err)
	assert.Equal(t, "15:00", updated.EndTime)
	assert.Equal(t, 2.0, updated.OvertimeHours)
	assert.Equal(t, 4500.0, updated.TotalAmount, "pricing snapshot follows the new duration")
}

func TestCancelSession(t *testing.T) {
	h := newHarness(adminOpts())
	ctx := context.Background()
	created, err := h.svc.CreateSession(ctx, validCreateInput())
	require.NoError(t, err)

	_, err = h.svc.CancelSession(ctx, created.ID, "stranger", models.RoleSeeker, "changed plans")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))

	cancelled, err := h.svc.CancelSession(ctx, created.ID, "seeker-1", models.RoleSeeker, "changed plans")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, "seeker-1", cancelled.CancelledBy)
	assert.Equal(t, "changed plans", cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancelledAt)
}

func TestCancelCompletedSessionFails(t *testing.T) {
	h := newHarness(adminOpts())
	ctx := context.Background()
	created, err := h.svc.CreateSession(ctx, validCreateInput())
	require.NoError(t, err)
	_, err = h.svc.AssignProvider(ctx, created.ID, "prov-1", "admin-1", "")
	require.NoError(t, err)
	_, err = h.svc.CompleteFromTracking(ctx, created.ID)
	require.NoError(t, err)

	_, err = h.svc.CancelSession(ctx, created.ID, "seeker-1", models.RoleSeeker, "too late")
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))
}

func TestRateSession(t *testing.T) {
	h := newHarness(adminOpts())
	ctx := context.Background()
	created, err := h.svc.CreateSession(ctx, validCreateInput())
	require.NoError(t, err)
	_, err = h.svc.AssignProvider(ctx, created.ID, "prov-1", "admin-1", "")
	require.NoError(t, err)

	// Not ratable before completion.
	_, err = h.svc.RateSession(ctx, created.ID, "seeker-1", models.RoleSeeker, 5, "great")
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))

	_, err = h.svc.CompleteFromTracking(ctx, created.ID)
	require.NoError(t, err)

	rated, err := h.svc.RateSession(ctx, created.ID, "seeker-1", models.RoleSeeker, 5, "great work")
	require.NoError(t, err)
	assert.Equal(t, 5, rated.SeekerRating)
	assert.Equal(t, []int{5}, h.providers.ratings["prov-1"], "seeker ratings feed the provider average")

	// Double rating is rejected.
	_, err = h.svc.RateSession(ctx, created.ID, "seeker-1", models.RoleSeeker, 4, "")
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))

	// The provider rates the seeker independently.
	rated, err = h.svc.RateSession(ctx, created.ID, "prov-1", models.RoleProvider, 4, "punctual")
	require.NoError(t, err)
	assert.Equal(t, 4, rated.ProviderRating)

	// Out-of-range and stranger ratings fail.
	_, err = h.svc.RateSession(ctx, created.ID, "seeker-1", models.RoleSeeker, 6, "")
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))
	_, err = h.svc.RateSession(ctx, created.ID, "stranger", models.RoleSeeker, 3, "")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestFindPendingAssignment(t *testing.T) {
	h := newHarness(adminOpts())
	ctx := context.Background()
	created, err := h.svc.CreateSession(ctx, validCreateInput())
	require.NoError(t, err)

	pending, total, err := h.svc.FindPendingAssignment(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].ID)

	_, err = h.svc.AssignProvider(ctx, created.ID, "prov-1", "admin-1", "")
	require.NoError(t, err)

	_, total, err = h.svc.FindPendingAssignment(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
