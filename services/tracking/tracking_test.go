package tracking

import (
	"context"
	"fmt"
	"testing"

	"servilink/models"
	"servilink/services/session"
	"servilink/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes -----------------------------------------------------------------

type memTrackingRepo struct {
	records map[string]*models.LocationTracking
	nextID  int
}

func newMemTrackingRepo() *memTrackingRepo {
	return &memTrackingRepo{records: make(map[string]*models.LocationTracking)}
}

func (m *memTrackingRepo) Create(ctx context.Context, t *models.LocationTracking) error {
	if t.ID == "" {
		m.nextID++
		t.ID = fmt.Sprintf("trk-%d", m.nextID)
	}
	copied := *t
	m.records[t.ID] = &copied
	return nil
}

func (m *memTrackingRepo) GetActiveBySession(ctx context.Context, sessionID string) (*models.LocationTracking, error) {
	for _, r := range m.records {
		if r.SessionID == sessionID && r.IsActive {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memTrackingRepo) Update(ctx context.Context, t *models.LocationTracking) error {
	if _, ok := m.records[t.ID]; !ok {
		return fmt.Errorf("tracking %s not found", t.ID)
	}
	copied := *t
	m.records[t.ID] = &copied
	return nil
}

func (m *memTrackingRepo) ListBySession(ctx context.Context, sessionID string) ([]models.LocationTracking, error) {
	var out []models.LocationTracking
	for _, r := range m.records {
		if r.SessionID == sessionID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memTrackingRepo) EnsureIndexes(ctx context.Context) error { return nil }

// stubSessionService serves one session and records lifecycle calls.
type stubSessionService struct {
	session.Service
	sess            *models.Session
	inProgressCalls int
	completionCalls int
}

func (s *stubSessionService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	if s.sess == nil || s.sess.ID != sessionID {
		return nil, utils.NewNotFoundError("session not found")
	}
	copied := *s.sess
	return &copied, nil
}

func (s *stubSessionService) MarkInProgress(ctx context.Context, sessionID string) (*models.Session, error) {
	s.inProgressCalls++
	s.sess.Status = models.StatusInProgress
	return s.sess, nil
}

func (s *stubSessionService) CompleteFromTracking(ctx context.Context, sessionID string) (*models.Session, error) {
	s.completionCalls++
	s.sess.Status = models.StatusCompleted
	return s.sess, nil
}

// --- harness ---------------------------------------------------------------

// Coordinates around central Douala. doualaNearby is ~70m from doualaAkwa;
// doualaFar is several kilometers out.
var (
	doualaAkwa   = models.GeoPoint{Latitude: 4.0511, Longitude: 9.7679}
	doualaNearby = models.GeoPoint{Latitude: 4.0516, Longitude: 9.7683}
	doualaFar    = models.GeoPoint{Latitude: 4.0100, Longitude: 9.7000}
)

func newTrackingHarness(status models.SessionStatus) (*DefaultTrackingService, *memTrackingRepo, *stubSessionService) {
	lat, lng := doualaAkwa.Latitude, doualaAkwa.Longitude
	sessions := &stubSessionService{sess: &models.Session{
		ID:         "sess-1",
		SeekerID:   "seeker-1",
		ProviderID: "prov-1",
		Status:     status,
		Latitude:   &lat,
		Longitude:  &lng,
	}}
	repo := newMemTrackingRepo()
	svc := &DefaultTrackingService{
		Repo:      repo,
		Sessions:  sessions,
		Proximity: ProximityPolicy{ArrivalRadiusMeters: 100},
	}
	return svc, repo, sessions
}

func startTracking(t *testing.T, svc *DefaultTrackingService, from models.GeoPoint) *models.LocationTracking {
	t.Helper()
	record, err := svc.StartTracking(context.Background(), StartTrackingInput{
		SessionID:       "sess-1",
		ActorID:         "prov-1",
		Role:            models.RoleProvider,
		CurrentLocation: from,
	})
	require.NoError(t, err)
	return record
}

// --- tests -----------------------------------------------------------------

func TestHaversine(t *testing.T) {
	assert.Zero(t, Haversine(doualaAkwa, doualaAkwa))

	d := Haversine(doualaAkwa, doualaNearby)
	assert.InDelta(t, 70, d, 15, "adjacent points are roughly 70m apart")

	d = Haversine(doualaAkwa, doualaFar)
	assert.Greater(t, d, 5000.0)
}

func TestStartTracking(t *testing.T) {
	svc, _, sessions := newTrackingHarness(models.StatusConfirmed)

	record := startTracking(t, svc, doualaFar)
	assert.Equal(t, models.TrackingOnRoute, record.Status)
	assert.True(t, record.IsActive)
	assert.Equal(t, doualaAkwa, record.ServiceLocation)
	assert.Greater(t, record.DistanceMeters, 1000.0)
	assert.Equal(t, 1, sessions.inProgressCalls, "starting tracking moves a confirmed session to in_progress")
}

func TestStartTrackingGuards(t *testing.T) {
	ctx := context.Background()

	// Only the assigned provider may start.
	svc, _, _ := newTrackingHarness(models.StatusConfirmed)
	_, err := svc.StartTracking(ctx, StartTrackingInput{
		SessionID: "sess-1", ActorID: "seeker-1", Role: models.RoleSeeker, CurrentLocation: doualaFar,
	})
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))

	// Status gate.
	svc, _, _ = newTrackingHarness(models.StatusPendingAssignment)
	_, err = svc.StartTracking(ctx, StartTrackingInput{
		SessionID: "sess-1", ActorID: "prov-1", Role: models.RoleProvider, CurrentLocation: doualaFar,
	})
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))

	// No coordinates on the session.
	svc, _, sessions := newTrackingHarness(models.StatusConfirmed)
	sessions.sess.Latitude = nil
	sessions.sess.Longitude = nil
	_, err = svc.StartTracking(ctx, StartTrackingInput{
		SessionID: "sess-1", ActorID: "prov-1", Role: models.RoleProvider, CurrentLocation: doualaFar,
	})
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))

	// Double start conflicts.
	svc, _, _ = newTrackingHarness(models.StatusConfirmed)
	startTracking(t, svc, doualaFar)
	_, err = svc.StartTracking(ctx, StartTrackingInput{
		SessionID: "sess-1", ActorID: "prov-1", Role: models.RoleProvider, CurrentLocation: doualaFar,
	})
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
}

func TestUpdateLocationAutoArrival(t *testing.T) {
	svc, _, _ := newTrackingHarness(models.StatusConfirmed)
	startTracking(t, svc, doualaFar)
	ctx := context.Background()

	// Still far: stays on route.
	record, err := svc.UpdateLocation(ctx, LocationUpdateInput{
		SessionID: "sess-1", ActorID: "prov-1", Role: models.RoleProvider,
		CurrentLocation: doualaFar, SpeedKph: 32,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TrackingOnRoute, record.Status)
	assert.Nil(t, record.ArrivedAt)

	// Within the arrival radius: auto-transition to at_location.
	record, err = svc.UpdateLocation(ctx, LocationUpdateInput{
		SessionID: "sess-1", ActorID: "prov-1", Role: models.RoleProvider,
		CurrentLocation: doualaNearby,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TrackingAtLocation, record.Status)
	require.NotNil(t, record.ArrivedAt)
	assert.LessOrEqual(t, record.DistanceMeters, 100.0)

	// Moving away again never regresses the status.
	record, err = svc.UpdateLocation(ctx, LocationUpdateInput{
		SessionID: "sess-1", ActorID: "prov-1", Role: models.RoleProvider,
		CurrentLocation: doualaFar,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TrackingAtLocation, record.Status)
}

func TestUpdateLocationAuthorization(t *testing.T) {
	svc, _, _ := newTrackingHarness(models.StatusConfirmed)
	startTracking(t, svc, doualaFar)

	_, err := svc.UpdateLocation(context.Background(), LocationUpdateInput{
		SessionID: "sess-1", ActorID: "seeker-1", Role: models.RoleSeeker, CurrentLocation: doualaNearby,
	})
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestMarkArrivedExplicit(t *testing.T) {
	svc, _, _ := newTrackingHarness(models.StatusConfirmed)
	startTracking(t, svc, doualaFar)
	ctx := context.Background()

	record, err := svc.MarkArrived(ctx, "sess-1", "prov-1", models.RoleProvider)
	require.NoError(t, err)
	assert.Equal(t, models.TrackingAtLocation, record.Status)
	require.NotNil(t, record.ArrivedAt)

	// Arrival is one-shot.
	_, err = svc.MarkArrived(ctx, "sess-1", "prov-1", models.RoleProvider)
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))
}

func TestMarkServiceStarted(t *testing.T) {
	svc, _, _ := newTrackingHarness(models.StatusConfirmed)
	startTracking(t, svc, doualaNearby)
	ctx := context.Background()

	record, err := svc.MarkServiceStarted(ctx, "sess-1", "prov-1", models.RoleProvider)
	require.NoError(t, err)
	require.NotNil(t, record.ServiceStartedAt)

	_, err = svc.MarkServiceStarted(ctx, "sess-1", "prov-1", models.RoleProvider)
	assert.True(t, utils.IsCode(err, utils.CodeBadRequest))
}

func TestCompleteService(t *testing.T) {
	svc, repo, sessions := newTrackingHarness(models.StatusConfirmed)
	startTracking(t, svc, doualaNearby)
	ctx := context.Background()

	record, err := svc.CompleteService(ctx, "sess-1", "prov-1", models.RoleProvider)
	require.NoError(t, err)
	assert.Equal(t, models.TrackingServiceComplete, record.Status)
	assert.False(t, record.IsActive)
	require.NotNil(t, record.ServiceCompletedAt)
	assert.Equal(t, 1, sessions.completionCalls, "completion flows through the session lifecycle")

	// The record is deactivated: no further operations find it.
	active, err := repo.GetActiveBySession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, active)
	_, err = svc.CompleteService(ctx, "sess-1", "prov-1", models.RoleProvider)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestStopTracking(t *testing.T) {
	svc, _, sessions := newTrackingHarness(models.StatusConfirmed)
	startTracking(t, svc, doualaFar)
	ctx := context.Background()

	// The seeker may stop tracking too.
	record, err := svc.StopTracking(ctx, "sess-1", "seeker-1", models.RoleSeeker)
	require.NoError(t, err)
	assert.False(t, record.IsActive)
	assert.Equal(t, 0, sessions.completionCalls, "stopping does not complete the session")

	svc2, _, _ := newTrackingHarness(models.StatusConfirmed)
	startTracking(t, svc2, doualaFar)
	_, err = svc2.StopTracking(ctx, "sess-1", "stranger", models.RoleSeeker)
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestGetActiveTracking(t *testing.T) {
	svc, _, _ := newTrackingHarness(models.StatusConfirmed)
	startTracking(t, svc, doualaFar)
	ctx := context.Background()

	record, err := svc.GetActiveTracking(ctx, "sess-1", "seeker-1", models.RoleSeeker)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", record.SessionID)

	_, err = svc.GetActiveTracking(ctx, "sess-1", "stranger", models.RoleSeeker)
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))

	_, err = svc.GetActiveTracking(ctx, "no-such-session", "seeker-1", models.RoleSeeker)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
