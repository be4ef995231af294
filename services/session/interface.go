// File: services/session/interface.go
package session

import (
	"context"

	providerRepo "servilink/database/repository/provider"
	serviceCatalogRepo "servilink/database/repository/servicecatalog"
	sessionRepo "servilink/database/repository/session"
	userRepo "servilink/database/repository/user"
	"servilink/models"
	"servilink/services/availability"
	"servilink/services/pricing"
	"servilink/utils"
)

// CreateSessionInput books a concrete catalog service.
type CreateSessionInput struct {
	SeekerID        string
	ServiceID       string
	SessionDate     string // "2006-01-02"
	StartTime       string // "HH:mm"
	DurationHours   float64
	ServiceLocation models.Province
	Address         string
	Latitude        *float64
	Longitude       *float64
	Instructions    string
}

// ServiceRequestInput books by category only; an admin assigns the provider later.
type ServiceRequestInput struct {
	SeekerID        string
	Category        models.ServiceCategory
	SessionDate     string
	StartTime       string
	DurationHours   float64
	ServiceLocation models.Province
	Address         string
	Latitude        *float64
	Longitude       *float64
	Instructions    string
}

// SessionPatch carries the mutable fields of UpdateSession. Nil means unchanged.
type SessionPatch struct {
	SessionDate        *string
	StartTime          *string
	DurationHours      *float64
	Status             *models.SessionStatus
	PaymentStatus      *models.PaymentStatus
	Address            *string
	Instructions       *string
	CancellationReason *string
}

// SessionPage is a listing plus its grouped status summary.
type SessionPage struct {
	Sessions []models.Session      `json:"sessions"`
	Total    int64                 `json:"total"`
	Summary  models.SessionSummary `json:"summary"`
}

// SettlementPublisher hands a completed session to the wallet subsystem. The
// lifecycle manager treats it as fire-and-forget: publish failures are logged
// and never fail the completing operation.
type SettlementPublisher interface {
	PublishSessionCompleted(ctx context.Context, session *models.Session) error
}

// Service is the session lifecycle manager.
type Service interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*models.Session, error)
	CreateServiceRequest(ctx context.Context, input ServiceRequestInput) (*models.Session, error)

	AssignProvider(ctx context.Context, sessionID, providerID, adminID, notes string) (*models.Session, error)
	RejectServiceRequest(ctx context.Context, sessionID, reason, adminNotes, adminID string) (*models.Session, error)
	ReopenForAssignment(ctx context.Context, sessionID, adminID string) (*models.Session, error)
	ConfirmSession(ctx context.Context, sessionID, actorID, role string) (*models.Session, error)

	UpdateSession(ctx context.Context, sessionID string, patch SessionPatch, actorID, role string) (*models.Session, error)
	CancelSession(ctx context.Context, sessionID, actorID, role, reason string) (*models.Session, error)
	RateSession(ctx context.Context, sessionID, actorID, role string, rating int, review string) (*models.Session, error)

	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	FindBySeeker(ctx context.Context, seekerID string, page, limit int64) (*SessionPage, error)
	FindByProvider(ctx context.Context, providerID string, page, limit int64) (*SessionPage, error)
	FindPendingAssignment(ctx context.Context, page, limit int64) ([]models.Session, int64, error)

	// Transitions driven by the location tracking coordinator.
	MarkInProgress(ctx context.Context, sessionID string) (*models.Session, error)
	CompleteFromTracking(ctx context.Context, sessionID string) (*models.Session, error)
}

// Options are the lifecycle policy knobs.
type Options struct {
	// RequireAdminAssignment routes new sessions through the admin-mediated
	// pending_assignment flow. When false, direct bookings bind the catalog
	// service's provider at creation (legacy two-status behavior).
	RequireAdminAssignment bool
	// AutoConfirmOnAssign transitions straight to confirmed when an admin
	// assigns a provider, skipping the provider's explicit acceptance.
	AutoConfirmOnAssign bool
	Currency            string
}

// DefaultSessionService implements Service.
type DefaultSessionService struct {
	Repo         sessionRepo.SessionRepository
	CatalogRepo  serviceCatalogRepo.ServiceCatalogRepository
	ProviderRepo providerRepo.ProviderRepository
	UserRepo     userRepo.UserRepository
	Pricing      pricing.Engine
	Availability availability.Checker
	Settlement   SettlementPublisher
	Lock         utils.Locker
	Opts         Options
}
