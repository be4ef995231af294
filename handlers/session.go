package handlers

import (
	"net/http"
	"strconv"

	"servilink/models"
	"servilink/services/session"
	"servilink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler exposes the session lifecycle over HTTP.
type SessionHandler struct {
	Service session.Service
	Logger  *zap.Logger
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(svc session.Service, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{Service: svc, Logger: logger}
}

// CreateSession books a concrete catalog service for the authenticated seeker.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var input struct {
		ServiceID       string          `json:"serviceId" binding:"required"`
		SessionDate     string          `json:"sessionDate" binding:"required"`
		StartTime       string          `json:"startTime" binding:"required"`
		DurationHours   float64         `json:"durationHours" binding:"required"`
		ServiceLocation models.Province `json:"serviceLocation" binding:"required"`
		Address         string          `json:"address"`
		Latitude        *float64        `json:"latitude"`
		Longitude       *float64        `json:"longitude"`
		Instructions    string          `json:"instructions"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Service.CreateSession(c.Request.Context(), session.CreateSessionInput{
		SeekerID:        c.GetString("userID"),
		ServiceID:       input.ServiceID,
		SessionDate:     input.SessionDate,
		StartTime:       input.StartTime,
		DurationHours:   input.DurationHours,
		ServiceLocation: input.ServiceLocation,
		Address:         input.Address,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Instructions:    input.Instructions,
	})
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateServiceRequest books by category only; an admin assigns a provider later.
func (h *SessionHandler) CreateServiceRequest(c *gin.Context) {
	var input struct {
		Category        models.ServiceCategory `json:"category" binding:"required"`
		SessionDate     string                 `json:"sessionDate" binding:"required"`
		StartTime       string                 `json:"startTime" binding:"required"`
		DurationHours   float64                `json:"durationHours" binding:"required"`
		ServiceLocation models.Province        `json:"serviceLocation" binding:"required"`
		Address         string                 `json:"address"`
		Latitude        *float64               `json:"latitude"`
		Longitude       *float64               `json:"longitude"`
		Instructions    string                 `json:"instructions"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Service.CreateServiceRequest(c.Request.Context(), session.ServiceRequestInput{
		SeekerID:        c.GetString("userID"),
		Category:        input.Category,
		SessionDate:     input.SessionDate,
		StartTime:       input.StartTime,
		DurationHours:   input.DurationHours,
		ServiceLocation: input.ServiceLocation,
		Address:         input.Address,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Instructions:    input.Instructions,
	})
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetSession returns one session. Only its parties or an admin may read it.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.Service.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}

	actorID := c.GetString("userID")
	role := c.GetString("role")
	if role != models.RoleAdmin && actorID != sess.SeekerID && actorID != sess.ProviderID {
		utils.JSONError(c, http.StatusForbidden, "not a party to this session", "")
		return
	}
	c.JSON(http.StatusOK, sess)
}

// ListMySessions lists the caller's sessions with a grouped status summary.
func (h *SessionHandler) ListMySessions(c *gin.Context) {
	page, limit := pagination(c)
	actorID := c.GetString("userID")

	var (
		result *session.SessionPage
		err    error
	)
	if c.GetString("role") == models.RoleProvider {
		result, err = h.Service.FindByProvider(c.Request.Context(), actorID, page, limit)
	} else {
		result, err = h.Service.FindBySeeker(c.Request.Context(), actorID, page, limit)
	}
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateSession applies a partial update (reschedule, status, payment, notes).
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var input struct {
		SessionDate        *string               `json:"sessionDate"`
		StartTime          *string               `json:"startTime"`
		DurationHours      *float64              `json:"durationHours"`
		Status             *models.SessionStatus `json:"status"`
		PaymentStatus      *models.PaymentStatus `json:"paymentStatus"`
		Address            *string               `json:"address"`
		Instructions       *string               `json:"instructions"`
		CancellationReason *string               `json:"cancellationReason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	updated, err := h.Service.UpdateSession(c.Request.Context(), c.Param("sessionID"), session.SessionPatch{
		SessionDate:        input.SessionDate,
		StartTime:          input.StartTime,
		DurationHours:      input.DurationHours,
		Status:             input.Status,
		PaymentStatus:      input.PaymentStatus,
		Address:            input.Address,
		Instructions:       input.Instructions,
		CancellationReason: input.CancellationReason,
	}, c.GetString("userID"), c.GetString("role"))
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CancelSession cancels with a reason, recorded against the caller.
func (h *SessionHandler) CancelSession(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	// A missing body is a bare cancellation; that's allowed.
	_ = c.ShouldBindJSON(&input)

	cancelled, err := h.Service.CancelSession(c.Request.Context(), c.Param("sessionID"),
		c.GetString("userID"), c.GetString("role"), input.Reason)
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// ConfirmSession is the provider's explicit acceptance of an assigned session.
func (h *SessionHandler) ConfirmSession(c *gin.Context) {
	confirmed, err := h.Service.ConfirmSession(c.Request.Context(), c.Param("sessionID"),
		c.GetString("userID"), c.GetString("role"))
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, confirmed)
}

// RateSession records a post-completion rating from either party.
func (h *SessionHandler) RateSession(c *gin.Context) {
	var input struct {
		Rating int    `json:"rating" binding:"required"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	rated, err := h.Service.RateSession(c.Request.Context(), c.Param("sessionID"),
		c.GetString("userID"), c.GetString("role"), input.Rating, input.Review)
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rated)
}

func pagination(c *gin.Context) (page, limit int64) {
	page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
