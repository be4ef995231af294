package handlers

import (
	"context"
	"net/http"

	"servilink/models"
	"servilink/services/tracking"
	"servilink/utils"

	"github.com/gin-gonic/gin"
)

// TrackingHandler exposes live location tracking for in-flight sessions.
type TrackingHandler struct {
	Service tracking.Service
}

// NewTrackingHandler constructs a TrackingHandler.
func NewTrackingHandler(svc tracking.Service) *TrackingHandler {
	return &TrackingHandler{Service: svc}
}

// StartTracking opens tracking for a session from the provider's current position.
func (h *TrackingHandler) StartTracking(c *gin.Context) {
	var input struct {
		Latitude  float64 `json:"latitude" binding:"required"`
		Longitude float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	record, err := h.Service.StartTracking(c.Request.Context(), tracking.StartTrackingInput{
		SessionID:       c.Param("sessionID"),
		ActorID:         c.GetString("userID"),
		Role:            c.GetString("role"),
		CurrentLocation: models.GeoPoint{Latitude: input.Latitude, Longitude: input.Longitude},
	})
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// UpdateLocation records one GPS ping from the provider.
func (h *TrackingHandler) UpdateLocation(c *gin.Context) {
	var input struct {
		Latitude       float64 `json:"latitude" binding:"required"`
		Longitude      float64 `json:"longitude" binding:"required"`
		SpeedKph       float64 `json:"speedKph"`
		AccuracyMeters float64 `json:"accuracyMeters"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	record, err := h.Service.UpdateLocation(c.Request.Context(), tracking.LocationUpdateInput{
		SessionID:       c.Param("sessionID"),
		ActorID:         c.GetString("userID"),
		Role:            c.GetString("role"),
		CurrentLocation: models.GeoPoint{Latitude: input.Latitude, Longitude: input.Longitude},
		SpeedKph:        input.SpeedKph,
		AccuracyMeters:  input.AccuracyMeters,
	})
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// MarkArrived is the explicit arrival transition.
func (h *TrackingHandler) MarkArrived(c *gin.Context) {
	h.transition(c, h.Service.MarkArrived)
}

// MarkServiceStarted stamps the service start.
func (h *TrackingHandler) MarkServiceStarted(c *gin.Context) {
	h.transition(c, h.Service.MarkServiceStarted)
}

// CompleteService closes tracking and completes the session.
func (h *TrackingHandler) CompleteService(c *gin.Context) {
	h.transition(c, h.Service.CompleteService)
}

// StopTracking deactivates tracking without touching the session.
func (h *TrackingHandler) StopTracking(c *gin.Context) {
	h.transition(c, h.Service.StopTracking)
}

// GetActiveTracking is the live view for the session's parties.
func (h *TrackingHandler) GetActiveTracking(c *gin.Context) {
	h.transition(c, h.Service.GetActiveTracking)
}

func (h *TrackingHandler) transition(c *gin.Context, op func(ctx context.Context, sessionID, actorID, role string) (*models.LocationTracking, error)) {
	record, err := op(c.Request.Context(), c.Param("sessionID"), c.GetString("userID"), c.GetString("role"))
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
