package handlers

import (
	"net/http"

	"servilink/models"
	"servilink/services/availability"
	"servilink/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler is the provider's weekly schedule surface plus the
// public availability probe used by booking clients.
type AvailabilityHandler struct {
	Service *availability.DefaultAvailabilityService
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(svc *availability.DefaultAvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// SetDaySchedule replaces the authenticated provider's slots for one weekday.
func (h *AvailabilityHandler) SetDaySchedule(c *gin.Context) {
	var input struct {
		DayOfWeek models.DayOfWeek  `json:"dayOfWeek" binding:"required"`
		TimeSlots []models.TimeSlot `json:"timeSlots" binding:"required"`
		IsActive  *bool             `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	saved, err := h.Service.SetDaySchedule(c.Request.Context(), c.GetString("userID"),
		input.DayOfWeek, input.TimeSlots, isActive)
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// GetWeeklySchedule lists every configured weekday for a provider.
func (h *AvailabilityHandler) GetWeeklySchedule(c *gin.Context) {
	providerID := c.Param("providerID")
	if providerID == "" {
		providerID = c.GetString("userID")
	}
	schedules, err := h.Service.GetWeeklySchedule(c.Request.Context(), providerID)
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// RemoveDaySchedule deletes one weekday from the caller's schedule.
func (h *AvailabilityHandler) RemoveDaySchedule(c *gin.Context) {
	day := models.DayOfWeek(c.Param("day"))
	if err := h.Service.RemoveDaySchedule(c.Request.Context(), c.GetString("userID"), day); err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "schedule removed", "dayOfWeek": day})
}

// CheckAvailability probes whether a provider can take a given window. It
// answers both the schedule containment and the session conflict check.
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	providerID := c.Param("providerID")
	date := c.Query("date")
	startTime := c.Query("startTime")
	endTime := c.Query("endTime")
	if date == "" || startTime == "" || endTime == "" {
		utils.JSONError(c, http.StatusBadRequest, "date, startTime and endTime are required", "")
		return
	}

	available, err := h.Service.IsAvailable(c.Request.Context(), providerID, date, startTime, endTime)
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}

	conflict := false
	if available {
		conflict, err = h.Service.CheckSessionConflict(c.Request.Context(), providerID, date, startTime, endTime, "")
		if err != nil {
			utils.JSONServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"available":   available && !conflict,
		"inSchedule":  available,
		"hasConflict": conflict,
	})
}
