package handlers

import (
	"net/http"
	"strconv"

	providerRepo "servilink/database/repository/provider"
	"servilink/models"
	"servilink/services/pricing"
	"servilink/services/session"
	"servilink/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler is the assignment desk: the pending queue, provider search,
// assignment/rejection, and pricing configuration.
type AdminHandler struct {
	Sessions  session.Service
	Providers providerRepo.ProviderRepository
	Pricing   *pricing.RepoConfigSource
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(sessions session.Service, providers providerRepo.ProviderRepository, cfg *pricing.RepoConfigSource) *AdminHandler {
	return &AdminHandler{Sessions: sessions, Providers: providers, Pricing: cfg}
}

// ListPendingAssignments returns the unassigned request queue, oldest first.
func (h *AdminHandler) ListPendingAssignments(c *gin.Context) {
	page, limit := pagination(c)
	sessions, total, err := h.Sessions.FindPendingAssignment(c.Request.Context(), page, limit)
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": total})
}

// SearchProviders filters the provider directory for assignment candidates.
func (h *AdminHandler) SearchProviders(c *gin.Context) {
	minRating, _ := strconv.ParseFloat(c.DefaultQuery("minRating", "0"), 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	providers, err := h.Providers.Search(c.Request.Context(), providerRepo.ProviderSearchCriteria{
		Category:  models.ServiceCategory(c.Query("category")),
		Province:  models.Province(c.Query("province")),
		MinRating: minRating,
		Limit:     limit,
	})
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// AssignProvider binds a provider to a pending request.
func (h *AdminHandler) AssignProvider(c *gin.Context) {
	var input struct {
		ProviderID string `json:"providerId" binding:"required"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	assigned, err := h.Sessions.AssignProvider(c.Request.Context(), c.Param("sessionID"),
		input.ProviderID, c.GetString("userID"), input.Notes)
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assigned)
}

// RejectServiceRequest declines a pending request with a seeker-visible reason.
func (h *AdminHandler) RejectServiceRequest(c *gin.Context) {
	var input struct {
		Reason     string `json:"reason" binding:"required"`
		AdminNotes string `json:"adminNotes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	rejected, err := h.Sessions.RejectServiceRequest(c.Request.Context(), c.Param("sessionID"),
		input.Reason, input.AdminNotes, c.GetString("userID"))
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rejected)
}

// ReopenForAssignment returns a rejected request to the pending queue.
func (h *AdminHandler) ReopenForAssignment(c *gin.Context) {
	reopened, err := h.Sessions.ReopenForAssignment(c.Request.Context(), c.Param("sessionID"), c.GetString("userID"))
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reopened)
}

// GetSessionConfig returns the active pricing configuration.
func (h *AdminHandler) GetSessionConfig(c *gin.Context) {
	cfg, err := h.Pricing.GetActiveConfig(c.Request.Context())
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateCategoryPricing rewrites one category's pricing entry.
func (h *AdminHandler) UpdateCategoryPricing(c *gin.Context) {
	var entry models.CategoryPricing
	if err := c.ShouldBindJSON(&entry); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Pricing.UpdateCategoryPricing(c.Request.Context(), entry); err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pricing updated", "category": entry.Category})
}
