package handlers

import (
	"net/http"
	"strconv"

	"servilink/services/wallet"
	"servilink/utils"

	"github.com/gin-gonic/gin"
)

// WalletHandler is the provider's earnings read surface.
type WalletHandler struct {
	Processor wallet.EarningsProcessor
}

// NewWalletHandler constructs a WalletHandler.
func NewWalletHandler(processor wallet.EarningsProcessor) *WalletHandler {
	return &WalletHandler{Processor: processor}
}

// GetWallet returns the caller's running balance.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	w, err := h.Processor.GetWallet(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// ListEarnings returns the caller's most recent ledger entries.
func (h *WalletHandler) ListEarnings(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	earnings, err := h.Processor.ListEarnings(c.Request.Context(), c.GetString("userID"), limit)
	if err != nil {
		utils.JSONServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"earnings": earnings})
}
