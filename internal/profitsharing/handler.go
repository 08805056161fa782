package profitsharing

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anikets94/fundraising-management-backend/middleware"
)

// Handler represents the profit sharing HTTP handler
type Handler struct {
	svc Service
}

// NewHandler creates a new profit sharing handler
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// statusForFailure maps failure codes to HTTP statuses:
// not found → 404, precondition failures → 400, upstream faults → 500
func statusForFailure(failure *ExecutionFailure) int {
	switch failure.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotEligible, CodeInsufficientPool:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseSeasonID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid season ID"})
		return 0, false
	}
	return uint(id), true
}

// ==============================
// 🎯 1. Check Season Eligibility
// ==============================
func (h *Handler) CheckEligibility(c *gin.Context) {
	seasonID, ok := parseSeasonID(c)
	if !ok {
		return
	}

	report, failure := h.svc.CheckSeasonEligibility(c.Request.Context(), seasonID)
	if failure != nil {
		c.JSON(statusForFailure(failure), failure)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    report,
		"success": true,
	})
}

// ==============================
// 🔍 2. Get Eligible Donors
// ==============================
func (h *Handler) GetEligibleDonors(c *gin.Context) {
	seasonID, ok := parseSeasonID(c)
	if !ok {
		return
	}

	donors, failure := h.svc.GetEligibleDonors(c.Request.Context(), seasonID)
	if failure != nil {
		c.JSON(statusForFailure(failure), failure)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    donors,
		"count":   len(donors),
		"success": true,
	})
}

// ==============================
// 🚀 3. Execute Profit Sharing
// ==============================
// The result body is the engine's JSON contract and is returned unwrapped.
func (h *Handler) Execute(c *gin.Context) {
	seasonID, ok := parseSeasonID(c)
	if !ok {
		return
	}

	result, failure := h.svc.Execute(c.Request.Context(), seasonID, middleware.GetIPFromContext(c))
	if failure != nil {
		c.JSON(statusForFailure(failure), failure)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ==============================
// 🧪 4. Simulate Profit Sharing
// ==============================
func (h *Handler) Simulate(c *gin.Context) {
	seasonID, ok := parseSeasonID(c)
	if !ok {
		return
	}

	result, failure := h.svc.Simulate(c.Request.Context(), seasonID, middleware.GetIPFromContext(c))
	if failure != nil {
		c.JSON(statusForFailure(failure), failure)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ==============================
// 📊 5. Get Profit Sharing Summary
// ==============================
// Accepts ?season_ids=1,2,3
func (h *Handler) GetSummary(c *gin.Context) {
	idsParam := c.Query("season_ids")
	if idsParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "season_ids query parameter is required"})
		return
	}

	var seasonIDs []uint
	for _, part := range strings.Split(idsParam, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid season ID: " + part})
			return
		}
		seasonIDs = append(seasonIDs, uint(id))
	}

	summary, err := h.svc.GetSummary(c.Request.Context(), seasonIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    summary,
		"success": true,
	})
}

// ==============================
// 📈 6. Get Campaign Profit Stats
// ==============================
func (h *Handler) GetCampaignStats(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign ID"})
		return
	}

	stats, failure := h.svc.GetCampaignStats(c.Request.Context(), uint(id))
	if failure != nil {
		c.JSON(statusForFailure(failure), failure)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    stats,
		"success": true,
	})
}

// ==============================
// 🕐 7. List Distribution Runs
// ==============================
func (h *Handler) ListRuns(c *gin.Context) {
	seasonID, ok := parseSeasonID(c)
	if !ok {
		return
	}

	limit := 20
	if str := c.Query("limit"); str != "" {
		if val, err := strconv.Atoi(str); err == nil && val > 0 {
			limit = val
		}
	}

	runs, err := h.svc.ListRuns(c.Request.Context(), seasonID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    runs,
		"count":   len(runs),
		"success": true,
	})
}
