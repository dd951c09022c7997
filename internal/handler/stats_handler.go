package handler

import (
	"github.com/gin-gonic/gin"

	"poaudit/internal/service"
)

// StatsHandler handles stats endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetTenantStats handles GET /api/v1/stats
// @Summary Get tenant statistics
// @Description Get aggregate counts for orders, batches, extraction statuses, and audit verdicts across the tenant
// @Tags stats
// @Produce json
// @Success 200 {object} Response{data=domain.TenantStats} "Aggregate statistics"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /stats [get]
func (h *StatsHandler) GetTenantStats(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	stats, err := h.statsService.GetTenantStats(c.Request.Context(), tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}

// GetUserStats handles GET /api/v1/stats/me
// @Summary Get current user statistics
// @Description Get the caller's order counts and quota usage
// @Tags stats
// @Produce json
// @Success 200 {object} Response{data=domain.UserStats} "User statistics"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /stats/me [get]
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	stats, err := h.statsService.GetUserStats(c.Request.Context(), tenantID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}
