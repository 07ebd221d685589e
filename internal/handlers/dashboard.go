package handlers

import (
	"net/http"

	"medreport/internal/auth"
	"medreport/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the dashboard payload.
type DashboardHandler struct {
	svc *service.DashboardService
}

// NewDashboardHandler returns a new DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Get godoc
// @Summary      Dashboard data for the authenticated user
// @Tags         dashboard
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  domain.Dashboard
// @Failure      401  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /dashboard/data [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error."})
		return
	}
	c.JSON(http.StatusOK, d)
}
