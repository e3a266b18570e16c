package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	calendarRepo "ototakibim/database/repository/calendar"
	"ototakibim/middleware"
	"ototakibim/models"
	"ototakibim/services/scheduling"
)

// AvailabilityFlusher drops every cached slot list for a tenant; satisfied by
// the Redis-cached resolver.
type AvailabilityFlusher interface {
	InvalidateTenant(ctx context.Context, tenantID string)
}

// CalendarHandler serves the tenant calendar-policy endpoints.
type CalendarHandler struct {
	Repo     calendarRepo.CalendarRepository
	Policies *scheduling.PolicySource
	Flusher  AvailabilityFlusher // optional
	Logger   *zap.Logger
}

// NewCalendarHandler wires the calendar endpoints; flusher may be nil.
func NewCalendarHandler(repo calendarRepo.CalendarRepository, policies *scheduling.PolicySource, flusher AvailabilityFlusher, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{Repo: repo, Policies: policies, Flusher: flusher, Logger: logger}
}

// GetCalendarHandler handles GET /api/calendar. Tenants without a stored
// policy see the config-seeded default.
func (h *CalendarHandler) GetCalendarHandler(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	cal, err := h.Policies.CalendarFor(c.Request.Context(), tenantID)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal.Policy())
}

// PutCalendarHandler handles PUT /api/calendar: the replacement policy is
// validated before it is stored, so a broken policy never reaches the
// scheduling core.
func (h *CalendarHandler) PutCalendarHandler(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var policy models.CalendarPolicy
	if err := c.ShouldBindJSON(&policy); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	policy.TenantID = tenantID

	if _, err := scheduling.NewCalendar(policy); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid calendar policy", "details": err.Error()})
		return
	}

	if err := h.Repo.Upsert(c.Request.Context(), &policy); err != nil {
		writeSchedulingError(c, err)
		return
	}
	h.Policies.Invalidate(tenantID)
	// Slot lists cached under the old hours must not outlive the policy.
	if h.Flusher != nil {
		h.Flusher.InvalidateTenant(c.Request.Context(), tenantID)
	}

	h.Logger.Info("calendar policy replaced", zap.String("tenantId", tenantID))
	c.JSON(http.StatusOK, policy)
}
