package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ototakibim/middleware"
	"ototakibim/models"
	"ototakibim/services/scheduling"
	"ototakibim/utils"
)

// SlotSource yields free slots; satisfied by both the plain resolver and the
// Redis-cached one.
type SlotSource interface {
	FreeSlots(ctx context.Context, tenantID, date string, durationMinutes int, resourceID string) ([]models.Slot, error)
}

// AvailabilityHandler serves the read-only availability endpoints.
type AvailabilityHandler struct {
	Slots    SlotSource
	Resolver *scheduling.Resolver
	Logger   *zap.Logger
}

// NewAvailabilityHandler wires the availability endpoints.
func NewAvailabilityHandler(slots SlotSource, resolver *scheduling.Resolver, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Slots: slots, Resolver: resolver, Logger: logger}
}

// FreeSlotsHandler handles GET /api/availability/slots.
func (h *AvailabilityHandler) FreeSlotsHandler(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	resourceID := c.Query("resourceId")
	date := c.Query("date")
	duration, ok := parseDuration(c)
	if !ok {
		return
	}
	if resourceID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resourceId and date are required"})
		return
	}
	if h.rejectPastDate(c, tenantID, date) {
		return
	}

	slots, err := h.Slots.FreeSlots(c.Request.Context(), tenantID, date, duration, resourceID)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "resourceId": resourceID, "slots": slots})
}

// CheckDateHandler handles GET /api/availability/check.
func (h *AvailabilityHandler) CheckDateHandler(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	resourceID := c.Query("resourceId")
	date := c.Query("date")
	duration, ok := parseDuration(c)
	if !ok {
		return
	}
	if resourceID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resourceId and date are required"})
		return
	}
	if h.rejectPastDate(c, tenantID, date) {
		return
	}

	available, err := h.Resolver.IsDateAvailable(c.Request.Context(), tenantID, date, duration, resourceID)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "resourceId": resourceID, "available": available})
}

// NextDateHandler handles GET /api/availability/next-date. The scan starts at
// "from" when given, otherwise today in the tenant calendar's timezone; a
// "from" already behind today is clamped to today, since the scan only looks
// forward.
func (h *AvailabilityHandler) NextDateHandler(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	resourceID := c.Query("resourceId")
	duration, ok := parseDuration(c)
	if !ok {
		return
	}
	if resourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resourceId is required"})
		return
	}

	cal, err := h.Resolver.Policies.CalendarFor(c.Request.Context(), tenantID)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	fromDate := c.Query("from")
	if fromDate != "" {
		if _, err := utils.ParseDate(fromDate, cal.Location()); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a YYYY-MM-DD date"})
			return
		}
	}
	if today := cal.Today(time.Now()); fromDate == "" || fromDate < today {
		fromDate = today
	}

	date, err := h.Resolver.NextAvailableDate(c.Request.Context(), tenantID, duration, resourceID, fromDate)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resourceId": resourceID, "nextAvailableDate": date})
}

// rejectPastDate returns true (and writes a 422) when the requested date is
// already behind today's date in the tenant's timezone. The resolver itself is
// date-agnostic; this guard belongs to the HTTP layer.
func (h *AvailabilityHandler) rejectPastDate(c *gin.Context, tenantID, date string) bool {
	cal, err := h.Resolver.Policies.CalendarFor(c.Request.Context(), tenantID)
	if err != nil {
		writeSchedulingError(c, err)
		return true
	}
	if date < cal.Today(time.Now()) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "date is in the past"})
		return true
	}
	return false
}

func parseDuration(c *gin.Context) (int, bool) {
	raw := c.Query("duration")
	duration, err := strconv.Atoi(raw)
	if err != nil || duration <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be a positive integer of minutes"})
		return 0, false
	}
	return duration, true
}
