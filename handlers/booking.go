package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ototakibim/middleware"
	"ototakibim/models"
	"ototakibim/services/scheduling"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	Coordinator *scheduling.Coordinator
	Logger      *zap.Logger
}

// NewBookingHandler wires the booking endpoints.
func NewBookingHandler(coordinator *scheduling.Coordinator, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Coordinator: coordinator, Logger: logger}
}

type reserveInput struct {
	ResourceID      string `json:"resourceId" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Start           int    `json:"start"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,gt=0"`
	CustomerName    string `json:"customerName"`
	VehiclePlate    string `json:"vehiclePlate"`
	ServiceType     string `json:"serviceType"`
	Notes           string `json:"notes"`
}

// ReserveHandler handles POST /api/bookings.
func (h *BookingHandler) ReserveHandler(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var input reserveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Start < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be minutes from midnight"})
		return
	}

	cal, err := h.Coordinator.Policies.CalendarFor(c.Request.Context(), tenantID)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	if input.Date < cal.Today(time.Now()) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "date is in the past"})
		return
	}

	booking, err := h.Coordinator.Reserve(c.Request.Context(), tenantID, scheduling.ReserveRequest{
		ResourceID:      input.ResourceID,
		Date:            input.Date,
		Start:           input.Start,
		DurationMinutes: input.DurationMinutes,
		CustomerName:    input.CustomerName,
		VehiclePlate:    input.VehiclePlate,
		ServiceType:     input.ServiceType,
		Notes:           input.Notes,
	})
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	booking, err := h.Coordinator.Get(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookingsHandler handles GET /api/bookings?resourceId&date.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	resourceID := c.Query("resourceId")
	date := c.Query("date")
	if resourceID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resourceId and date are required"})
		return
	}

	bookings, err := h.Coordinator.List(c.Request.Context(), middleware.TenantID(c), resourceID, date)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"resourceId": resourceID, "date": date, "bookings": bookings})
}

// ConfirmHandler handles POST /api/bookings/:id/confirm.
func (h *BookingHandler) ConfirmHandler(c *gin.Context) {
	h.transition(c, h.Coordinator.Confirm)
}

// CancelHandler handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	h.transition(c, h.Coordinator.Cancel)
}

// CompleteHandler handles POST /api/bookings/:id/complete.
func (h *BookingHandler) CompleteHandler(c *gin.Context) {
	h.transition(c, h.Coordinator.Complete)
}

// NoShowHandler handles POST /api/bookings/:id/no-show.
func (h *BookingHandler) NoShowHandler(c *gin.Context) {
	h.transition(c, h.Coordinator.MarkNoShow)
}

func (h *BookingHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, tenantID, bookingID string) (*models.Booking, error),
) {
	booking, err := op(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
