package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ototakibim/services/scheduling"
	"ototakibim/utils"
)

// writeSchedulingError maps the scheduling error taxonomy onto HTTP statuses:
// slot conflicts are 409, unknown bookings and exhausted scans are 404,
// impossible lifecycle moves are 400. Anything else is an internal fault.
func writeSchedulingError(c *gin.Context, err error) {
	var (
		slotErr   *scheduling.SlotUnavailableError
		noAvail   *scheduling.NoAvailabilityError
		notFound  *scheduling.NotFoundError
		invalid   *scheduling.InvalidTransitionError
		configErr *scheduling.ConfigurationError
	)

	switch {
	case errors.As(err, &slotErr):
		c.JSON(http.StatusConflict, gin.H{"error": "slot unavailable", "details": slotErr.Error()})
	case errors.As(err, &noAvail):
		c.JSON(http.StatusNotFound, gin.H{"error": "no availability in range", "details": noAvail.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found", "details": notFound.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking transition", "details": invalid.Error()})
	case errors.As(err, &configErr):
		utils.JSONError(c, http.StatusInternalServerError, "calendar misconfigured", configErr.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
