package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ototakibim/utils"
)

// HealthHandler reports the latest dependency health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"deps":   utils.GetHealthStatus(),
	})
}
