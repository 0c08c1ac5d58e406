package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"aquamon/analytics"
	"aquamon/config"
)

// GetThresholds returns the current envelope table.
func GetThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"thresholds": config.GetThresholdTable()})
}

// UpdateThreshold replaces one parameter's envelope (admin only). The
// new table is broadcast so every open view re-classifies immediately.
func UpdateThreshold(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	p, ok := analytics.ParseParameter(c.Param("parameter"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown parameter"})
		return
	}

	var env analytics.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := config.SetThreshold(config.DB, p, env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Info().
		Str("parameter", string(p)).
		Float64("safe_min", env.SafeMin).
		Float64("safe_max", env.SafeMax).
		Float64("warn_min", env.WarnMin).
		Float64("warn_max", env.WarnMax).
		Msg("threshold updated")

	BroadcastThresholds(config.GetThresholdTable())
	c.JSON(http.StatusOK, gin.H{"message": "Threshold updated successfully"})
}
