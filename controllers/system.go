package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"aquamon/config"
	"aquamon/models"
)

const systemStatusID = 1 // single pond unit, single row

// UpdateSystemStatus stores the pond unit's heartbeat (reachability,
// battery, aerator relay) and pushes it to subscribers.
func UpdateSystemStatus(c *gin.Context) {
	var status models.SystemStatus
	if err := c.ShouldBindJSON(&status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	status.ID = systemStatusID
	status.UpdatedAt = time.Now().In(config.Location())

	if err := config.DB.Save(&status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store status"})
		return
	}

	BroadcastSystemStatus(status)
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

// GetSystemStatus returns the latest heartbeat; a missing row reads as
// an offline device rather than an error.
func GetSystemStatus(c *gin.Context) {
	var status models.SystemStatus
	err := config.DB.First(&status, systemStatusID).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status"})
		return
	}
	c.JSON(http.StatusOK, status)
}
