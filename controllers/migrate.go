package controllers

import (
	"gorm.io/gorm"

	"aquamon/config"
	"aquamon/models"
)

// MigrateModels runs the database migrations
func MigrateModels(db *gorm.DB) {
	config.DB = db
	db.AutoMigrate(&models.User{}, &models.SensorReading{}, &models.Threshold{}, &models.SystemStatus{})
}
