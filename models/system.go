package models

import "time"

// SystemStatus is the single-row heartbeat record reported by the pond
// unit alongside its readings: controller reachability, battery level
// and aerator relay state.
type SystemStatus struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	DeviceOnline bool      `json:"device_online"`
	Battery      float64   `json:"battery"`
	AeratorOn    bool      `json:"aerator_on"`
	UpdatedAt    time.Time `json:"updated_at"`
}
