package models

// SensorReading is one time-stamped observation from the pond unit.
// Timestamp is epoch milliseconds. Parameter fields are nil when the
// device did not report them in that sample.
type SensorReading struct {
	ID              uint     `json:"id" gorm:"primaryKey"`
	Timestamp       int64    `json:"timestamp" gorm:"index;not null"`
	Temperature     *float64 `json:"temperature,omitempty"`
	PH              *float64 `json:"ph,omitempty"`
	Salinity        *float64 `json:"salinity,omitempty"`
	Turbidity       *float64 `json:"turbidity,omitempty"`
	DissolvedOxygen *float64 `json:"dissolved_oxygen,omitempty"`
	IsAbnormal      bool     `json:"is_abnormal"`
}
