package models

// Threshold stores the calibration envelope for one sensor parameter.
// Bounds must satisfy warn_min <= safe_min <= safe_max <= warn_max;
// validation happens before a row is written.
type Threshold struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Parameter string  `json:"parameter" gorm:"uniqueIndex;size:32;not null"`
	SafeMin   float64 `json:"safe_min"`
	SafeMax   float64 `json:"safe_max"`
	WarnMin   float64 `json:"warn_min"`
	WarnMax   float64 `json:"warn_max"`
}
