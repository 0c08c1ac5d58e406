package config

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"aquamon/analytics"
	"aquamon/models"
)

// thresholdCache holds the current threshold table in memory and is
// synchronized with the database. Classification always reads the latest
// table observed; there is no pairing guarantee against any particular
// reading.
var (
	currentTable analytics.ThresholdTable
	tableMutex   sync.RWMutex
)

// DefaultThresholds seed the database on first start, one envelope per
// parameter, calibrated for a brackish grow-out pond.
var DefaultThresholds = analytics.ThresholdTable{
	analytics.Temperature:     {SafeMin: 26, SafeMax: 30, WarnMin: 24, WarnMax: 32},
	analytics.PH:              {SafeMin: 6.5, SafeMax: 8.5, WarnMin: 6, WarnMax: 9},
	analytics.Salinity:        {SafeMin: 28, SafeMax: 35, WarnMin: 25, WarnMax: 38},
	analytics.Turbidity:       {SafeMin: 0, SafeMax: 25, WarnMin: 0, WarnMax: 50},
	analytics.DissolvedOxygen: {SafeMin: 5, SafeMax: 9, WarnMin: 4, WarnMax: 12},
}

// InitThresholdTable loads the envelope rows from the database into the
// cache, creating default rows for parameters that have none yet.
// This should be called on application startup.
func InitThresholdTable(db *gorm.DB) error {
	tableMutex.Lock()
	defer tableMutex.Unlock()

	table := make(analytics.ThresholdTable, len(analytics.Parameters))
	for _, p := range analytics.Parameters {
		var row models.Threshold
		err := db.Where("parameter = ?", string(p)).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			env := DefaultThresholds[p]
			row = models.Threshold{
				Parameter: string(p),
				SafeMin:   env.SafeMin,
				SafeMax:   env.SafeMax,
				WarnMin:   env.WarnMin,
				WarnMax:   env.WarnMax,
			}
			if err := db.Create(&row).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		table[p] = analytics.Envelope{
			SafeMin: row.SafeMin,
			SafeMax: row.SafeMax,
			WarnMin: row.WarnMin,
			WarnMax: row.WarnMax,
		}
	}
	currentTable = table
	return nil
}

// GetThresholdTable returns a copy of the cached table; callers own the
// copy and may classify against it without further locking.
func GetThresholdTable() analytics.ThresholdTable {
	tableMutex.RLock()
	defer tableMutex.RUnlock()
	return currentTable.Clone()
}

// SetThreshold validates env, persists it for p and updates the cache.
func SetThreshold(db *gorm.DB, p analytics.Parameter, env analytics.Envelope) error {
	if err := env.Validate(); err != nil {
		return err
	}

	tableMutex.Lock()
	defer tableMutex.Unlock()

	row := models.Threshold{
		Parameter: string(p),
		SafeMin:   env.SafeMin,
		SafeMax:   env.SafeMax,
		WarnMin:   env.WarnMin,
		WarnMax:   env.WarnMax,
	}
	var existing models.Threshold
	err := db.Where("parameter = ?", string(p)).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(&row).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		row.ID = existing.ID
		if err := db.Save(&row).Error; err != nil {
			return err
		}
	}

	if currentTable == nil {
		currentTable = make(analytics.ThresholdTable)
	}
	currentTable[p] = env
	return nil
}
