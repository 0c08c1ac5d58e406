package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"

	"aquamon/cache"
)

// DB is a global variable to hold the database connection
var DB *gorm.DB

// Summaries is the optional Redis-backed aggregate cache. It stays nil
// when no REDIS_ADDR is configured; a nil cache disables caching.
var Summaries *cache.Cache

// Bounded record windows: the history view reads the 500 most recent
// records, the per-parameter charts the 300 most recent.
const (
	DefaultHistoryWindow = 500
	DefaultChartWindow   = 300
)

// HistoryWindow returns the bounded most-recent-N window served to the
// history view.
func HistoryWindow() int {
	return envInt("HISTORY_WINDOW", DefaultHistoryWindow)
}

// ChartWindow returns the bounded window behind the "today" charts.
func ChartWindow() int {
	return envInt("CHART_WINDOW", DefaultChartWindow)
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// JWTSecret returns the token signing key.
func JWTSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("your-secret-key")
}

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location returns the zone used for calendar-date bucketing of reading
// timestamps: TZ_LOCATION if set, otherwise the system local zone.
func Location() *time.Location {
	locOnce.Do(func() {
		loc = time.Local
		if tz := os.Getenv("TZ_LOCATION"); tz != "" {
			if l, err := time.LoadLocation(tz); err == nil {
				loc = l
			}
		}
	})
	return loc
}
