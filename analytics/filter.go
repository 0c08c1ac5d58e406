package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"aquamon/models"
)

// SortOrder selects the timestamp ordering of filtered history.
type SortOrder string

const (
	NewestFirst SortOrder = "newest"
	OldestFirst SortOrder = "oldest"
)

// ErrInvalidRange is returned when date_from falls after date_to.
var ErrInvalidRange = errors.New("date_from is after date_to")

const dateLayout = "2006-01-02"

// FilterCriteria selects history records by calendar date. Dates are
// ISO "YYYY-MM-DD" strings; empty means unset. With only DateFrom or
// only DateTo set the filter matches that single day exactly, not an
// open-ended range. With both set it matches the inclusive range.
type FilterCriteria struct {
	DateFrom string    `json:"date_from"`
	DateTo   string    `json:"date_to"`
	Order    SortOrder `json:"order"`
}

// Filter returns the records matching c, stably sorted by timestamp per
// c.Order. Calendar dates are derived from the epoch-millisecond
// timestamps in loc (nil means the system local zone). The input slice
// is never modified. With neither date set every record passes.
func Filter(records []models.SensorReading, c FilterCriteria, loc *time.Location) ([]models.SensorReading, error) {
	if loc == nil {
		loc = time.Local
	}

	if c.DateFrom != "" {
		if _, err := time.ParseInLocation(dateLayout, c.DateFrom, loc); err != nil {
			return nil, fmt.Errorf("invalid date_from %q: %w", c.DateFrom, err)
		}
	}
	if c.DateTo != "" {
		if _, err := time.ParseInLocation(dateLayout, c.DateTo, loc); err != nil {
			return nil, fmt.Errorf("invalid date_to %q: %w", c.DateTo, err)
		}
	}
	// ISO date strings order lexically the same as chronologically.
	if c.DateFrom != "" && c.DateTo != "" && c.DateFrom > c.DateTo {
		return nil, ErrInvalidRange
	}

	out := make([]models.SensorReading, 0, len(records))
	for _, r := range records {
		day := time.UnixMilli(r.Timestamp).In(loc).Format(dateLayout)
		switch {
		case c.DateFrom != "" && c.DateTo == "":
			if day != c.DateFrom {
				continue
			}
		case c.DateFrom == "" && c.DateTo != "":
			if day != c.DateTo {
				continue
			}
		case c.DateFrom != "" && c.DateTo != "":
			if day < c.DateFrom || day > c.DateTo {
				continue
			}
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c.Order == OldestFirst {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].Timestamp > out[j].Timestamp
	})
	return out, nil
}

// DistinctDates returns the unique calendar dates present in records,
// newest first. The history page feeds these into its date dropdowns.
func DistinctDates(records []models.SensorReading, loc *time.Location) []string {
	if loc == nil {
		loc = time.Local
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		day := time.UnixMilli(r.Timestamp).In(loc).Format(dateLayout)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
