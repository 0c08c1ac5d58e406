package analytics

import (
	"sort"
	"time"

	"aquamon/models"
)

// Summary holds the aggregate figures for a value series. When Count is
// zero no values were present and the other fields carry no meaning;
// renderers show them as absent.
type Summary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Summarize computes count, mean, min and max over values. The mean
// accumulates left to right in input order.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sum, min, max := 0.0, values[0], values[0]
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return Summary{
		Count:   len(values),
		Average: sum / float64(len(values)),
		Min:     min,
		Max:     max,
	}
}

// ExtractValues pulls the parameter's values out of records in record
// order, skipping samples that did not carry the parameter.
func ExtractValues(records []models.SensorReading, p Parameter) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if v := Value(r, p); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// SeriesPoint is one chart sample.
type SeriesPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// DaySeries returns the parameter's readings that fall on day's calendar
// date in loc, ordered oldest first. This feeds the "today" line chart
// on each parameter page.
func DaySeries(records []models.SensorReading, p Parameter, day time.Time, loc *time.Location) []SeriesPoint {
	if loc == nil {
		loc = time.Local
	}
	target := day.In(loc).Format(dateLayout)
	out := make([]SeriesPoint, 0)
	for _, r := range records {
		v := Value(r, p)
		if v == nil {
			continue
		}
		if time.UnixMilli(r.Timestamp).In(loc).Format(dateLayout) != target {
			continue
		}
		out = append(out, SeriesPoint{Timestamp: r.Timestamp, Value: *v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}
