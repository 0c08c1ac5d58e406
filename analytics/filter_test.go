package analytics

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"aquamon/models"
)

// readingAt builds a reading stamped at local noon on the given date so
// calendar-date bucketing is unambiguous in any zone offset.
func readingAt(t *testing.T, date string, loc *time.Location) models.SensorReading {
	t.Helper()
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	return models.SensorReading{Timestamp: day.Add(12 * time.Hour).UnixMilli()}
}

func TestFilterSingleDay(t *testing.T) {
	loc := time.UTC
	records := []models.SensorReading{
		readingAt(t, "2024-01-03", loc),
		readingAt(t, "2024-01-04", loc),
		readingAt(t, "2024-01-05", loc),
	}

	// Only date_from set: exact-day match, not "on or after".
	got, err := Filter(records, FilterCriteria{DateFrom: "2024-01-04"}, loc)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(got) != 1 || got[0].Timestamp != records[1].Timestamp {
		t.Errorf("date_from only: got %d records, want the single 01-04 record", len(got))
	}

	// Only date_to set behaves the same way.
	got, err = Filter(records, FilterCriteria{DateTo: "2024-01-03"}, loc)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(got) != 1 || got[0].Timestamp != records[0].Timestamp {
		t.Errorf("date_to only: got %d records, want the single 01-03 record", len(got))
	}
}

func TestFilterInclusiveRange(t *testing.T) {
	loc := time.UTC
	records := []models.SensorReading{
		readingAt(t, "2024-01-02", loc),
		readingAt(t, "2024-01-03", loc),
		readingAt(t, "2024-01-05", loc),
		readingAt(t, "2024-01-06", loc),
	}
	got, err := Filter(records, FilterCriteria{DateFrom: "2024-01-03", DateTo: "2024-01-05", Order: OldestFirst}, loc)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Timestamp != records[1].Timestamp || got[1].Timestamp != records[2].Timestamp {
		t.Error("range filter returned wrong records")
	}
}

func TestFilterInvalidRange(t *testing.T) {
	loc := time.UTC
	records := []models.SensorReading{readingAt(t, "2024-01-04", loc)}
	_, err := Filter(records, FilterCriteria{DateFrom: "2024-01-05", DateTo: "2024-01-03"}, loc)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Filter error = %v, want ErrInvalidRange", err)
	}
}

func TestFilterBadDate(t *testing.T) {
	_, err := Filter(nil, FilterCriteria{DateFrom: "05/01/2024"}, time.UTC)
	if err == nil {
		t.Error("Filter accepted a malformed date")
	}
}

func TestFilterNoCriteriaPassesAll(t *testing.T) {
	loc := time.UTC
	records := []models.SensorReading{
		readingAt(t, "2024-01-03", loc),
		readingAt(t, "2024-01-04", loc),
	}
	got, err := Filter(records, FilterCriteria{}, loc)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(got) != len(records) {
		t.Errorf("got %d records, want all %d", len(got), len(records))
	}
}

func TestFilterSortAndStability(t *testing.T) {
	mk := func(ts int64, id uint) models.SensorReading {
		return models.SensorReading{ID: id, Timestamp: ts}
	}
	records := []models.SensorReading{mk(5, 1), mk(1, 2), mk(3, 3), mk(3, 4)}

	got, err := Filter(records, FilterCriteria{Order: OldestFirst}, time.UTC)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	wantTs := []int64{1, 3, 3, 5}
	for i, r := range got {
		if r.Timestamp != wantTs[i] {
			t.Fatalf("oldest-first order = %v at %d, want %v", r.Timestamp, i, wantTs[i])
		}
	}
	// Equal timestamps keep input order.
	if got[1].ID != 3 || got[2].ID != 4 {
		t.Error("sort is not stable for equal timestamps")
	}

	got, err = Filter(records, FilterCriteria{Order: NewestFirst}, time.UTC)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if got[0].Timestamp != 5 || got[3].Timestamp != 1 {
		t.Error("newest-first order wrong")
	}

	// Input slice untouched.
	if records[0].Timestamp != 5 || records[1].Timestamp != 1 {
		t.Error("Filter mutated its input")
	}
}

func TestFilterIdempotent(t *testing.T) {
	loc := time.UTC
	records := []models.SensorReading{
		readingAt(t, "2024-01-03", loc),
		readingAt(t, "2024-01-04", loc),
		readingAt(t, "2024-01-04", loc),
		readingAt(t, "2024-01-05", loc),
	}
	c := FilterCriteria{DateFrom: "2024-01-03", DateTo: "2024-01-04", Order: OldestFirst}

	once, err := Filter(records, c, loc)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	twice, err := Filter(once, c, loc)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Error("filtering its own output changed the result")
	}
}

func TestDistinctDates(t *testing.T) {
	loc := time.UTC
	records := []models.SensorReading{
		readingAt(t, "2024-01-04", loc),
		readingAt(t, "2024-01-03", loc),
		readingAt(t, "2024-01-04", loc),
		readingAt(t, "2024-01-06", loc),
	}
	got := DistinctDates(records, loc)
	want := []string{"2024-01-06", "2024-01-04", "2024-01-03"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DistinctDates = %v, want %v", got, want)
	}
}
