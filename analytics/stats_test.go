package analytics

import (
	"testing"
	"time"

	"aquamon/models"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{20, 30, 10})
	if s.Count != 3 {
		t.Errorf("Count = %d, want 3", s.Count)
	}
	if s.Average != 20 {
		t.Errorf("Average = %v, want 20", s.Average)
	}
	if s.Min != 10 || s.Max != 30 {
		t.Errorf("Min/Max = %v/%v, want 10/30", s.Min, s.Max)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Count != 0 {
		t.Errorf("Count = %d, want 0", s.Count)
	}
}

func TestSummarizeOrdering(t *testing.T) {
	seqs := [][]float64{
		{1, 2, 3, 4, 5},
		{28.4},
		{-3, 0, 7.5, 12},
	}
	for _, seq := range seqs {
		s := Summarize(seq)
		if s.Min > s.Average || s.Average > s.Max {
			t.Errorf("Summarize(%v): want min <= average <= max, got %v/%v/%v",
				seq, s.Min, s.Average, s.Max)
		}
	}
}

func TestExtractValues(t *testing.T) {
	records := []models.SensorReading{
		{Timestamp: 5, Temperature: fp(10)},
		{Timestamp: 1, Temperature: fp(20)},
		{Timestamp: 3}, // no temperature sample
		{Timestamp: 4, Temperature: fp(30)},
	}
	got := ExtractValues(records, Temperature)
	want := []float64{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v (record order must be kept)", i, got[i], want[i])
		}
	}
}

// Oldest-first sort, extraction and summary composed end to end.
func TestFilterSummarizePipeline(t *testing.T) {
	records := []models.SensorReading{
		{Timestamp: 5, Temperature: fp(10)},
		{Timestamp: 1, Temperature: fp(20)},
		{Timestamp: 3, Temperature: fp(30)},
	}
	sorted, err := Filter(records, FilterCriteria{Order: OldestFirst}, time.UTC)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	values := ExtractValues(sorted, Temperature)
	want := []float64{20, 30, 10}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("values = %v, want %v", values, want)
		}
	}
	s := Summarize(values)
	if s.Average != 20 || s.Min != 10 || s.Max != 30 {
		t.Errorf("summary = %+v, want average 20 min 10 max 30", s)
	}
}

func TestDaySeries(t *testing.T) {
	loc := time.UTC
	day := time.Date(2024, 1, 4, 0, 0, 0, 0, loc)
	at := func(h int) int64 { return day.Add(time.Duration(h) * time.Hour).UnixMilli() }

	records := []models.SensorReading{
		{Timestamp: at(9), Temperature: fp(27)},
		{Timestamp: at(-2), Temperature: fp(25)}, // previous day
		{Timestamp: at(6), Temperature: fp(26)},
		{Timestamp: at(11)}, // no temperature
		{Timestamp: at(26), Temperature: fp(29)}, // next day
	}
	got := DaySeries(records, Temperature, day, loc)
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}
	if got[0].Value != 26 || got[1].Value != 27 {
		t.Errorf("series = %+v, want oldest-first 26 then 27", got)
	}
}
