package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"aquamon/metrics"
	"aquamon/models"
)

func fptr(v float64) *float64 { return &v }

func ingestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/sensor-data", ReceiveData)
	return r
}

func postReading(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sensor-data", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// A reading with a negative timestamp is discarded before it reaches
// storage, and the rejection counter moves.
func TestReceiveDataRejectsNegativeTimestamp(t *testing.T) {
	r := ingestRouter()
	before := testutil.ToFloat64(metrics.ReadingsRejected)

	w := postReading(r, `{"timestamp": -5, "temperature": 28.0}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if got := testutil.ToFloat64(metrics.ReadingsRejected); got != before+1 {
		t.Errorf("rejected counter moved by %v, want 1", got-before)
	}
}

func TestReceiveDataRejectsMalformedBody(t *testing.T) {
	r := ingestRouter()
	before := testutil.ToFloat64(metrics.ReadingsRejected)

	w := postReading(r, `{"timestamp": "yesterday"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if got := testutil.ToFloat64(metrics.ReadingsRejected); got != before+1 {
		t.Errorf("rejected counter moved by %v, want 1", got-before)
	}
}

func TestWriteCSV(t *testing.T) {
	loc := time.UTC
	records := []models.SensorReading{
		{
			Timestamp:   time.Date(2024, 1, 4, 8, 30, 0, 0, loc).UnixMilli(),
			Temperature: fptr(28),
			PH:          fptr(7.25),
		},
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, records, loc); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header and one row", len(lines))
	}
	if lines[0] != "timestamp,temperature,ph,salinity,turbidity,dissolved_oxygen" {
		t.Errorf("header = %q", lines[0])
	}
	// Display precision applies; absent parameters stay empty cells.
	if lines[1] != "2024-01-04 08:30:00,28.0,7.25,,," {
		t.Errorf("row = %q", lines[1])
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("client went away") }

func TestWriteCSVReportsWriterError(t *testing.T) {
	if err := writeCSV(failWriter{}, nil, time.UTC); err == nil {
		t.Error("writeCSV on a failing writer returned no error")
	}
}
