package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"aquamon/analytics"
	"aquamon/cache"
	"aquamon/config"
	"aquamon/metrics"
	"aquamon/models"
)

const timestampDisplayLayout = "2006-01-02 15:04:05"

// ReceiveData processes an incoming reading from the pond unit. The
// reading is classified against the latest threshold table, stored, and
// pushed to every websocket subscriber; leaving the safe band raises an
// alert event on top of the regular update.
func ReceiveData(c *gin.Context) {
	var data models.SensorReading
	if err := c.ShouldBindJSON(&data); err != nil {
		metrics.ReadingsRejected.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	// A record without a usable timestamp is discarded; an omitted one
	// gets server receive time.
	if data.Timestamp < 0 {
		metrics.ReadingsRejected.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timestamp"})
		return
	}
	if data.Timestamp == 0 {
		data.Timestamp = time.Now().In(config.Location()).UnixMilli()
	}

	table := config.GetThresholdTable()
	data.IsAbnormal = analytics.IsAbnormal(data, table)

	if err := config.DB.Create(&data).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store reading"})
		return
	}
	metrics.ReadingsReceived.Inc()

	statuses := analytics.Statuses(data, table)
	BroadcastReading(data, statuses)
	if p, severity, ok := analytics.AbnormalParameter(data, table); ok {
		log.Warn().
			Str("parameter", string(p)).
			Str("severity", string(severity)).
			Int64("timestamp", data.Timestamp).
			Msg("reading outside safe band")
		BroadcastAlert(data, p, severity)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Data received successfully"})
}

// loadWindow fetches the bounded most-recent-N record window, newest
// first. All history analytics recompute from this window on each
// request rather than tracking deltas.
func loadWindow(limit int) ([]models.SensorReading, error) {
	var records []models.SensorReading
	err := config.DB.Order("timestamp desc").Limit(limit).Find(&records).Error
	return records, err
}

func criteriaFromQuery(c *gin.Context) analytics.FilterCriteria {
	order := analytics.NewestFirst
	if c.Query("sort") == string(analytics.OldestFirst) {
		order = analytics.OldestFirst
	}
	return analytics.FilterCriteria{
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Order:    order,
	}
}

func pageStateFromQuery(c *gin.Context) analytics.PageState {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(analytics.DefaultPageSize)))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = analytics.DefaultPageSize
	}
	return analytics.PageState{CurrentPage: page, PageSize: size}
}

// filterWindow applies the request's criteria to the bounded window and
// writes the error response itself when the request is malformed.
func filterWindow(c *gin.Context, limit int) ([]models.SensorReading, bool) {
	records, err := loadWindow(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return nil, false
	}
	filtered, err := analytics.Filter(records, criteriaFromQuery(c), config.Location())
	if errors.Is(err, analytics.ErrInvalidRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start date cannot be after end date"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return filtered, true
}

// GetHistory returns one page of filtered, sorted history records, each
// cell classified for status coloring.
func GetHistory(c *gin.Context) {
	filtered, ok := filterWindow(c, config.HistoryWindow())
	if !ok {
		return
	}

	page := analytics.Paginate(filtered, pageStateFromQuery(c))
	table := config.GetThresholdTable()

	rows := make([]gin.H, 0, len(page.Items))
	for _, r := range page.Items {
		rows = append(rows, gin.H{
			"reading":  r,
			"statuses": analytics.Statuses(r, table),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": rows,
		"pagination": gin.H{
			"current_page": page.CurrentPage,
			"total_pages":  page.TotalPages,
			"total":        len(filtered),
			"start_index":  page.StartIndex,
			"end_index":    page.EndIndex,
			"window":       analytics.Window(page.CurrentPage, page.TotalPages),
		},
	})
}

// GetHistoryDates lists the distinct calendar dates in the bounded
// window, newest first, for the filter dropdowns.
func GetHistoryDates(c *gin.Context) {
	records, err := loadWindow(config.HistoryWindow())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dates": analytics.DistinctDates(records, config.Location()),
	})
}

type paramSummary struct {
	Count   int      `json:"count"`
	Average *float64 `json:"average,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Unit    string   `json:"unit"`
}

func toParamSummary(p analytics.Parameter, s analytics.Summary) paramSummary {
	out := paramSummary{Count: s.Count, Unit: analytics.Specs[p].Unit}
	if s.Count > 0 {
		avg, min, max := s.Average, s.Min, s.Max
		out.Average, out.Min, out.Max = &avg, &min, &max
	}
	return out
}

// GetSummary returns count/average/min/max per parameter over the
// filtered window. Results are cached briefly because the analytics tab
// re-requests them on every view switch.
func GetSummary(c *gin.Context) {
	criteria := criteriaFromQuery(c)
	cacheKey := fmt.Sprintf("summary:%s:%s:%s", criteria.DateFrom, criteria.DateTo, criteria.Order)

	var cached map[string]paramSummary
	if config.Summaries.FetchSummary(c.Request.Context(), cacheKey, &cached) {
		c.JSON(http.StatusOK, gin.H{"data": cached, "cached": true})
		return
	}

	filtered, ok := filterWindow(c, config.HistoryWindow())
	if !ok {
		return
	}

	result := make(map[string]paramSummary, len(analytics.Parameters))
	for _, p := range analytics.Parameters {
		result[string(p)] = toParamSummary(p, analytics.Summarize(analytics.ExtractValues(filtered, p)))
	}

	config.Summaries.StoreSummary(c.Request.Context(), cacheKey, result, cache.SummaryTTL)
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetLatest returns the most recent reading with per-parameter statuses
// and display strings, for views that missed the live push.
func GetLatest(c *gin.Context) {
	var reading models.SensorReading
	err := config.DB.Order("timestamp desc").First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"reading": nil})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reading"})
		return
	}

	table := config.GetThresholdTable()
	display := make(map[string]string, len(analytics.Parameters))
	for _, p := range analytics.Parameters {
		if v := analytics.Value(reading, p); v != nil {
			display[string(p)] = p.Format(*v)
		} else {
			display[string(p)] = "--"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"reading":     reading,
		"statuses":    analytics.Statuses(reading, table),
		"display":     display,
		"last_update": time.UnixMilli(reading.Timestamp).In(config.Location()).Format(timestampDisplayLayout),
	})
}

// GetChart returns the "today" series for one parameter over the chart
// window, with its running stats.
func GetChart(c *gin.Context) {
	p, ok := analytics.ParseParameter(c.Param("parameter"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown parameter"})
		return
	}

	records, err := loadWindow(config.ChartWindow())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	loc := config.Location()
	series := analytics.DaySeries(records, p, time.Now().In(loc), loc)
	values := make([]float64, len(series))
	for i, pt := range series {
		values[i] = pt.Value
	}

	c.JSON(http.StatusOK, gin.H{
		"parameter": p,
		"label":     analytics.Specs[p].Label,
		"unit":      analytics.Specs[p].Unit,
		"series":    series,
		"summary":   toParamSummary(p, analytics.Summarize(values)),
	})
}

// GetAbnormalCount returns the count of readings outside the safe band.
func GetAbnormalCount(c *gin.Context) {
	var count int64
	config.DB.Model(&models.SensorReading{}).Where("is_abnormal = ?", true).Count(&count)
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GetAbnormalHistory returns the abnormal readings, newest first, with
// the parameter that tripped each one.
func GetAbnormalHistory(c *gin.Context) {
	var records []models.SensorReading
	err := config.DB.Where("is_abnormal = ?", true).
		Order("timestamp desc").
		Limit(config.HistoryWindow()).
		Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	table := config.GetThresholdTable()
	loc := config.Location()
	response := make([]gin.H, 0, len(records))
	for _, record := range records {
		entry := gin.H{
			"timestamp": time.UnixMilli(record.Timestamp).In(loc).Format(timestampDisplayLayout),
			"type":      "Unknown",
		}
		if p, severity, ok := analytics.AbnormalParameter(record, table); ok {
			entry["type"] = analytics.Specs[p].Label
			entry["severity"] = severity
		}
		response = append(response, entry)
	}

	c.JSON(http.StatusOK, response)
}

// writeCSV renders records as CSV rows at each parameter's display
// precision; cells for parameters a sample did not carry stay empty.
// The returned error is the writer's first, so a broken download is
// detected rather than silently truncated.
func writeCSV(w io.Writer, records []models.SensorReading, loc *time.Location) error {
	writer := csv.NewWriter(w)

	header := []string{"timestamp"}
	for _, p := range analytics.Parameters {
		header = append(header, string(p))
	}
	writer.Write(header)

	for _, record := range records {
		row := []string{time.UnixMilli(record.Timestamp).In(loc).Format(timestampDisplayLayout)}
		for _, p := range analytics.Parameters {
			if v := analytics.Value(record, p); v != nil {
				row = append(row, p.Format(*v))
			} else {
				row = append(row, "")
			}
		}
		writer.Write(row)
	}

	writer.Flush()
	return writer.Error()
}

// DownloadCSV sends the filtered history as a CSV file.
func DownloadCSV(c *gin.Context) {
	filtered, ok := filterWindow(c, config.HistoryWindow())
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=water_quality.csv")
	if err := writeCSV(c.Writer, filtered, config.Location()); err != nil {
		log.Warn().Err(err).Msg("csv download truncated")
	}
}

// UpdateRecord edits a stored reading (admin only) and re-runs its
// classification so the abnormal flag stays consistent.
func UpdateRecord(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	id := c.Param("id")
	var record models.SensorReading
	if err := config.DB.First(&record, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	var input models.SensorReading
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	record.Temperature = input.Temperature
	record.PH = input.PH
	record.Salinity = input.Salinity
	record.Turbidity = input.Turbidity
	record.DissolvedOxygen = input.DissolvedOxygen
	record.IsAbnormal = analytics.IsAbnormal(record, config.GetThresholdTable())

	if err := config.DB.Save(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record updated successfully", "updated_record": record})
}

// DeleteRecord deletes a single reading (admin only).
func DeleteRecord(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	id := c.Param("id")
	var record models.SensorReading
	if err := config.DB.First(&record, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	if err := config.DB.Delete(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}

// DeleteAllRecords wipes the reading history (admin only).
func DeleteAllRecords(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to delete all records"})
		return
	}

	if err := config.DB.Exec("DELETE FROM sensor_readings").Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete records"})
		return
	}
	if err := config.DB.Exec("ALTER SEQUENCE sensor_readings_id_seq RESTART WITH 1").Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset primary key sequence"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All records deleted successfully"})
}
