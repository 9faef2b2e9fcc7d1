package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundsense/groundwatch/pkg/alerting"
	"github.com/groundsense/groundwatch/pkg/cache"
	"github.com/groundsense/groundwatch/pkg/logger"
	"github.com/groundsense/groundwatch/pkg/models"
)

func newTestServer(t *testing.T) (*Server, cache.Tier, *alerting.Ledger) {
	t.Helper()

	tier := cache.NewMemoryTier(cache.Config{
		SnapshotTTL:    time.Hour,
		HistoryTTL:     24 * time.Hour,
		HistoryDepth:   100,
		MoistureWindow: 10 * time.Minute,
		VibrationDepth: 1000,
	})
	ledger := alerting.NewLedger(2 * time.Hour)

	return NewServer(":0", tier, ledger, logger.Nop()), tier, ledger
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	return rec
}

func moistureReading(id string, pct float64) models.Reading {
	return models.Reading{
		SensorID:   id,
		Type:       models.SensorSoilMoisture,
		RecordedAt: time.Now(),
		Moisture:   &models.MoistureData{Raw: 512, Percent: pct},
	}
}

func TestGetSnapshot(t *testing.T) {
	s, tier, _ := newTestServer(t)
	tier.WriteSnapshot(models.SensorSoilMoisture, "7", moistureReading("7", 42.5))

	rec := doRequest(t, s, http.MethodGet, "/api/sensors/soil_moisture/7/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Reading
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "7", got.SensorID)
	require.NotNil(t, got.Moisture)
	assert.InDelta(t, 42.5, got.Moisture.Percent, 1e-9)
}

func TestGetSnapshotNotFound(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/sensors/soil_moisture/7/snapshot")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSnapshotRejectsUnknownType(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/sensors/humidity/7/snapshot")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHistory(t *testing.T) {
	s, tier, _ := newTestServer(t)
	for i := 0; i < 5; i++ {
		tier.AppendHistory(models.SensorSoilMoisture, "7", moistureReading("7", float64(i)))
	}

	rec := doRequest(t, s, http.MethodGet, "/api/sensors/soil_moisture/7/history?limit=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.Reading
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.InDelta(t, 4, got[0].Moisture.Percent, 1e-9, "newest first")
}

func TestGetHistoryRejectsBadLimit(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/sensors/soil_moisture/7/history?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/sensors/soil_moisture/7/history?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAverage(t *testing.T) {
	s, tier, _ := newTestServer(t)
	now := time.Now()
	tier.RecordSeriesPoint(models.SensorSoilMoisture, "7", 40, now)
	tier.RecordSeriesPoint(models.SensorSoilMoisture, "7", 60, now)

	rec := doRequest(t, s, http.MethodGet, "/api/sensors/soil_moisture/7/average")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "7", got["sensor_id"])
	assert.InDelta(t, 50, got["average"].(float64), 1e-9)
}

func TestGetAverageNoSeries(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/sensors/tilt/7/average")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlertsLifecycle(t *testing.T) {
	s, _, ledger := newTestServer(t)
	id := ledger.Raise("7", models.SensorTilt, "Tilt detected")

	rec := doRequest(t, s, http.MethodGet, "/api/alerts")
	require.Equal(t, http.StatusOK, rec.Code)

	var alerts []models.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, id, alerts[0].ID)
	assert.True(t, alerts[0].Active)

	rec = doRequest(t, s, http.MethodPost, "/api/alerts/"+id+"/resolve")
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, true, result["resolved"])

	rec = doRequest(t, s, http.MethodGet, "/api/alerts")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	assert.Empty(t, alerts)
}

func TestResolveUnknownAlert(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/alerts/nope/resolve")
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, false, result["resolved"])
}

func TestDashboard(t *testing.T) {
	s, tier, ledger := newTestServer(t)
	tier.WriteSnapshot(models.SensorSoilMoisture, "7", moistureReading("7", 42.5))
	tier.WriteSnapshot(models.SensorTilt, "7", models.Reading{
		SensorID:   "7",
		Type:       models.SensorTilt,
		RecordedAt: time.Now(),
		Tilt:       &models.TiltData{State: 1},
	})
	ledger.Raise("7", models.SensorTilt, "Tilt detected")

	rec := doRequest(t, s, http.MethodGet, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	require.Len(t, got.Sensors[models.SensorSoilMoisture], 1)
	require.Len(t, got.Sensors[models.SensorTilt], 1)
	assert.Empty(t, got.Sensors[models.SensorVibration])
	assert.Equal(t, 1, got.TotalAlerts)
	require.Len(t, got.ActiveAlerts, 1)
}

func TestCORSPreflight(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodOptions, "/api/dashboard")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
