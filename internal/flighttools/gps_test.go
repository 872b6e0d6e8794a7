package flighttools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightassist/internal/telemetry"
)

func gpsSnapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		LogID:            "flight-002",
		HasPositionData:  true,
		TotalDistanceM:   2400,
		MaxAltitudeDiffM: 80,
		GPSSatellitesAvg: 13,
		GPSSatellitesMin: 11,
		GPSEphMax:        1.5,
		GPSHDOP:          0.8,
		SystemMessages: telemetry.SystemMessages{
			Messages: []string{"GPS glitch detected", "Battery low"},
		},
	}
}

func TestGPSNavigation_QualityBands(t *testing.T) {
	tests := []struct {
		satAvg  float64
		quality string
		score   int
		status  string
	}{
		{13, "优秀", 95, "充足"},
		{9, "良好", 80, "充足"},
		{7, "一般", 60, "不足"},
		{4, "较差", 30, "不足"},
	}
	for _, tt := range tests {
		snap := gpsSnapshot()
		snap.GPSSatellitesAvg = tt.satAvg
		out := New(snap).GPSNavigation(AnalysisComprehensive)

		require.NotNil(t, out.QualityAssessment, "satAvg=%v", tt.satAvg)
		assert.Equal(t, tt.quality, out.QualityAssessment.OverallQuality)
		assert.Equal(t, tt.score, out.QualityAssessment.QualityScore)
		assert.Equal(t, tt.status, out.QualityAssessment.SatelliteCountAnalysis.Status)
	}
}

func TestGPSNavigation_NavigationPerformance(t *testing.T) {
	out := New(gpsSnapshot()).GPSNavigation(AnalysisComprehensive)

	require.NotNil(t, out.NavigationPerformance)
	assert.Equal(t, "正常", out.NavigationPerformance.PositionTracking)
	assert.Equal(t, "高", out.NavigationPerformance.DistanceAccuracy)
	assert.Equal(t, "正常", out.NavigationPerformance.AltitudeTracking)
}

func TestGPSNavigation_SystemAlertsKeywordScan(t *testing.T) {
	out := New(gpsSnapshot()).GPSNavigation(AnalysisComprehensive)
	assert.Equal(t, []string{"GPS glitch detected"}, out.SystemAlerts)
}

func TestGPSNavigation_AccuracyFilterKeySet(t *testing.T) {
	out := New(gpsSnapshot()).GPSNavigation(AnalysisAccuracy)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))

	allowed := map[string]bool{
		"log_id":             true,
		"gps_accuracy":       true,
		"quality_assessment": true,
		"system_alerts":      true,
	}
	for key := range m {
		assert.True(t, allowed[key], "unexpected key %q leaked through accuracy filter", key)
	}
	assert.Contains(t, m, "gps_accuracy")
}

func TestGPSNavigation_SatelliteFilter(t *testing.T) {
	out := New(gpsSnapshot()).GPSNavigation(AnalysisSatellite)
	assert.Nil(t, out.BasicInfo)
	assert.Nil(t, out.NavigationPerformance)
	assert.Nil(t, out.SystemAlerts)
	assert.NotNil(t, out.GPSAccuracy)
	assert.NotNil(t, out.QualityAssessment)
}

func TestGPSNavigation_PositionFilter(t *testing.T) {
	out := New(gpsSnapshot()).GPSNavigation(AnalysisPosition)
	assert.NotNil(t, out.BasicInfo)
	assert.NotNil(t, out.NavigationPerformance)
	assert.Nil(t, out.GPSAccuracy)
	assert.Nil(t, out.QualityAssessment)
}

func TestGPSNavigation_DefaultsToComprehensive(t *testing.T) {
	out := New(gpsSnapshot()).GPSNavigation("")
	assert.Equal(t, AnalysisComprehensive, out.AnalysisType)
	assert.NotNil(t, out.BasicInfo)
}

func TestGPSNavigation_LegacyAggregateNames(t *testing.T) {
	out := New(gpsSnapshot()).GPSNavigation(AnalysisComprehensive)
	require.NotNil(t, out.GPSAccuracy)
	assert.InDelta(t, 1.5, out.GPSAccuracy["horizontal_accuracy_max_m"].(float64), 1e-9)
	assert.InDelta(t, 13.0, out.GPSAccuracy["satellites_avg"].(float64), 1e-9)
}
