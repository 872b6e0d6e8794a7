package flighttools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightassist/internal/telemetry"
)

func nominalSnapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		LogID:                "flight-001",
		DurationS:            300,
		BatteryVoltageMaxV:   16.8,
		BatteryVoltageMinV:   14.2,
		BatteryCurrentMaxA:   15.2,
		BatteryDischargedMAh: 850,
		TotalDistanceM:       1800,
		AverageSpeedMS:       6.0,
		MaxSpeedMS:           12.5,
		MaxTiltAngleDeg:      25,
		Hardware:             "Pixhawk 4",
		SystemMessages: telemetry.SystemMessages{
			Messages: []string{
				"Low BATTERY warning",
				"GPS signal lost",
				"Takeoff detected",
			},
			Categorized: map[string][]string{
				"battery_warnings": {"Low BATTERY warning"},
			},
		},
	}
}

func TestBatteryStatus_EmbedsConfigurationAndHealth(t *testing.T) {
	p := New(nominalSnapshot())
	out := p.BatteryStatus(nil)

	assert.Equal(t, "flight-001", out.LogID)
	assert.InDelta(t, 16.8, out.Summary.VoltageMaxV, 1e-9)

	require.NotNil(t, out.Configuration)
	assert.Equal(t, 4, out.Configuration.CellCount)

	require.NotNil(t, out.HealthAssessment)
	assert.Equal(t, "优秀", out.HealthAssessment.OverallHealth)
}

func TestBatteryStatus_KeywordScanIsCaseInsensitive(t *testing.T) {
	p := New(nominalSnapshot())
	out := p.BatteryStatus(nil)
	assert.Equal(t, []string{"Low BATTERY warning"}, out.SystemWarnings)
}

func TestBatteryStatus_SkipsHealthWhenInputsMissing(t *testing.T) {
	snap := nominalSnapshot()
	snap.BatteryCurrentMaxA = 0
	out := New(snap).BatteryStatus(nil)

	assert.NotNil(t, out.Configuration)
	assert.Nil(t, out.HealthAssessment)
}

func TestPowerSystem_CarriesCategorizedWarnings(t *testing.T) {
	out := New(nominalSnapshot()).PowerSystem()
	assert.Equal(t, []string{"Low BATTERY warning"}, out.BatteryWarnings)
	assert.NotNil(t, out.PowerRelatedEvents)
	assert.Equal(t, "flight-001", out.BatterySystem.LogID)
}

func TestFlightPerformance_EfficiencyMetrics(t *testing.T) {
	out := New(nominalSnapshot()).FlightPerformance()

	require.NotNil(t, out.EfficiencyMetrics)
	assert.InDelta(t, 21.6, out.EfficiencyMetrics.AverageSpeedKMH, 1e-9)
	assert.InDelta(t, 360, out.EfficiencyMetrics.DistancePerMinuteM, 1e-9)
	assert.Equal(t, "high", out.EfficiencyMetrics.FlightEfficiency)

	assert.Equal(t, "Pixhawk 4", out.SystemInfo.Hardware)
	assert.Equal(t, "Unknown", out.SystemInfo.MavType)
}

func TestFlightPerformance_NoEfficiencyWithoutDuration(t *testing.T) {
	snap := nominalSnapshot()
	snap.DurationS = 0
	out := New(snap).FlightPerformance()
	assert.Nil(t, out.EfficiencyMetrics)
}

func TestEmptySnapshot_AllOperationsWellFormed(t *testing.T) {
	p := New(telemetry.Snapshot{})

	battery := p.BatteryStatus(nil)
	assert.Nil(t, battery.Configuration)
	assert.Nil(t, battery.HealthAssessment)

	power := p.PowerSystem()
	assert.Empty(t, power.BatteryWarnings)

	perf := p.FlightPerformance()
	assert.Equal(t, "Unknown", perf.SystemInfo.Hardware)
	assert.Nil(t, perf.EfficiencyMetrics)

	gps := p.GPSNavigation(AnalysisComprehensive)
	assert.Nil(t, gps.GPSAccuracy)
	assert.Nil(t, gps.QualityAssessment)
	assert.Nil(t, gps.NavigationPerformance)
}

func TestCall_DispatchesByName(t *testing.T) {
	p := New(nominalSnapshot())

	out, err := p.Call(ToolFlightPerformance, nil)
	require.NoError(t, err)
	_, ok := out.(FlightPerformance)
	assert.True(t, ok)

	out, err = p.Call(ToolGPSNavigation, json.RawMessage(`{"analysis_type":"accuracy"}`))
	require.NoError(t, err)
	nav, ok := out.(GPSNavigation)
	require.True(t, ok)
	assert.Empty(t, nav.AnalysisType) // filtered out of the accuracy subset
}

func TestCall_UnknownFunction(t *testing.T) {
	p := New(nominalSnapshot())
	_, err := p.Call("get_motor_data", nil)
	require.Error(t, err)
	assert.Equal(t, "Unknown function: get_motor_data", err.Error())

	res := p.ErrorResultFor(err)
	assert.Equal(t, "Unknown function: get_motor_data", res.Error)
	assert.Equal(t, "flight-001", res.LogID)
}

func TestCall_MalformedArguments(t *testing.T) {
	p := New(nominalSnapshot())
	_, err := p.Call(ToolBatteryStatus, json.RawMessage(`{"time_range": not-json`))
	require.Error(t, err)
}
