// Package flighttools exposes the fixed catalog of data-retrieval operations
// the assistant may invoke against one flight's telemetry snapshot. Each
// operation is read-only, tolerant of missing snapshot fields and returns a
// JSON-serializable record ready to be fed back to the model.
package flighttools

import (
	"strings"

	"flightassist/internal/battery"
	"flightassist/internal/telemetry"
)

// Provider answers the four tool operations for a single snapshot.
type Provider struct {
	snap telemetry.Snapshot
}

func New(snap telemetry.Snapshot) *Provider {
	return &Provider{snap: snap}
}

// ErrorResult is the tool-level failure payload. It is forwarded to the model
// as the tool's result so the gap can be narrated to the user; it never
// aborts the orchestration run.
type ErrorResult struct {
	Error string `json:"error"`
	LogID string `json:"log_id,omitempty"`
}

// BatterySummary carries the raw battery extrema for the flight.
type BatterySummary struct {
	VoltageMaxV        float64 `json:"voltage_max_v"`
	VoltageMinV        float64 `json:"voltage_min_v"`
	CurrentMaxA        float64 `json:"current_max_a"`
	DischargedTotalMAh float64 `json:"discharged_total_mah"`
	FlightDurationS    float64 `json:"flight_duration_s"`
}

// BatteryStatus is the get_battery_status_data result.
type BatteryStatus struct {
	LogID            string              `json:"log_id,omitempty"`
	Summary          BatterySummary      `json:"summary"`
	Configuration    *battery.Config     `json:"configuration,omitempty"`
	HealthAssessment *battery.Assessment `json:"health_assessment,omitempty"`
	SystemWarnings   []string            `json:"system_warnings,omitempty"`
}

var batteryKeywords = []string{"battery", "voltage", "power", "current"}

// BatteryStatus summarizes battery telemetry, embedding the inferred pack
// configuration and a health assessment when the required extrema are all
// positive. timeRange is accepted for schema symmetry with the upstream tool
// declaration but is not applied as a filter yet; the snapshot only carries
// whole-flight aggregates. Known limitation, kept visible in the schema.
func (p *Provider) BatteryStatus(timeRange []float64) BatteryStatus {
	_ = timeRange

	out := BatteryStatus{
		LogID: p.snap.LogID,
		Summary: BatterySummary{
			VoltageMaxV:        p.snap.BatteryVoltageMaxV,
			VoltageMinV:        p.snap.BatteryVoltageMinV,
			CurrentMaxA:        p.snap.BatteryCurrentMaxA,
			DischargedTotalMAh: p.snap.BatteryDischargedMAh,
			FlightDurationS:    p.snap.DurationS,
		},
	}

	if out.Summary.VoltageMaxV > 0 {
		cfg := battery.AnalyzeConfiguration(out.Summary.VoltageMaxV)
		out.Configuration = &cfg
	}
	if out.Summary.VoltageMinV > 0 && out.Summary.VoltageMaxV > 0 && out.Summary.CurrentMaxA > 0 {
		health := battery.AssessHealth(
			out.Summary.VoltageMinV,
			out.Summary.VoltageMaxV,
			out.Summary.CurrentMaxA,
			out.Summary.FlightDurationS,
		)
		out.HealthAssessment = &health
	}

	out.SystemWarnings = matchMessages(p.snap.SystemMessages.Messages, batteryKeywords)
	return out
}

// PowerSystem is the get_power_system_data result: battery status plus the
// upstream pre-categorized battery warning bucket.
type PowerSystem struct {
	LogID              string                   `json:"log_id,omitempty"`
	BatterySystem      BatteryStatus            `json:"battery_system"`
	SystemMessages     telemetry.SystemMessages `json:"system_messages"`
	PowerRelatedEvents []string                 `json:"power_related_events"`
	BatteryWarnings    []string                 `json:"battery_warnings,omitempty"`
}

func (p *Provider) PowerSystem() PowerSystem {
	out := PowerSystem{
		LogID:              p.snap.LogID,
		BatterySystem:      p.BatteryStatus(nil),
		SystemMessages:     p.snap.SystemMessages,
		PowerRelatedEvents: []string{},
	}
	if warns, ok := p.snap.SystemMessages.Categorized["battery_warnings"]; ok {
		out.BatteryWarnings = warns
	}
	return out
}

// BasicMetrics groups whole-flight speed/distance aggregates.
type BasicMetrics struct {
	FlightDurationS      float64 `json:"flight_duration_s"`
	TotalDistanceM       float64 `json:"total_distance_m"`
	MaxAltitudeDiffM     float64 `json:"max_altitude_diff_m"`
	MaxSpeedMS           float64 `json:"max_speed_ms"`
	AverageSpeedMS       float64 `json:"average_speed_ms"`
	MaxHorizontalSpeedMS float64 `json:"max_horizontal_speed_ms"`
}

// AttitudePerformance groups attitude-rate extrema.
type AttitudePerformance struct {
	MaxTiltAngleDeg float64 `json:"max_tilt_angle_deg"`
	MaxRollRateDPS  float64 `json:"max_roll_rate_dps"`
	MaxPitchRateDPS float64 `json:"max_pitch_rate_dps"`
	MaxYawRateDPS   float64 `json:"max_yaw_rate_dps"`
}

// SystemInfo identifies the airframe and firmware; unset fields report
// "Unknown" rather than empty strings.
type SystemInfo struct {
	MavType   string `json:"mav_type"`
	Hardware  string `json:"hardware"`
	Software  string `json:"software"`
	Estimator string `json:"estimator"`
}

// EfficiencyMetrics is derived only when the flight had a positive duration.
type EfficiencyMetrics struct {
	AverageSpeedKMH    float64 `json:"average_speed_kmh"`
	DistancePerMinuteM float64 `json:"distance_per_minute_m"`
	FlightEfficiency   string  `json:"flight_efficiency"`
}

// FlightPerformance is the get_flight_performance_data result.
type FlightPerformance struct {
	LogID               string              `json:"log_id,omitempty"`
	BasicMetrics        BasicMetrics        `json:"basic_metrics"`
	AttitudePerformance AttitudePerformance `json:"attitude_performance"`
	SystemInfo          SystemInfo          `json:"system_info"`
	EfficiencyMetrics   *EfficiencyMetrics  `json:"efficiency_metrics,omitempty"`
}

func (p *Provider) FlightPerformance() FlightPerformance {
	out := FlightPerformance{
		LogID: p.snap.LogID,
		BasicMetrics: BasicMetrics{
			FlightDurationS:      p.snap.DurationS,
			TotalDistanceM:       p.snap.TotalDistanceM,
			MaxAltitudeDiffM:     p.snap.MaxAltitudeDiffM,
			MaxSpeedMS:           p.snap.MaxSpeedMS,
			AverageSpeedMS:       p.snap.AverageSpeedMS,
			MaxHorizontalSpeedMS: p.snap.MaxHorizontalSpeedMS,
		},
		AttitudePerformance: AttitudePerformance{
			MaxTiltAngleDeg: p.snap.MaxTiltAngleDeg,
			MaxRollRateDPS:  p.snap.MaxRollRateDPS,
			MaxPitchRateDPS: p.snap.MaxPitchRateDPS,
			MaxYawRateDPS:   p.snap.MaxYawRateDPS,
		},
		SystemInfo: SystemInfo{
			MavType:   orUnknown(p.snap.MavType),
			Hardware:  orUnknown(p.snap.Hardware),
			Software:  orUnknown(p.snap.Software),
			Estimator: orUnknown(p.snap.Estimator),
		},
	}

	if durationMin := out.BasicMetrics.FlightDurationS / 60; durationMin > 0 {
		eff := EfficiencyMetrics{
			AverageSpeedKMH:    out.BasicMetrics.AverageSpeedMS * 3.6,
			DistancePerMinuteM: out.BasicMetrics.TotalDistanceM / durationMin,
			FlightEfficiency:   "normal",
		}
		if out.BasicMetrics.AverageSpeedMS > 5 {
			eff.FlightEfficiency = "high"
		}
		out.EfficiencyMetrics = &eff
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// matchMessages returns messages containing any of the keywords,
// case-insensitively.
func matchMessages(messages, keywords []string) []string {
	var hits []string
	for _, msg := range messages {
		lower := strings.ToLower(msg)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hits = append(hits, msg)
				break
			}
		}
	}
	return hits
}
