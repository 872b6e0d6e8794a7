// Package telemetry defines the flattened per-flight record consumed by the
// analysis tools. The JSON key vocabulary is an external interface: upstream
// log decoders must emit these exact keys, otherwise fields stay at their
// zero values and the tools degrade to empty summaries instead of failing.
package telemetry

// SystemMessages carries free-text log messages plus optional pre-categorized
// buckets (e.g. "battery_warnings") produced upstream.
type SystemMessages struct {
	Messages    []string            `json:"messages,omitempty"`
	Categorized map[string][]string `json:"categorized,omitempty"`
}

// Snapshot is one flight's flattened telemetry. It is treated as immutable
// for the duration of a single analysis request; every field is optional and
// defaults to zero/empty when the upstream producer did not supply it.
type Snapshot struct {
	LogID string `json:"log_id,omitempty"`

	// Duration of the flight in seconds.
	DurationS float64 `json:"duration,omitempty"`

	// Battery extrema.
	BatteryVoltageMaxV   float64 `json:"battery_voltage_max_v,omitempty"`
	BatteryVoltageMinV   float64 `json:"battery_voltage_min_v,omitempty"`
	BatteryCurrentMaxA   float64 `json:"battery_current_max_a,omitempty"`
	BatteryDischargedMAh float64 `json:"battery_discharged_mah,omitempty"`

	// Position / speed aggregates.
	TotalDistanceM       float64 `json:"total_distance_m,omitempty"`
	MaxAltitudeDiffM     float64 `json:"max_altitude_diff_m,omitempty"`
	MaxSpeedMS           float64 `json:"max_speed_ms,omitempty"`
	AverageSpeedMS       float64 `json:"average_speed_ms,omitempty"`
	MaxHorizontalSpeedMS float64 `json:"max_horizontal_speed_ms,omitempty"`

	// Attitude-rate extrema.
	MaxTiltAngleDeg float64 `json:"max_tilt_angle_deg,omitempty"`
	MaxRollRateDPS  float64 `json:"max_roll_rate_dps,omitempty"`
	MaxPitchRateDPS float64 `json:"max_pitch_rate_dps,omitempty"`
	MaxYawRateDPS   float64 `json:"max_yaw_rate_dps,omitempty"`

	// Airframe / firmware identification.
	MavType   string `json:"mav_type,omitempty"`
	Hardware  string `json:"hardware,omitempty"`
	Software  string `json:"software,omitempty"`
	Estimator string `json:"estimator,omitempty"`

	// GPS quality. The *_avg/_min and eph/epv fields are legacy aggregate
	// names still emitted by older decoders; both vocabularies are accepted.
	HasPositionData        bool    `json:"has_position_data,omitempty"`
	GPSSatellitesUsed      float64 `json:"gps_satellites_used,omitempty"`
	GPSSatellitesVisible   float64 `json:"gps_satellites_visible,omitempty"`
	GPSHDOP                float64 `json:"gps_hdop,omitempty"`
	GPSVDOP                float64 `json:"gps_vdop,omitempty"`
	GPSPDOP                float64 `json:"gps_pdop,omitempty"`
	GPSHorizontalAccuracyM float64 `json:"gps_horizontal_accuracy_m,omitempty"`
	GPSVerticalAccuracyM   float64 `json:"gps_vertical_accuracy_m,omitempty"`
	GPSSpeedAccuracyMS     float64 `json:"gps_speed_accuracy_ms,omitempty"`
	GPSFixType             int     `json:"gps_fix_type,omitempty"`
	GPSNoisePerMS          float64 `json:"gps_noise_per_ms,omitempty"`
	GPSJammingIndicator    float64 `json:"gps_jamming_indicator,omitempty"`
	GPSSatellitesAvg       float64 `json:"gps_satellites_avg,omitempty"`
	GPSSatellitesMin       float64 `json:"gps_satellites_min,omitempty"`
	GPSEphMax              float64 `json:"gps_eph_max,omitempty"`
	GPSEpvMax              float64 `json:"gps_epv_max,omitempty"`

	SystemMessages SystemMessages `json:"system_messages,omitempty"`
}

// Placeholder returns the documented stand-in snapshot used when no log
// lookup is possible. Values match a short nominal quadrotor flight so the
// assistant can still demonstrate its analysis path.
func Placeholder(logID string) Snapshot {
	if logID == "" {
		logID = "test-flight"
	}
	return Snapshot{
		LogID:                logID,
		DurationS:            300,
		BatteryVoltageMaxV:   16.8,
		BatteryVoltageMinV:   14.2,
		BatteryCurrentMaxA:   15.2,
		BatteryDischargedMAh: 850,
		TotalDistanceM:       1500,
		MaxAltitudeDiffM:     50,
		MaxSpeedMS:           12.5,
		AverageSpeedMS:       5.0,
		MaxHorizontalSpeedMS: 11.8,
		MaxTiltAngleDeg:      28,
		MavType:              "Quadrotor",
		Hardware:             "Pixhawk 4",
		Software:             "PX4 v1.14",
		Estimator:            "EKF2",
		HasPositionData:      true,
		GPSSatellitesAvg:     12,
		GPSSatellitesMin:     10,
	}
}
