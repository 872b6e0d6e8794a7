package flighttools

// GPS navigation tool. The analysis_type argument selects which top-level
// sections of the full record survive into the response.

// AnalysisType filters the GPS record to a fixed subset of sections.
type AnalysisType string

const (
	AnalysisComprehensive AnalysisType = "comprehensive"
	AnalysisAccuracy      AnalysisType = "accuracy"
	AnalysisSatellite     AnalysisType = "satellite"
	AnalysisPosition      AnalysisType = "position"
)

// GPSBasicInfo summarizes position availability and coarse aggregates.
type GPSBasicInfo struct {
	HasPositionData      bool    `json:"has_position_data"`
	TotalDistanceM       float64 `json:"total_distance_m"`
	MaxAltitudeDiffM     float64 `json:"max_altitude_diff_m"`
	MaxHorizontalSpeedMS float64 `json:"max_horizontal_speed_ms"`
	Estimator            string  `json:"estimator"`
}

// SatelliteCountAnalysis details the satellite-count quality band.
type SatelliteCountAnalysis struct {
	Average float64 `json:"average"`
	Minimum float64 `json:"minimum"`
	Status  string  `json:"status"`
}

// GPSQualityAssessment scores overall GPS quality from satellite counts.
type GPSQualityAssessment struct {
	OverallQuality         string                 `json:"overall_quality"`
	QualityScore           int                    `json:"quality_score"`
	SatelliteCountAnalysis SatelliteCountAnalysis `json:"satellite_count_analysis"`
}

// NavigationPerformance is a coarse judgement of position tracking quality.
type NavigationPerformance struct {
	PositionTracking string `json:"position_tracking"`
	DistanceAccuracy string `json:"distance_accuracy"`
	AltitudeTracking string `json:"altitude_tracking"`
}

// GPSNavigation is the get_gps_navigation_data result. Sections absent from
// the snapshot, or removed by the analysis_type filter, are omitted.
type GPSNavigation struct {
	LogID                 string                 `json:"log_id,omitempty"`
	AnalysisType          AnalysisType           `json:"analysis_type,omitempty"`
	BasicInfo             *GPSBasicInfo          `json:"basic_info,omitempty"`
	GPSAccuracy           map[string]any         `json:"gps_accuracy,omitempty"`
	QualityAssessment     *GPSQualityAssessment  `json:"quality_assessment,omitempty"`
	NavigationPerformance *NavigationPerformance `json:"navigation_performance,omitempty"`
	SystemAlerts          []string               `json:"system_alerts,omitempty"`
}

var gpsKeywords = []string{"gps", "satellite", "position", "navigation"}

func (p *Provider) GPSNavigation(analysisType AnalysisType) GPSNavigation {
	if analysisType == "" {
		analysisType = AnalysisComprehensive
	}

	out := GPSNavigation{
		LogID:        p.snap.LogID,
		AnalysisType: analysisType,
		BasicInfo: &GPSBasicInfo{
			HasPositionData:      p.snap.HasPositionData,
			TotalDistanceM:       p.snap.TotalDistanceM,
			MaxAltitudeDiffM:     p.snap.MaxAltitudeDiffM,
			MaxHorizontalSpeedMS: p.snap.MaxHorizontalSpeedMS,
			Estimator:            orUnknown(p.snap.Estimator),
		},
		GPSAccuracy:  p.gpsAccuracy(),
		SystemAlerts: matchMessages(p.snap.SystemMessages.Messages, gpsKeywords),
	}

	if satAvg, ok := out.GPSAccuracy["satellites_avg"].(float64); ok {
		var quality string
		var score int
		switch {
		case satAvg >= 12:
			quality, score = "优秀", 95
		case satAvg >= 8:
			quality, score = "良好", 80
		case satAvg >= 6:
			quality, score = "一般", 60
		default:
			quality, score = "较差", 30
		}
		status := "不足"
		if satAvg >= 8 {
			status = "充足"
		}
		satMin, _ := out.GPSAccuracy["satellites_min"].(float64)
		out.QualityAssessment = &GPSQualityAssessment{
			OverallQuality: quality,
			QualityScore:   score,
			SatelliteCountAnalysis: SatelliteCountAnalysis{
				Average: satAvg,
				Minimum: satMin,
				Status:  status,
			},
		}
	}

	if out.BasicInfo.TotalDistanceM > 0 {
		nav := &NavigationPerformance{
			PositionTracking: "异常",
			DistanceAccuracy: "中等",
			AltitudeTracking: "无数据",
		}
		if out.BasicInfo.HasPositionData {
			nav.PositionTracking = "正常"
		}
		ephMax := 10.0
		if v, ok := out.GPSAccuracy["horizontal_accuracy_max_m"].(float64); ok {
			ephMax = v
		}
		if ephMax < 2 {
			nav.DistanceAccuracy = "高"
		}
		if out.BasicInfo.MaxAltitudeDiffM > 0 {
			nav.AltitudeTracking = "正常"
		}
		out.NavigationPerformance = nav
	}

	return out.filter(analysisType)
}

// gpsAccuracy collects the quality fields the snapshot actually carries.
// Zero-valued fields are treated as absent; that keeps the upstream policy
// of never inventing readings the log did not contain.
func (p *Provider) gpsAccuracy() map[string]any {
	acc := map[string]any{}
	put := func(key string, v float64) {
		if v != 0 {
			acc[key] = v
		}
	}
	put("satellites_used", p.snap.GPSSatellitesUsed)
	put("satellites_visible", p.snap.GPSSatellitesVisible)
	put("hdop", p.snap.GPSHDOP)
	put("vdop", p.snap.GPSVDOP)
	put("pdop", p.snap.GPSPDOP)
	put("horizontal_accuracy_m", p.snap.GPSHorizontalAccuracyM)
	put("vertical_accuracy_m", p.snap.GPSVerticalAccuracyM)
	put("speed_accuracy_ms", p.snap.GPSSpeedAccuracyMS)
	put("noise_per_ms", p.snap.GPSNoisePerMS)
	put("jamming_indicator", p.snap.GPSJammingIndicator)
	if p.snap.GPSFixType != 0 {
		acc["fix_type"] = p.snap.GPSFixType
	}
	// Legacy aggregate names.
	put("satellites_avg", p.snap.GPSSatellitesAvg)
	put("satellites_min", p.snap.GPSSatellitesMin)
	put("horizontal_accuracy_max_m", p.snap.GPSEphMax)
	put("vertical_accuracy_max_m", p.snap.GPSEpvMax)
	if len(acc) == 0 {
		return nil
	}
	return acc
}

// filter trims the record to the fixed section subset for each non-
// comprehensive analysis type. log_id always survives.
func (g GPSNavigation) filter(analysisType AnalysisType) GPSNavigation {
	switch analysisType {
	case AnalysisAccuracy:
		return GPSNavigation{
			LogID:             g.LogID,
			GPSAccuracy:       g.GPSAccuracy,
			QualityAssessment: g.QualityAssessment,
			SystemAlerts:      g.SystemAlerts,
		}
	case AnalysisSatellite:
		return GPSNavigation{
			LogID:             g.LogID,
			GPSAccuracy:       g.GPSAccuracy,
			QualityAssessment: g.QualityAssessment,
		}
	case AnalysisPosition:
		return GPSNavigation{
			LogID:                 g.LogID,
			BasicInfo:             g.BasicInfo,
			NavigationPerformance: g.NavigationPerformance,
		}
	default:
		return g
	}
}
