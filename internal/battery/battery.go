// Package battery holds the lithium-pack domain knowledge used by the flight
// analysis tools: cell-count inference from peak pack voltage and a fixed
// health rubric over voltage drop, low-voltage safety and discharge rate.
package battery

// Config describes the inferred pack layout and its LiPo voltage thresholds.
type Config struct {
	CellCount         int     `json:"cell_count"`
	Configuration     string  `json:"configuration"`
	NominalVoltage    float64 `json:"nominal_voltage"`
	FullChargeVoltage float64 `json:"full_charge_voltage"`
	LowVoltageWarning float64 `json:"low_voltage_warning"`
	CriticalVoltage   float64 `json:"critical_voltage"`
	VoltagePerCellMax float64 `json:"voltage_per_cell_max"`
	Chemistry         string  `json:"chemistry"`
}

// VoltageAnalysis scores the total voltage drop over the flight.
type VoltageAnalysis struct {
	VoltageDropV        float64 `json:"voltage_drop_v"`
	VoltageDropPerCellV float64 `json:"voltage_drop_per_cell_v"`
	HealthStatus        string  `json:"health_status"`
	Score               int     `json:"score"`
}

// SafetyAnalysis scores the minimum voltage against the pack thresholds.
type SafetyAnalysis struct {
	MinVoltageV        float64 `json:"min_voltage_v"`
	SafetyThresholdV   float64 `json:"safety_threshold_v"`
	CriticalThresholdV float64 `json:"critical_threshold_v"`
	Status             string  `json:"status"`
	Score              int     `json:"score"`
}

// PerformanceAnalysis estimates discharge stress. Capacity is a crude proxy
// derived from peak current, not a measured value.
type PerformanceAnalysis struct {
	MaxCurrentA       float64 `json:"max_current_a"`
	EstimatedCRate    float64 `json:"estimated_c_rate"`
	CRateCategory     string  `json:"c_rate_category"`
	FlightDurationMin float64 `json:"flight_duration_min"`
}

// Assessment is the combined battery health verdict for one flight.
type Assessment struct {
	OverallHealth       string              `json:"overall_health"`
	OverallScore        float64             `json:"overall_score"`
	VoltageAnalysis     VoltageAnalysis     `json:"voltage_analysis"`
	SafetyAnalysis      SafetyAnalysis      `json:"safety_analysis"`
	PerformanceAnalysis PerformanceAnalysis `json:"performance_analysis"`
	Recommendations     []string            `json:"recommendations"`
}

// AnalyzeConfiguration infers the series cell count from the peak pack
// voltage. Bracket lower bounds are inclusive: a pack that reached exactly
// 16.0 V is treated as 4S.
func AnalyzeConfiguration(voltageMax float64) Config {
	var cfg Config
	switch {
	case voltageMax >= 24.0: // 6S
		cfg = Config{CellCount: 6, NominalVoltage: 22.2, FullChargeVoltage: 25.2, LowVoltageWarning: 21.0, CriticalVoltage: 19.8}
	case voltageMax >= 16.0: // 4S
		cfg = Config{CellCount: 4, NominalVoltage: 14.8, FullChargeVoltage: 16.8, LowVoltageWarning: 14.0, CriticalVoltage: 13.2}
	case voltageMax >= 12.0: // 3S
		cfg = Config{CellCount: 3, NominalVoltage: 11.1, FullChargeVoltage: 12.6, LowVoltageWarning: 10.5, CriticalVoltage: 9.9}
	case voltageMax >= 8.0: // 2S
		cfg = Config{CellCount: 2, NominalVoltage: 7.4, FullChargeVoltage: 8.4, LowVoltageWarning: 7.0, CriticalVoltage: 6.6}
	default: // 1S or unknown
		cfg = Config{CellCount: 1, NominalVoltage: 3.7, FullChargeVoltage: 4.2, LowVoltageWarning: 3.5, CriticalVoltage: 3.3}
	}
	cfg.Configuration = configurationLabel(cfg.CellCount)
	cfg.VoltagePerCellMax = voltageMax / float64(cfg.CellCount)
	if cfg.CellCount > 1 {
		cfg.Chemistry = "LiPo"
	} else {
		cfg.Chemistry = "Li-ion/LiPo"
	}
	return cfg
}

func configurationLabel(cells int) string {
	return map[int]string{1: "1S", 2: "2S", 3: "3S", 4: "4S", 6: "6S"}[cells]
}

// AssessHealth grades a flight's battery behavior. durationS is the flight
// duration in seconds. Scores come from a fixed rubric, not a continuous
// function; the overall score is the unweighted mean of the voltage and
// safety scores.
func AssessHealth(voltageMin, voltageMax, currentMax, durationS float64) Assessment {
	cfg := AnalyzeConfiguration(voltageMax)

	voltageDrop := voltageMax - voltageMin
	dropPerCell := voltageDrop / float64(cfg.CellCount)

	var voltageHealth string
	var voltageScore int
	switch {
	case dropPerCell < 0.5:
		voltageHealth, voltageScore = "优秀", 95
	case dropPerCell < 1.0:
		voltageHealth, voltageScore = "良好", 80
	case dropPerCell < 2.0:
		voltageHealth, voltageScore = "一般", 60
	default:
		voltageHealth, voltageScore = "较差", 30
	}

	var safetyStatus string
	var safetyScore int
	switch {
	case voltageMin >= cfg.LowVoltageWarning:
		safetyStatus, safetyScore = "安全", 90
	case voltageMin >= cfg.CriticalVoltage:
		safetyStatus, safetyScore = "注意", 60
	default:
		safetyStatus, safetyScore = "危险", 20
	}

	// No measured capacity in the log; estimate from peak current so a
	// C-rate band can still be reported.
	estimatedCapacityAh := currentMax / 10
	if estimatedCapacityAh < 1.0 {
		estimatedCapacityAh = 1.0
	}
	cRate := currentMax / estimatedCapacityAh

	var cRateCategory string
	switch {
	case cRate < 5:
		cRateCategory = "保守"
	case cRate < 15:
		cRateCategory = "正常"
	case cRate < 25:
		cRateCategory = "激进"
	default:
		cRateCategory = "过载"
	}

	overallScore := float64(voltageScore+safetyScore) / 2

	var overallHealth string
	switch {
	case overallScore >= 85:
		overallHealth = "优秀"
	case overallScore >= 70:
		overallHealth = "良好"
	case overallScore >= 50:
		overallHealth = "一般"
	default:
		overallHealth = "需要关注"
	}

	return Assessment{
		OverallHealth: overallHealth,
		OverallScore:  overallScore,
		VoltageAnalysis: VoltageAnalysis{
			VoltageDropV:        voltageDrop,
			VoltageDropPerCellV: dropPerCell,
			HealthStatus:        voltageHealth,
			Score:               voltageScore,
		},
		SafetyAnalysis: SafetyAnalysis{
			MinVoltageV:        voltageMin,
			SafetyThresholdV:   cfg.LowVoltageWarning,
			CriticalThresholdV: cfg.CriticalVoltage,
			Status:             safetyStatus,
			Score:              safetyScore,
		},
		PerformanceAnalysis: PerformanceAnalysis{
			MaxCurrentA:       currentMax,
			EstimatedCRate:    cRate,
			CRateCategory:     cRateCategory,
			FlightDurationMin: durationS / 60,
		},
		Recommendations: recommendations(overallHealth, voltageHealth, safetyStatus, cRateCategory),
	}
}

// recommendations evaluates fixed rules in order; every rule that fires
// appends its message. When none fire a single all-clear message is emitted,
// so the list is never empty.
func recommendations(overallHealth, voltageHealth, safetyStatus, cRateCategory string) []string {
	var recs []string

	if overallHealth == "需要关注" || overallHealth == "一般" {
		recs = append(recs, "建议检查电池老化程度，考虑更换电池")
	}
	if voltageHealth == "较差" {
		recs = append(recs, "电压降过大，检查电池内阻和连接线路")
	}
	switch safetyStatus {
	case "危险":
		recs = append(recs, "⚠️ 电池电压过低，立即停止使用并充电")
	case "注意":
		recs = append(recs, "电池电压偏低，建议尽快充电")
	}
	switch cRateCategory {
	case "过载":
		recs = append(recs, "电流消耗过大，检查电机和螺旋桨配置")
	case "激进":
		recs = append(recs, "电流消耗较高，注意电池温度和寿命")
	}

	if len(recs) == 0 {
		recs = append(recs, "电池状态良好，继续保持良好的使用习惯")
	}
	return recs
}

// KnowledgeSummary describes what this package knows how to assess. Surfaced
// on the status endpoint for client discovery.
type KnowledgeSummary struct {
	SupportedConfigurations  []string `json:"supported_configurations"`
	ChemistryTypes           []string `json:"chemistry_types"`
	HealthMetrics            []string `json:"health_metrics"`
	RecommendationCategories []string `json:"recommendation_categories"`
}

func Knowledge() KnowledgeSummary {
	return KnowledgeSummary{
		SupportedConfigurations: []string{"1S", "2S", "3S", "4S", "6S"},
		ChemistryTypes:          []string{"LiPo", "Li-ion"},
		HealthMetrics: []string{
			"voltage_drop_analysis",
			"safety_threshold_check",
			"c_rate_assessment",
			"overall_health_score",
		},
		RecommendationCategories: []string{
			"usage_optimization",
			"safety_warnings",
			"maintenance_suggestions",
			"replacement_indicators",
		},
	}
}
