package flighttools

import (
	"encoding/json"
	"fmt"

	"flightassist/internal/llmclient"
)

// Tool names are part of the contract with the model: the system prompt
// enumerates them and the dispatch table below must match exactly.
const (
	ToolBatteryStatus     = "get_battery_status_data"
	ToolPowerSystem       = "get_power_system_data"
	ToolFlightPerformance = "get_flight_performance_data"
	ToolGPSNavigation     = "get_gps_navigation_data"
)

type batteryStatusArgs struct {
	TimeRange []float64 `json:"time_range"`
}

type gpsNavigationArgs struct {
	AnalysisType AnalysisType `json:"analysis_type"`
}

// handler runs one catalog operation with raw JSON arguments.
type handler func(p *Provider, args json.RawMessage) (any, error)

// handlers is the closed dispatch table: tool name → typed handler. New tools
// must be added both here and in Specs.
var handlers = map[string]handler{
	ToolBatteryStatus: func(p *Provider, args json.RawMessage) (any, error) {
		var in batteryStatusArgs
		if err := unmarshalArgs(args, &in); err != nil {
			return nil, err
		}
		return p.BatteryStatus(in.TimeRange), nil
	},
	ToolPowerSystem: func(p *Provider, args json.RawMessage) (any, error) {
		return p.PowerSystem(), nil
	},
	ToolFlightPerformance: func(p *Provider, args json.RawMessage) (any, error) {
		return p.FlightPerformance(), nil
	},
	ToolGPSNavigation: func(p *Provider, args json.RawMessage) (any, error) {
		var in gpsNavigationArgs
		if err := unmarshalArgs(args, &in); err != nil {
			return nil, err
		}
		return p.GPSNavigation(in.AnalysisType), nil
	},
}

func unmarshalArgs(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

// Call dispatches one tool invocation by exact name. An unknown name or
// malformed arguments is a tool-level failure: callers turn the error into an
// ErrorResult for the model instead of aborting the run.
func (p *Provider) Call(name string, args json.RawMessage) (any, error) {
	h, ok := handlers[name]
	if !ok {
		return nil, fmt.Errorf("Unknown function: %s", name)
	}
	return h(p, args)
}

// ErrorResultFor wraps a tool-level error in the payload fed back to the
// model as the tool's result.
func (p *Provider) ErrorResultFor(err error) ErrorResult {
	return ErrorResult{Error: err.Error(), LogID: p.snap.LogID}
}

// Specs returns the fixed tool catalog presented to the model. Description
// text is part of the contract the model relies on to pick tools; keep it
// aligned with what each operation actually returns.
func Specs() []llmclient.Tool {
	return []llmclient.Tool{
		llmclient.NewTool(
			ToolBatteryStatus,
			"获取当前飞行日志的电池状态数据，包括电压、电流、容量、温度等详细信息",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"time_range": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "number"},
						"description": "时间范围 [开始时间, 结束时间]，单位秒。不提供则获取全部数据",
					},
				},
			},
		),
		llmclient.NewTool(
			ToolPowerSystem,
			"获取完整的电力系统数据，包括电池状态、系统电压、电力相关警告等",
			map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		),
		llmclient.NewTool(
			ToolFlightPerformance,
			"获取飞行性能指标，包括速度、高度、距离、姿态角速度等数据",
			map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		),
		llmclient.NewTool(
			ToolGPSNavigation,
			"获取GPS和导航系统数据，包括卫星数量、精度、定位质量等信息",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"analysis_type": map[string]any{
						"type":        "string",
						"enum":        []string{"comprehensive", "accuracy", "satellite", "position"},
						"description": "分析类型：comprehensive(全面), accuracy(精度), satellite(卫星), position(定位)",
					},
				},
			},
		),
	}
}
