// Package agent drives the two-phase function-calling exchange with the LLM:
// one completion that may request tool calls, sequential tool dispatch, then
// a second completion over the tool results that yields the final analysis.
// The second round exists because the provider protocol requires tool results
// to be returned before the model can synthesize prose.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"flightassist/internal/flighttools"
	"flightassist/internal/llmclient"
	"flightassist/internal/telemetry"
)

const (
	defaultModel = "gpt-4o-mini"

	// Low temperature keeps the analytical tone reproducible.
	analysisTemperature = 0.3
	analysisMaxTokens   = 4000
)

// ToolInvocation records one tool call the model requested during a run, in
// request order. Not persisted beyond the response.
type ToolInvocation struct {
	Function      string         `json:"function"`
	Arguments     map[string]any `json:"arguments"`
	ResultSummary string         `json:"result_summary"`
}

// Metadata describes how an analysis was produced.
type Metadata struct {
	ModelUsed        string           `json:"model_used"`
	ProcessingTime   float64          `json:"processing_time"`
	TokensUsed       int              `json:"tokens_used"`
	FunctionCalls    []ToolInvocation `json:"function_calls"`
	HasFunctionCalls bool             `json:"has_function_calls"`
}

// Result is the orchestrator's output contract. Constructed once per request
// and discarded afterwards; a failed run carries no partial metadata.
type Result struct {
	Success  bool      `json:"success"`
	Analysis string    `json:"analysis"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Agent holds the injected dependencies for analysis runs. Construct it once
// at process start; it is safe for concurrent use.
type Agent struct {
	client llmclient.ChatClient
	model  string
	logger *log.Logger
}

// New creates an agent bound to a chat client. model falls back to the
// default when empty. logger may be nil to use log.Default().
func New(client llmclient.ChatClient, model string, logger *log.Logger) *Agent {
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Agent{client: client, model: model, logger: logger}
}

// Available reports whether the agent has an initialized client.
func (a *Agent) Available() bool { return a != nil && a.client != nil }

// Model returns the configured model name.
func (a *Agent) Model() string { return a.model }

// Analyze answers a natural-language question about one flight. The run is
// all-or-nothing: any client failure yields success=false with the error text
// preserved, and no partial metadata.
func (a *Agent) Analyze(ctx context.Context, question string, snap telemetry.Snapshot) *Result {
	if !a.Available() {
		return &Result{
			Success:  false,
			Error:    "Agent未正确初始化",
			Analysis: "LLM客户端未正确初始化，请检查API密钥配置。",
		}
	}

	tools := flighttools.New(snap)
	messages := []llmclient.Message{
		{Role: llmclient.RoleSystem, Content: systemPrompt},
		{Role: llmclient.RoleUser, Content: "请分析以下问题：" + question},
	}

	start := time.Now()
	first, err := a.client.CreateChatCompletion(ctx, &llmclient.ChatRequest{
		Model:       a.model,
		Messages:    messages,
		Tools:       flighttools.Specs(),
		ToolChoice:  "auto",
		MaxTokens:   analysisMaxTokens,
		Temperature: analysisTemperature,
	})
	if err != nil {
		return a.failure(err)
	}

	assistant := first.Message0()
	messages = append(messages, assistant)

	var invocations []ToolInvocation
	analysis := assistant.Content
	totalTokens := first.Usage.TotalTokens

	if len(assistant.ToolCalls) > 0 {
		for _, call := range assistant.ToolCalls {
			name := call.Function.Name
			rawArgs := json.RawMessage(call.Function.Arguments)

			a.logger.Printf("Agent calling function: %s with args: %s", name, call.Function.Arguments)

			result, callErr := tools.Call(name, rawArgs)
			if callErr != nil {
				// Tool-level failure (unknown name, malformed arguments):
				// forwarded to the model as the tool's result, run continues.
				result = tools.ErrorResultFor(callErr)
			}

			invocations = append(invocations, ToolInvocation{
				Function:      name,
				Arguments:     parseArguments(rawArgs),
				ResultSummary: summarize(name, callErr),
			})

			content, mErr := json.Marshal(result)
			if mErr != nil {
				content = []byte(fmt.Sprintf(`{"error":%q}`, mErr.Error()))
			}
			messages = append(messages, llmclient.Message{
				Role:       llmclient.RoleTool,
				Name:       name,
				ToolCallID: call.ID,
				Content:    string(content),
			})
		}

		// Tool catalog is omitted here: the calls are resolved and the model
		// must now produce the final prose.
		second, err := a.client.CreateChatCompletion(ctx, &llmclient.ChatRequest{
			Model:       a.model,
			Messages:    messages,
			MaxTokens:   analysisMaxTokens,
			Temperature: analysisTemperature,
		})
		if err != nil {
			return a.failure(err)
		}
		analysis = second.Message0().Content
		totalTokens += second.Usage.TotalTokens
	}

	elapsed := time.Since(start)
	observeAnalysis(a.client.Name(), elapsed, totalTokens, true)

	return &Result{
		Success:  true,
		Analysis: analysis,
		Metadata: &Metadata{
			ModelUsed:        a.model,
			ProcessingTime:   elapsed.Seconds(),
			TokensUsed:       totalTokens,
			FunctionCalls:    invocations,
			HasFunctionCalls: len(invocations) > 0,
		},
	}
}

func (a *Agent) failure(err error) *Result {
	a.logger.Printf("Flight analysis with function calling failed: %v", err)
	observeAnalysis(a.client.Name(), 0, 0, false)
	return &Result{
		Success:  false,
		Error:    err.Error(),
		Analysis: fmt.Sprintf("分析过程中出现错误: %s", err),
	}
}

// parseArguments decodes the raw argument string for the invocation record.
// Malformed JSON yields nil; the dispatch path reports the error separately.
func parseArguments(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// summarize produces the one-line human summary stored per invocation.
func summarize(name string, callErr error) string {
	if callErr != nil {
		return "错误: " + callErr.Error()
	}
	switch name {
	case flighttools.ToolBatteryStatus:
		return "获取了电池状态数据"
	case flighttools.ToolPowerSystem:
		return "获取了电力系统数据"
	case flighttools.ToolFlightPerformance:
		return "获取了飞行性能数据"
	case flighttools.ToolGPSNavigation:
		return "获取了GPS导航数据"
	default:
		return "获取了飞行数据"
	}
}
