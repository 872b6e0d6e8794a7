// Package handler implements the HTTP boundary of the assistant: request
// validation, snapshot resolution and mapping of orchestration results to
// JSON responses.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"flightassist/internal/agent"
	"flightassist/internal/flightstore"
	"flightassist/internal/telemetry"
)

const maxQuestionLength = 1000

type analyzeRequest struct {
	Question   string              `json:"question"`
	LogID      string              `json:"log_id"`
	FlightData *telemetry.Snapshot `json:"flight_data"`
	// SessionID is accepted for forward compatibility with multi-turn
	// clients; a single request/response cycle ignores it.
	SessionID string `json:"session_id"`
}

type analyzeData struct {
	Analysis       string          `json:"analysis"`
	Charts         []string        `json:"charts"`
	Suggestions    []string        `json:"suggestions"`
	Confidence     float64         `json:"confidence"`
	ProcessingTime float64         `json:"processing_time"`
	Metadata       *agent.Metadata `json:"metadata,omitempty"`
}

type analyzeResponse struct {
	Success bool         `json:"success"`
	Data    *analyzeData `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// AnalyzeHandler serves POST /api/llm/analyze. Each request runs on its own
// handler goroutine, so the blocking LLM exchange never stalls sibling
// requests.
type AnalyzeHandler struct {
	agent  *agent.Agent
	store  flightstore.Store
	logger *log.Logger
}

func NewAnalyzeHandler(a *agent.Agent, store flightstore.Store, logger *log.Logger) *AnalyzeHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &AnalyzeHandler{agent: a, store: store, logger: logger}
}

func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if h.agent == nil || !h.agent.Available() {
		writeJSON(w, http.StatusInternalServerError, analyzeResponse{
			Success: false,
			Error:   "LLM Agent未能正确初始化，请检查配置",
		})
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, analyzeResponse{
			Success: false,
			Error:   fmt.Sprintf("无效的JSON数据: %s", err),
		})
		return
	}

	question := strings.TrimSpace(req.Question)
	if msg, ok := validateQuestion(question); !ok {
		writeJSON(w, http.StatusBadRequest, analyzeResponse{Success: false, Error: msg})
		return
	}

	h.logger.Printf("Processing analysis request: %s... (log_id: %s)", truncate(question, 50), req.LogID)

	snap := h.resolveSnapshot(r, &req)
	result := h.agent.Analyze(r.Context(), question, snap)

	resp := analyzeResponse{Success: result.Success}
	status := http.StatusOK
	data := &analyzeData{
		Analysis:    result.Analysis,
		Charts:      []string{},
		Suggestions: []string{},
	}
	if result.Success {
		data.Confidence = 0.9
		if result.Metadata != nil {
			data.ProcessingTime = result.Metadata.ProcessingTime
			data.Metadata = result.Metadata
		}
	} else {
		resp.Error = result.Error
		status = http.StatusInternalServerError
	}
	resp.Data = data

	h.logger.Printf("Analysis completed in %.2fs, success: %t", data.ProcessingTime, result.Success)
	writeJSON(w, status, resp)
}

// validateQuestion enforces the boundary contract before any LLM activity.
func validateQuestion(question string) (string, bool) {
	if question == "" {
		return "问题内容不能为空", false
	}
	if len([]rune(question)) > maxQuestionLength {
		return "问题长度不能超过1000字符", false
	}
	return "", true
}

// resolveSnapshot picks the telemetry for this request: inline flight_data
// wins, then a store lookup by log_id, then the documented placeholder.
func (h *AnalyzeHandler) resolveSnapshot(r *http.Request, req *analyzeRequest) telemetry.Snapshot {
	if req.FlightData != nil {
		snap := *req.FlightData
		if snap.LogID == "" {
			snap.LogID = req.LogID
		}
		return snap
	}
	if h.store != nil && req.LogID != "" {
		snap, err := h.store.Resolve(r.Context(), req.LogID)
		if err == nil {
			return snap
		}
		if !errors.Is(err, flightstore.ErrNotFound) {
			h.logger.Printf("Error loading flight data for log_id %s: %v", req.LogID, err)
		}
	}
	return telemetry.Placeholder(req.LogID)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
