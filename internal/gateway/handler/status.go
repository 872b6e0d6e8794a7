package handler

import (
	"net/http"

	"flightassist/internal/agent"
	"flightassist/internal/battery"
)

type statusResponse struct {
	LLMAvailable     bool                     `json:"llm_available"`
	Provider         string                   `json:"provider"`
	Model            string                   `json:"model"`
	BatteryKnowledge battery.KnowledgeSummary `json:"battery_knowledge"`
}

// StatusHandler serves GET /api/llm/status: whether the assistant is usable
// and what the battery knowledge base covers.
type StatusHandler struct {
	agent    *agent.Agent
	provider string
}

func NewStatusHandler(a *agent.Agent, provider string) *StatusHandler {
	return &StatusHandler{agent: a, provider: provider}
}

func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	resp := statusResponse{
		LLMAvailable:     h.agent != nil && h.agent.Available(),
		Provider:         h.provider,
		BatteryKnowledge: battery.Knowledge(),
	}
	if h.agent != nil {
		resp.Model = h.agent.Model()
	}
	writeJSON(w, http.StatusOK, resp)
}
