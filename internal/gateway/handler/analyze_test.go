package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightassist/internal/agent"
	"flightassist/internal/flightstore"
	"flightassist/internal/llmclient"
	"flightassist/internal/telemetry"
)

type fakeChatClient struct {
	calls    int
	response *llmclient.ChatResponse
	err      error
}

func (f *fakeChatClient) Name() string { return "fake" }
func (f *fakeChatClient) Close() error { return nil }
func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, req *llmclient.ChatRequest) (*llmclient.ChatResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type fakeStore struct {
	resolved []string
	snap     telemetry.Snapshot
	err      error
}

func (f *fakeStore) Resolve(ctx context.Context, logID string) (telemetry.Snapshot, error) {
	f.resolved = append(f.resolved, logID)
	if f.err != nil {
		return telemetry.Snapshot{}, f.err
	}
	return f.snap, nil
}

func plainAnswer(text string) *llmclient.ChatResponse {
	return &llmclient.ChatResponse{
		Choices: []llmclient.Choice{{Message: llmclient.Message{
			Role:    llmclient.RoleAssistant,
			Content: text,
		}}},
		Usage: llmclient.Usage{TotalTokens: 42},
	}
}

func postAnalyze(t *testing.T, h *AnalyzeHandler, body string) (*httptest.ResponseRecorder, analyzeResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/llm/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, req)
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandleAnalyze_Success(t *testing.T) {
	client := &fakeChatClient{response: plainAnswer("电池状态正常。")}
	h := NewAnalyzeHandler(agent.New(client, "test-model", nil), nil, nil)

	rec, resp := postAnalyze(t, h, `{"question": "电池怎么样？"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "电池状态正常。", resp.Data.Analysis)
	assert.Equal(t, 0.9, resp.Data.Confidence)
	assert.NotNil(t, resp.Data.Charts)
	assert.NotNil(t, resp.Data.Suggestions)
	require.NotNil(t, resp.Data.Metadata)
	assert.Equal(t, "test-model", resp.Data.Metadata.ModelUsed)
	assert.Equal(t, 42, resp.Data.Metadata.TokensUsed)
}

func TestHandleAnalyze_QuestionTooLong(t *testing.T) {
	client := &fakeChatClient{response: plainAnswer("ignored")}
	h := NewAnalyzeHandler(agent.New(client, "test-model", nil), nil, nil)

	long := strings.Repeat("问", 1001)
	body, err := json.Marshal(map[string]string{"question": long})
	require.NoError(t, err)

	rec, resp := postAnalyze(t, h, string(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "问题长度不能超过1000字符", resp.Error)
	assert.Zero(t, client.calls, "validation failure must not reach the LLM")
}

func TestHandleAnalyze_QuestionBoundary(t *testing.T) {
	client := &fakeChatClient{response: plainAnswer("ok")}
	h := NewAnalyzeHandler(agent.New(client, "test-model", nil), nil, nil)

	body, err := json.Marshal(map[string]string{"question": strings.Repeat("问", 1000)})
	require.NoError(t, err)

	rec, _ := postAnalyze(t, h, string(body))
	assert.Equal(t, http.StatusOK, rec.Code, "exactly 1000 runes is valid")
}

func TestHandleAnalyze_EmptyQuestion(t *testing.T) {
	client := &fakeChatClient{}
	h := NewAnalyzeHandler(agent.New(client, "test-model", nil), nil, nil)

	rec, resp := postAnalyze(t, h, `{"question": "   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "问题内容不能为空", resp.Error)
	assert.Zero(t, client.calls)
}

func TestHandleAnalyze_InvalidJSON(t *testing.T) {
	client := &fakeChatClient{}
	h := NewAnalyzeHandler(agent.New(client, "test-model", nil), nil, nil)

	rec, resp := postAnalyze(t, h, `{"question": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error, "无效的JSON数据")
	assert.Zero(t, client.calls)
}

func TestHandleAnalyze_AgentUnavailable(t *testing.T) {
	h := NewAnalyzeHandler(agent.New(nil, "", nil), nil, nil)

	rec, resp := postAnalyze(t, h, `{"question": "你好"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "LLM Agent未能正确初始化，请检查配置", resp.Error)
}

func TestHandleAnalyze_UpstreamFailure(t *testing.T) {
	client := &fakeChatClient{err: errors.New("upstream timeout")}
	h := NewAnalyzeHandler(agent.New(client, "test-model", nil), nil, nil)

	rec, resp := postAnalyze(t, h, `{"question": "你好"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "upstream timeout")
	require.NotNil(t, resp.Data)
	assert.Contains(t, resp.Data.Analysis, "分析过程中出现错误")
	assert.Zero(t, resp.Data.Confidence)
}

func TestHandleAnalyze_MethodNotAllowed(t *testing.T) {
	h := NewAnalyzeHandler(agent.New(&fakeChatClient{}, "", nil), nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/llm/analyze", nil)
	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAnalyze_StoreLookup(t *testing.T) {
	client := &fakeChatClient{response: plainAnswer("ok")}
	store := &fakeStore{snap: telemetry.Snapshot{LogID: "LOG42", BatteryVoltageMaxV: 16.8}}
	h := NewAnalyzeHandler(agent.New(client, "test-model", nil), store, nil)

	rec, _ := postAnalyze(t, h, `{"question": "你好", "log_id": "LOG42"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"LOG42"}, store.resolved)
}

func TestHandleAnalyze_StoreMissFallsBackToPlaceholder(t *testing.T) {
	client := &fakeChatClient{response: plainAnswer("ok")}
	store := &fakeStore{err: flightstore.ErrNotFound}
	h := NewAnalyzeHandler(agent.New(client, "test-model", nil), store, nil)

	rec, resp := postAnalyze(t, h, `{"question": "你好", "log_id": "missing"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success, "a store miss degrades to placeholder data")
}

func TestHandleAnalyze_InlineFlightDataSkipsStore(t *testing.T) {
	client := &fakeChatClient{response: plainAnswer("ok")}
	store := &fakeStore{}
	h := NewAnalyzeHandler(agent.New(client, "test-model", nil), store, nil)

	body := `{"question": "你好", "log_id": "LOG42", "flight_data": {"battery_voltage_max_v": 16.8}}`
	rec, _ := postAnalyze(t, h, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.resolved, "inline telemetry must not hit the store")
}

func TestHandleStatus(t *testing.T) {
	client := &fakeChatClient{}
	h := NewStatusHandler(agent.New(client, "test-model", nil), "openai")

	req := httptest.NewRequest(http.MethodGet, "/api/llm/status", nil)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.LLMAvailable)
	assert.Equal(t, "openai", resp.Provider)
	assert.Equal(t, "test-model", resp.Model)
	assert.NotEmpty(t, resp.BatteryKnowledge.SupportedConfigurations)
}

func TestHandleStatus_NoClient(t *testing.T) {
	h := NewStatusHandler(agent.New(nil, "", nil), "openai")

	req := httptest.NewRequest(http.MethodGet, "/api/llm/status", nil)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, req)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.LLMAvailable)
}
