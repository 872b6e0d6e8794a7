package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIClient calls an OpenAI-compatible Chat Completions endpoint. Any
// gateway speaking the same protocol (Groq, local proxies) works by pointing
// endpoint at it.
type OpenAIClient struct {
	http     *http.Client
	apiKey   string
	endpoint string
}

// NewOpenAIClient creates a client. If apiKey is empty it falls back to the
// OPENAI_API_KEY env var; if endpoint is empty the official API is used.
func NewOpenAIClient(apiKey, endpoint string) *OpenAIClient {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}
	return &OpenAIClient{
		http:     &http.Client{Timeout: 120 * time.Second},
		apiKey:   apiKey,
		endpoint: endpoint,
	}
}

func (c *OpenAIClient) Name() string { return "openai" }
func (c *OpenAIClient) Close() error { return nil }

// Available reports whether an API key is configured. Calls without a key
// would only fail at the provider, so the façade checks this up front.
func (c *OpenAIClient) Available() bool { return c.apiKey != "" }

func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		const max = 2048
		if len(body) > max {
			body = body[:max]
		}
		return nil, fmt.Errorf("openai: unexpected status %s: %s", resp.Status, string(body))
	}

	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return &out, nil
}
