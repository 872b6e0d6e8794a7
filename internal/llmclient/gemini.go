package llmclient

import (
	"context"
	"encoding/json"
	"fmt"

	genai "google.golang.org/genai"
)

// GeminiClient adapts the official genai client to the ChatClient contract.
// OpenAI-style messages and tool specs are translated to genai contents and
// function declarations; function-call parts in the answer are mapped back to
// tool_calls so the orchestrator stays provider-agnostic.
type GeminiClient struct {
	cli *genai.Client
}

// NewGeminiClient creates a Gemini-backed chat client. The genai client reads
// GEMINI_API_KEY from the environment.
func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli}, nil
}

func (g *GeminiClient) Name() string { return "gemini" }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) CreateChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		t := req.Temperature
		cfg.Temperature = &t
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if len(req.Tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: toDeclarations(req.Tools)}}
	}

	var contents []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: m.Content}}}
		case RoleUser:
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: m.Content}}})
		case RoleAssistant:
			parts := make([]*genai.Part, 0, len(m.ToolCalls)+1)
			if m.Content != "" {
				parts = append(parts, &genai.Part{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				var args map[string]any
				_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					Name: tc.Function.Name,
					Args: args,
				}})
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})
		case RoleTool:
			var payload map[string]any
			if err := json.Unmarshal([]byte(m.Content), &payload); err != nil {
				payload = map[string]any{"output": m.Content}
			}
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{
				FunctionResponse: &genai.FunctionResponse{Name: m.Name, Response: payload},
			}}})
		}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}

	msg := Message{Role: RoleAssistant}
	for i, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			msg.Content += part.Text
		}
		if part.FunctionCall != nil {
			args, _ := json.Marshal(part.FunctionCall.Args)
			msg.ToolCalls = append(msg.ToolCalls, ToolCall{
				// Gemini does not assign call ids; synthesize stable ones so
				// the tool-result messages can still reference their call.
				ID:   fmt.Sprintf("call_%d_%s", i, part.FunctionCall.Name),
				Type: "function",
				Function: FunctionCall{
					Name:      part.FunctionCall.Name,
					Arguments: string(args),
				},
			})
		}
	}

	out := &ChatResponse{Choices: []Choice{{Message: msg}}}
	if resp.UsageMetadata != nil {
		out.Usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return out, nil
}

func toDeclarations(tools []Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			Parameters:  toSchema(t.Function.Parameters),
		})
	}
	return decls
}

// toSchema converts the JSON-schema parameter maps used by the tool catalog
// into genai schemas. Only the vocabulary the catalog uses is supported:
// object/array/string/number plus enum and description.
func toSchema(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}
	s := &genai.Schema{}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	switch m["type"] {
	case "object":
		s.Type = genai.TypeObject
		if props, ok := m["properties"].(map[string]any); ok {
			s.Properties = map[string]*genai.Schema{}
			for name, raw := range props {
				if pm, ok := raw.(map[string]any); ok {
					s.Properties[name] = toSchema(pm)
				}
			}
		}
	case "array":
		s.Type = genai.TypeArray
		if items, ok := m["items"].(map[string]any); ok {
			s.Items = toSchema(items)
		}
	case "string":
		s.Type = genai.TypeString
		if enum, ok := m["enum"].([]string); ok {
			s.Enum = enum
		}
	case "number":
		s.Type = genai.TypeNumber
	}
	return s
}
