package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicChat(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		w.Write([]byte(`{
			"content": [
				{"type": "text", "text": "working on it"},
				{"type": "tool_use", "id": "tu_1", "name": "shell", "input": {"command": "ls"}}
			],
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 120, "output_tokens": 40}
		}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("sk-test", srv.URL)
	resp, err := p.Chat(context.Background(), &ChatRequest{
		System:    "you are an agent",
		Messages:  []Message{{Role: "user", Content: "do the task"}},
		Tools:     []ToolDefinition{{Name: "shell", Description: "run a command", Parameters: map[string]any{"type": "object"}}},
		Model:     "claude-sonnet-4-20250514",
		MaxTokens: 1024,
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.Content != "working on it" {
		t.Fatalf("content = %q", resp.Content)
	}
	if len(resp.ToolCalls) != 1 || resp.ToolCalls[0].Name != "shell" {
		t.Fatalf("tool calls = %+v", resp.ToolCalls)
	}
	if resp.ToolCalls[0].Arguments["command"] != "ls" {
		t.Fatalf("arguments = %+v", resp.ToolCalls[0].Arguments)
	}
	if resp.Usage.InputTokens != 120 || resp.Usage.OutputTokens != 40 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
	if captured["system"] != "you are an agent" {
		t.Fatalf("system field = %v", captured["system"])
	}
	tools, ok := captured["tools"].([]any)
	if !ok || len(tools) != 1 {
		t.Fatalf("tools = %v", captured["tools"])
	}
	if _, ok := tools[0].(map[string]any)["input_schema"]; !ok {
		t.Fatal("tool definition missing input_schema")
	}
}

func TestAnthropicChatToolResultRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		msgs := body["messages"].([]any)
		last := msgs[len(msgs)-1].(map[string]any)
		blocks, ok := last["content"].([]any)
		if !ok {
			t.Errorf("tool result message content = %v", last["content"])
		} else if blocks[0].(map[string]any)["type"] != "tool_result" {
			t.Errorf("block type = %v", blocks[0])
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"done"}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("sk-test", srv.URL)
	_, err := p.Chat(context.Background(), &ChatRequest{
		Messages: []Message{
			{Role: "user", Content: "run ls"},
			{Role: "assistant", ToolCalls: []ToolCall{{ID: "tu_1", Name: "shell", Arguments: map[string]any{"command": "ls"}}}},
			{Role: "tool", Content: `{"success":true,"result":"main.go"}`, ToolCallID: "tu_1"},
		},
		Model:     "claude-sonnet-4-20250514",
		MaxTokens: 1024,
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
}

func TestAnthropicChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("bad", srv.URL)
	_, err := p.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
		Model:    "claude-sonnet-4-20250514",
	})
	if err == nil {
		t.Fatal("expected API error")
	}
}

func TestOpenAIChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{
			"choices": [{
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "web_search", "arguments": "{\"query\":\"golang\"}"}}]
				},
				"finish_reason": "tool_calls"
			}],
			"usage": {"prompt_tokens": 80, "completion_tokens": 20}
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL)
	resp, err := p.Chat(context.Background(), &ChatRequest{
		System:   "you are an agent",
		Messages: []Message{{Role: "user", Content: "search"}},
		Tools:    []ToolDefinition{{Name: "web_search", Parameters: map[string]any{"type": "object"}}},
		Model:    "gpt-4o",
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if len(resp.ToolCalls) != 1 || resp.ToolCalls[0].Arguments["query"] != "golang" {
		t.Fatalf("tool calls = %+v", resp.ToolCalls)
	}
	if resp.Usage.InputTokens != 80 || resp.Usage.OutputTokens != 20 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
}

func TestOpenAIListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"id":"gpt-4o"},{"id":"gpt-4o-mini"}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL)
	models, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	if len(models) != 2 || models[0] != "gpt-4o" {
		t.Fatalf("models = %v", models)
	}
}

func TestAnthropicListModelsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("bad", srv.URL)
	if _, err := p.ListModels(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
