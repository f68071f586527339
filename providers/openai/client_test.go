package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quillcms/quill/core"
)

func testProvider(baseURL string, opts ...Option) *OpenAI {
	cfg := core.ProviderConfig{
		Kind:    core.KindOpenAI,
		BaseURL: baseURL,
		ModelID: "gpt-test",
		APIKey:  "test-key",
	}
	return New(cfg, opts...)
}

func attemptRequest() *core.AttemptRequest {
	return &core.AttemptRequest{
		Messages: []core.Message{
			{Role: core.RoleUser, Content: "Suggest a content type."},
		},
		Tool: core.ToolDeclaration{
			Name:        "suggest_content_type",
			Description: "Suggest a content type definition.",
			InputSchema: map[string]any{"type": "object"},
		},
	}
}

func TestBuildHeaders(t *testing.T) {
	p := testProvider("http://localhost")
	headers := p.buildHeaders()

	if headers.Get("Authorization") != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", headers.Get("Authorization"))
	}
	if headers.Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", headers.Get("Content-Type"))
	}
}

func TestSendRequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", r.Header.Get("Authorization"))
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["model"] != "gpt-test" {
			t.Errorf("model = %v, want gpt-test", body["model"])
		}
		if body["tool_choice"] != "auto" {
			t.Errorf("tool_choice = %v, want auto", body["tool_choice"])
		}

		msgs := body["messages"].([]any)
		if len(msgs) != 2 {
			t.Fatalf("messages length = %d, want 2 (preamble + user)", len(msgs))
		}
		preamble := msgs[0].(map[string]any)
		if preamble["role"] != "system" {
			t.Errorf("messages[0].role = %v, want system preamble", preamble["role"])
		}

		tools := body["tools"].([]any)
		tool := tools[0].(map[string]any)
		if tool["type"] != "function" {
			t.Errorf("tools[0].type = %v, want function", tool["type"])
		}
		fn := tool["function"].(map[string]any)
		if fn["name"] != "suggest_content_type" {
			t.Errorf("function.name = %v, want suggest_content_type", fn["name"])
		}
		if _, ok := fn["parameters"]; !ok {
			t.Error("function missing parameters")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	p := testProvider(server.URL)
	raw, err := p.Send(context.Background(), attemptRequest())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(raw) == 0 {
		t.Error("expected non-empty raw response")
	}
}

func TestSendKeepsCallerSystemTurn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		msgs := body["messages"].([]any)
		if len(msgs) != 2 {
			t.Fatalf("messages length = %d, want 2 (no extra preamble)", len(msgs))
		}
		first := msgs[0].(map[string]any)
		if first["content"] != "Custom system prompt." {
			t.Errorf("messages[0].content = %v, want caller's system turn", first["content"])
		}
		w.Write([]byte(`{"choices":[{"message":{}}]}`))
	}))
	defer server.Close()

	req := attemptRequest()
	req.Messages = append([]core.Message{{Role: core.RoleSystem, Content: "Custom system prompt."}}, req.Messages...)

	p := testProvider(server.URL)
	if _, err := p.Send(context.Background(), req); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
}

func TestSendRateLimitedIsOverloaded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit_error","code":"rate_limit_exceeded","message":"slow down"}}`))
	}))
	defer server.Close()

	p := testProvider(server.URL)
	_, err := p.Send(context.Background(), attemptRequest())
	if !errors.Is(err, core.ErrOverloaded) {
		t.Fatalf("err = %v, want ErrOverloaded", err)
	}

	var pe *core.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *core.ProviderError", err)
	}
	if pe.Code != "rate_limit_exceeded" {
		t.Errorf("Code = %q, want rate_limit_exceeded", pe.Code)
	}
}

func TestSendServiceUnavailableIsOverloaded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	_, err := p.Send(context.Background(), attemptRequest())
	if !errors.Is(err, core.ErrOverloaded) {
		t.Fatalf("err = %v, want ErrOverloaded", err)
	}
}

func TestSendBadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad tool schema"}}`))
	}))
	defer server.Close()

	p := testProvider(server.URL)
	_, err := p.Send(context.Background(), attemptRequest())
	if !errors.Is(err, core.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}
