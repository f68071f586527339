// Package openai implements the OpenAI chat-completions wire protocol.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/quillcms/quill/core"
)

const (
	// DefaultBaseURL is the OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"

	// completionsPath is the API endpoint for chat completions.
	completionsPath = "/chat/completions"

	// defaultSystemPrompt is prepended when the conversation carries no
	// system turn, steering the model toward the declared function.
	defaultSystemPrompt = "You are a structured data generator. Always respond by calling the provided function with arguments matching its parameter schema."
)

// Config holds provider-level settings beyond the per-invocation
// ProviderConfig snapshot.
type Config struct {
	HTTPClient *http.Client
	Headers    http.Header
	Logger     *slog.Logger
}

// OpenAI sends tool-constrained requests over the chat-completions API.
type OpenAI struct {
	cfg    core.ProviderConfig
	config Config
}

// Option configures the OpenAI provider.
type Option func(*OpenAI)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *OpenAI) {
		if c != nil {
			p.config.HTTPClient = c
		}
	}
}

// WithHeader adds a custom header to every request.
func WithHeader(key, value string) Option {
	return func(p *OpenAI) {
		p.config.Headers.Set(key, value)
	}
}

// WithLogger sets the logger used for parse diagnostics (undecodable
// tool arguments are logged distinctly from a clean tool miss).
func WithLogger(l *slog.Logger) Option {
	return func(p *OpenAI) {
		if l != nil {
			p.config.Logger = l
		}
	}
}

// New creates an OpenAI provider for the given configuration.
func New(cfg core.ProviderConfig, opts ...Option) *OpenAI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	p := &OpenAI{
		cfg: cfg,
		config: Config{
			HTTPClient: &http.Client{Timeout: 60 * time.Second},
			Headers:    http.Header{},
			Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the provider identifier.
func (p *OpenAI) ID() string {
	return "openai"
}

// buildHeaders constructs headers for chat-completions requests.
func (p *OpenAI) buildHeaders() http.Header {
	headers := http.Header{}
	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}
	headers.Set("Authorization", "Bearer "+p.cfg.APIKey)
	headers.Set("Content-Type", "application/json")
	return headers
}

// wireMessage is a conversation turn in chat-completions form.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// wireFunction is the function half of a tool declaration.
type wireFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// wireTool wraps a function declaration in the tools array form.
type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

// completionsRequest is the request body for chat completions.
type completionsRequest struct {
	Model      string        `json:"model"`
	Messages   []wireMessage `json:"messages"`
	Tools      []wireTool    `json:"tools"`
	ToolChoice string        `json:"tool_choice,omitempty"`
	MaxTokens  int           `json:"max_tokens,omitempty"`
}

// buildRequest maps an AttemptRequest to the chat-completions body,
// prepending the default system preamble when the conversation lacks
// one.
func (p *OpenAI) buildRequest(req *core.AttemptRequest) completionsRequest {
	out := completionsRequest{
		Model:      p.cfg.ModelID,
		ToolChoice: "auto",
		MaxTokens:  p.cfg.MaxTokens,
		Tools: []wireTool{{
			Type: "function",
			Function: wireFunction{
				Name:        req.Tool.Name,
				Description: req.Tool.Description,
				Parameters:  req.Tool.InputSchema,
			},
		}},
	}

	hasSystem := len(req.Messages) > 0 && req.Messages[0].Role == core.RoleSystem
	if !hasSystem {
		out.Messages = append(out.Messages, wireMessage{Role: string(core.RoleSystem), Content: defaultSystemPrompt})
	}
	for _, m := range req.Messages {
		out.Messages = append(out.Messages, wireMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// Send issues exactly one POST to the chat-completions API and returns
// the decoded JSON body for 2xx responses.
func (p *OpenAI) Send(ctx context.Context, req *core.AttemptRequest) (json.RawMessage, error) {
	body, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return nil, newDecodeError(err)
	}

	url := p.cfg.BaseURL + completionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newNetworkError(err)
	}
	httpReq.Header = p.buildHeaders()

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, normalizeError(resp.StatusCode, respBody)
	}
	return respBody, nil
}
