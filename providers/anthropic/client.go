// Package anthropic implements the Anthropic messages wire protocol.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/quillcms/quill/core"
)

const (
	// DefaultBaseURL is the Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultVersion is the anthropic-version protocol string sent with
	// every request.
	DefaultVersion = "2023-06-01"

	// messagesPath is the API endpoint for messages.
	messagesPath = "/v1/messages"

	// defaultMaxTokens applies when the ProviderConfig leaves MaxTokens
	// zero; the messages API requires the field.
	defaultMaxTokens = 4096
)

// Config holds provider-level settings beyond the per-invocation
// ProviderConfig snapshot.
type Config struct {
	Version    string
	HTTPClient *http.Client
	Headers    http.Header
}

// Anthropic sends tool-constrained requests over the messages API.
type Anthropic struct {
	cfg    core.ProviderConfig
	config Config
}

// Option configures the Anthropic provider.
type Option func(*Anthropic)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Anthropic) {
		if c != nil {
			p.config.HTTPClient = c
		}
	}
}

// WithVersion overrides the anthropic-version header value.
func WithVersion(v string) Option {
	return func(p *Anthropic) {
		if v != "" {
			p.config.Version = v
		}
	}
}

// WithHeader adds a custom header to every request.
func WithHeader(key, value string) Option {
	return func(p *Anthropic) {
		p.config.Headers.Set(key, value)
	}
}

// New creates an Anthropic provider for the given configuration.
func New(cfg core.ProviderConfig, opts ...Option) *Anthropic {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	p := &Anthropic{
		cfg: cfg,
		config: Config{
			Version:    DefaultVersion,
			HTTPClient: &http.Client{Timeout: 60 * time.Second},
			Headers:    http.Header{},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the provider identifier.
func (p *Anthropic) ID() string {
	return "anthropic"
}

// buildHeaders constructs headers for messages API requests.
func (p *Anthropic) buildHeaders() http.Header {
	headers := http.Header{}
	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}
	headers.Set("x-api-key", p.cfg.APIKey)
	headers.Set("anthropic-version", p.config.Version)
	headers.Set("Content-Type", "application/json")
	return headers
}

// wireMessage is a conversation turn in messages API form.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// wireTool is a tool declaration in messages API form.
type wireTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// messagesRequest is the request body for the messages API.
type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []wireMessage `json:"messages"`
	Tools     []wireTool    `json:"tools"`
}

// buildRequest maps an AttemptRequest to the messages API body. The
// messages API rejects role "system" entries, so system turns are folded
// into the top-level system field.
func (p *Anthropic) buildRequest(req *core.AttemptRequest) messagesRequest {
	maxTokens := p.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	out := messagesRequest{
		Model:     p.cfg.ModelID,
		MaxTokens: maxTokens,
		Tools: []wireTool{{
			Name:        req.Tool.Name,
			Description: req.Tool.Description,
			InputSchema: req.Tool.InputSchema,
		}},
	}
	for _, m := range req.Messages {
		if m.Role == core.RoleSystem {
			if out.System != "" {
				out.System += "\n\n"
			}
			out.System += m.Content
			continue
		}
		out.Messages = append(out.Messages, wireMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// Send issues exactly one POST to the messages API and returns the
// decoded JSON body for 2xx responses.
func (p *Anthropic) Send(ctx context.Context, req *core.AttemptRequest) (json.RawMessage, error) {
	body, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return nil, newDecodeError(err)
	}

	url := p.cfg.BaseURL + messagesPath
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
