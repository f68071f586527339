package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Defaults for the retry budget.
const (
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = time.Second
)

// Validation errors returned (wrapped in InvocationFailure) before any
// network activity.
var (
	ErrToolRequired   = errors.New("tool declaration with a name is required")
	ErrPromptRequired = errors.New("prompt is required")
)

// Client is the single entry point for structured AI invocations.
// A Client snapshots its ProviderConfig at construction and shares no
// mutable state between invocations; it is safe for concurrent use.
type Client struct {
	cfg      ProviderConfig
	provider Provider
	observer Observer
	sleep    func(ctx context.Context, d time.Duration) error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a Client for the given provider configuration and
// wire-protocol implementation.
func NewClient(cfg ProviderConfig, p Provider, opts ...ClientOption) *Client {
	c := &Client{
		cfg:      cfg,
		provider: p,
		observer: NoopObserver{},
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithObserver sets the observer receiving attempt and completion
// events.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithSleep replaces the backoff sleep function. Tests use this to
// record requested delays instead of waiting.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) ClientOption {
	return func(c *Client) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// Invoke returns an InvokeBuilder for one structured invocation of the
// given tool.
func (c *Client) Invoke(tool ToolDeclaration) *InvokeBuilder {
	return &InvokeBuilder{
		client:       c,
		tool:         tool,
		expectedTool: tool.Name,
		maxRetries:   DefaultMaxRetries,
		backoff:      DefaultInitialBackoff,
	}
}

// InvokeBuilder accumulates the parameters of one invocation.
// InvokeBuilder is NOT thread-safe and should not be shared across
// goroutines.
type InvokeBuilder struct {
	client       *Client
	tool         ToolDeclaration
	system       string
	prompt       string
	expectedTool string
	maxRetries   int
	backoff      time.Duration
}

// System sets an optional system preamble.
func (b *InvokeBuilder) System(s string) *InvokeBuilder {
	b.system = s
	return b
}

// Prompt sets the user prompt.
func (b *InvokeBuilder) Prompt(s string) *InvokeBuilder {
	b.prompt = s
	return b
}

// ExpectTool overrides the tool name the response must invoke.
// Defaults to the declared tool's name.
func (b *InvokeBuilder) ExpectTool(name string) *InvokeBuilder {
	b.expectedTool = name
	return b
}

// MaxRetries sets the retry budget. Negative values are clamped to 0.
func (b *InvokeBuilder) MaxRetries(n int) *InvokeBuilder {
	if n < 0 {
		n = 0
	}
	b.maxRetries = n
	return b
}

// InitialBackoff sets the delay before the first overload retry; each
// further overload retry doubles it.
func (b *InvokeBuilder) InitialBackoff(d time.Duration) *InvokeBuilder {
	if d > 0 {
		b.backoff = d
	}
	return b
}

// validate checks the builder's preconditions.
func (b *InvokeBuilder) validate() error {
	if b.tool.Name == "" {
		return ErrToolRequired
	}
	if b.prompt == "" {
		return ErrPromptRequired
	}
	return nil
}

// Do executes the invocation and returns exactly one StructuredResult or
// one *InvocationFailure. Missing API key is a precondition failure
// returned before any network activity.
func (b *InvokeBuilder) Do(ctx context.Context) (StructuredResult, error) {
	if err := b.validate(); err != nil {
		return nil, failure(ReasonPrecondition, 0, err)
	}
	if b.client.cfg.APIKey == "" {
		return nil, failure(ReasonPrecondition, 0, ErrNoAPIKey)
	}

	messages := make([]Message, 0, 2)
	if b.system != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: b.system})
	}
	messages = append(messages, Message{Role: RoleUser, Content: b.prompt})

	inv := &invocation{
		id:           uuid.NewString(),
		messages:     messages,
		tool:         b.tool,
		expectedTool: b.expectedTool,
		maxRetries:   b.maxRetries,
		backoff:      b.backoff,
	}
	return b.client.run(ctx, inv)
}
