// Package core provides the Quill structured-AI-invocation client and types.
//
// The core asks a generative-AI provider to call a single declared tool and
// returns the tool's decoded arguments to the caller. Provider wire formats,
// retry behavior, and error classification are handled here; callers only
// see a StructuredResult or an InvocationFailure.
package core

import (
	"context"
	"encoding/json"
)

// ProviderKind identifies a provider wire protocol.
type ProviderKind string

const (
	// KindAnthropic speaks the Anthropic messages API (tool_use blocks).
	KindAnthropic ProviderKind = "anthropic"
	// KindOpenAI speaks the OpenAI chat-completions API (tool_calls).
	KindOpenAI ProviderKind = "openai"
)

// String returns the string representation of the ProviderKind.
func (k ProviderKind) String() string {
	return string(k)
}

// ProviderConfig identifies which backend to talk to and how.
// It is resolved once by the caller and treated as a read-only snapshot
// for the duration of an invocation.
type ProviderConfig struct {
	Kind    ProviderKind
	BaseURL string
	ModelID string
	APIKey  string

	// MaxTokens caps the provider response size. Zero means the
	// provider default (4096 for the Anthropic messages API, which
	// requires the field).
	MaxTokens int
}

// Role represents a message participant role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ToolDeclaration describes the single tool the model is asked to call.
// InputSchema is a JSON-schema-like object describing the expected
// argument shape; it is sent to the provider as-is.
type ToolDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// StructuredResult is the decoded argument mapping produced by a
// successful tool invocation. It is the sole successful output of the
// core.
type StructuredResult map[string]any

// AttemptRequest is the conversation state handed to a Transport for one
// HTTP attempt. Messages grow across retries when the model fails to
// call the tool; each invocation owns its own copy.
type AttemptRequest struct {
	Messages []Message
	Tool     ToolDeclaration
}

// ToolReply is the parsed content of one provider response.
// Args is nil unless the expected tool was invoked. Text carries
// whatever free text the provider returned, used to echo the
// assistant's turn back when nudging a retry.
type ToolReply struct {
	Args StructuredResult
	Text string
}

// Transport translates one AttemptRequest into exactly one outbound HTTP
// POST and returns the decoded response body. Non-2xx statuses and
// network-level faults are returned as *ProviderError; the transport
// never interprets error semantics beyond classifying them.
type Transport interface {
	Send(ctx context.Context, req *AttemptRequest) (json.RawMessage, error)
}

// ResponseParser extracts the structured result from a raw provider
// response. A response without the expected tool call returns
// ErrToolNotInvoked together with a ToolReply carrying any assistant
// text; a response whose envelope shape is wrong returns
// ErrMalformedResponse.
type ResponseParser interface {
	Extract(raw json.RawMessage, expectedTool string) (*ToolReply, error)
}

// Provider couples a Transport and ResponseParser for one wire protocol.
// A Provider is selected once per client by ProviderKind; the core never
// branches on the kind again after selection.
type Provider interface {
	// ID returns the provider identifier (e.g., "anthropic", "openai").
	ID() string

	Transport
	ResponseParser
}
