package providers_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/quillcms/quill/core"
	"github.com/quillcms/quill/providers"
	"github.com/quillcms/quill/providers/anthropic"
	"github.com/quillcms/quill/providers/openai"
)

func TestNewSelectsRegisteredKind(t *testing.T) {
	for _, kind := range []core.ProviderKind{core.KindAnthropic, core.KindOpenAI} {
		p, err := providers.New(core.ProviderConfig{Kind: kind, ModelID: "m", APIKey: "k"})
		if err != nil {
			t.Fatalf("New(%s) failed: %v", kind, err)
		}
		if p.ID() != kind.String() {
			t.Errorf("ID() = %q, want %q", p.ID(), kind)
		}
	}
}

func TestNewUnknownKind(t *testing.T) {
	_, err := providers.New(core.ProviderConfig{Kind: "mystery"})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestNewClient(t *testing.T) {
	c, err := providers.NewClient(core.ProviderConfig{Kind: core.KindOpenAI, ModelID: "m", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c == nil {
		t.Fatal("NewClient returned nil client")
	}
}

// TestProviderFormatEquivalence checks that equivalent tool invocations
// in the two wire formats parse to identical structured results.
func TestProviderFormatEquivalence(t *testing.T) {
	cfg := core.ProviderConfig{ModelID: "m", APIKey: "k", BaseURL: "http://localhost"}

	anthropicRaw := json.RawMessage(`{
		"content": [
			{"type": "text", "text": "Suggesting."},
			{"type": "tool_use", "name": "suggest_item", "input": {"id": "x", "name": "Y", "tags": ["a", "b"], "weight": 1.5}}
		]
	}`)
	openaiRaw := json.RawMessage(`{
		"choices": [{
			"message": {
				"content": "Suggesting.",
				"tool_calls": [
					{"function": {"name": "suggest_item", "arguments": "{\"id\":\"x\",\"name\":\"Y\",\"tags\":[\"a\",\"b\"],\"weight\":1.5}"}}
				]
			}
		}]
	}`)

	aReply, err := anthropic.New(cfg).Extract(anthropicRaw, "suggest_item")
	if err != nil {
		t.Fatalf("anthropic Extract failed: %v", err)
	}
	oReply, err := openai.New(cfg).Extract(openaiRaw, "suggest_item")
	if err != nil {
		t.Fatalf("openai Extract failed: %v", err)
	}

	if !reflect.DeepEqual(aReply.Args, oReply.Args) {
		t.Errorf("results differ:\nanthropic: %v\nopenai:    %v", aReply.Args, oReply.Args)
	}
	if aReply.Text != oReply.Text {
		t.Errorf("texts differ: %q vs %q", aReply.Text, oReply.Text)
	}
}
