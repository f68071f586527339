package anthropic

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/quillcms/quill/core"
)

func TestExtractToolUse(t *testing.T) {
	raw := json.RawMessage(`{
		"content": [
			{"type": "text", "text": "Here is my suggestion."},
			{"type": "tool_use", "id": "toolu_1", "name": "suggest_content_type", "input": {"name": "article", "fields": [{"name": "title"}]}}
		]
	}`)

	p := testProvider("http://localhost")
	reply, err := p.Extract(raw, "suggest_content_type")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := core.StructuredResult{
		"name":   "article",
		"fields": []any{map[string]any{"name": "title"}},
	}
	if !reflect.DeepEqual(reply.Args, want) {
		t.Errorf("Args = %v, want %v", reply.Args, want)
	}
	if reply.Text != "Here is my suggestion." {
		t.Errorf("Text = %q, want the text block", reply.Text)
	}
}

func TestExtractFirstToolUseWins(t *testing.T) {
	raw := json.RawMessage(`{
		"content": [
			{"type": "tool_use", "name": "a", "input": {"n": 1}},
			{"type": "tool_use", "name": "b", "input": {"n": 2}}
		]
	}`)

	p := testProvider("http://localhost")
	reply, err := p.Extract(raw, "b")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if reply.Args["n"] != float64(1) {
		t.Errorf("Args = %v, want input of the first tool_use block", reply.Args)
	}
}

func TestExtractEmptyInputSkipped(t *testing.T) {
	raw := json.RawMessage(`{
		"content": [
			{"type": "tool_use", "name": "suggest_content_type", "input": {}},
			{"type": "text", "text": "sorry"}
		]
	}`)

	p := testProvider("http://localhost")
	reply, err := p.Extract(raw, "suggest_content_type")
	if !errors.Is(err, core.ErrToolNotInvoked) {
		t.Fatalf("err = %v, want ErrToolNotInvoked", err)
	}
	if reply == nil || reply.Text != "sorry" {
		t.Errorf("reply = %+v, want text preserved for the nudge", reply)
	}
}

func TestExtractTextOnlyIsMiss(t *testing.T) {
	raw := json.RawMessage(`{"content":[{"type":"text","text":"I cannot do that."}]}`)

	p := testProvider("http://localhost")
	reply, err := p.Extract(raw, "suggest_content_type")
	if !errors.Is(err, core.ErrToolNotInvoked) {
		t.Fatalf("err = %v, want ErrToolNotInvoked", err)
	}
	if reply.Text != "I cannot do that." {
		t.Errorf("Text = %q, want assistant text", reply.Text)
	}
}

func TestExtractMissingContentIsMalformed(t *testing.T) {
	p := testProvider("http://localhost")

	if _, err := p.Extract(json.RawMessage(`{"id":"msg_1"}`), "x"); !errors.Is(err, core.ErrMalformedResponse) {
		t.Errorf("missing content: err = %v, want ErrMalformedResponse", err)
	}
	if _, err := p.Extract(json.RawMessage(`{"content":"not an array"}`), "x"); !errors.Is(err, core.ErrMalformedResponse) {
		t.Errorf("non-array content: err = %v, want ErrMalformedResponse", err)
	}
	if _, err := p.Extract(json.RawMessage(`not json`), "x"); !errors.Is(err, core.ErrMalformedResponse) {
		t.Errorf("invalid json: err = %v, want ErrMalformedResponse", err)
	}
}
