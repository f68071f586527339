package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quillcms/quill/core"
)

// messagesResponse is the subset of the messages API response the parser
// needs. Content stays raw so a missing or non-array value can be told
// apart from an empty one.
type messagesResponse struct {
	Content json.RawMessage `json:"content"`
}

// contentBlock is one element of the response content array.
type contentBlock struct {
	Type  string         `json:"type"`
	Text  string         `json:"text"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// Extract scans the response content array in order and returns the
// input of the first tool_use block with a non-empty input. A response
// without a tool_use block is a tool miss; a response without a content
// array is malformed.
func (p *Anthropic) Extract(raw json.RawMessage, expectedTool string) (*core.ToolReply, error) {
	var resp messagesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("anthropic: %v: %w", err, core.ErrMalformedResponse)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("anthropic: response has no content array: %w", core.ErrMalformedResponse)
	}

	var blocks []contentBlock
	if err := json.Unmarshal(resp.Content, &blocks); err != nil {
		return nil, fmt.Errorf("anthropic: content is not an array: %w", core.ErrMalformedResponse)
	}

	var text strings.Builder
	for _, b := range blocks {
		if b.Type == "text" {
			text.WriteString(b.Text)
		}
	}
	for _, b := range blocks {
		if b.Type == "tool_use" && len(b.Input) > 0 {
			return &core.ToolReply{Args: core.StructuredResult(b.Input), Text: text.String()}, nil
		}
	}

	reply := &core.ToolReply{Text: text.String()}
	return reply, fmt.Errorf("anthropic: no tool_use block for %q: %w", expectedTool, core.ErrToolNotInvoked)
}
