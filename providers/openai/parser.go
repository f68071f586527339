package openai

import (
	"encoding/json"
	"fmt"

	"github.com/quillcms/quill/core"
)

// completionsResponse is the subset of the chat-completions response the
// parser needs, including the deprecated singular function_call field
// some compatible backends still emit.
type completionsResponse struct {
	Choices []struct {
		Message struct {
			Content   json.RawMessage `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
			FunctionCall *struct {
				Name      string `json:"name"`
				Arguments string `json:"arguments"`
			} `json:"function_call"`
		} `json:"message"`
	} `json:"choices"`
}

// contentText decodes a message content that may be a string, null, or
// an array of typed parts.
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parts); err == nil {
		out := ""
		for _, p := range parts {
			if p.Type == "text" {
				out += p.Text
			}
		}
		return out
	}
	return ""
}

// Extract looks for a tool call named expectedTool in
// choices[0].message.tool_calls, falling back to the deprecated
// function_call field. Undecodable arguments count as a tool miss, not a
// hard error, but are logged distinctly.
func (p *OpenAI) Extract(raw json.RawMessage, expectedTool string) (*core.ToolReply, error) {
	var resp completionsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("openai: %v: %w", err, core.ErrMalformedResponse)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response has no choices: %w", core.ErrMalformedResponse)
	}

	msg := resp.Choices[0].Message
	text := contentText(msg.Content)

	for _, tc := range msg.ToolCalls {
		if tc.Function.Name != expectedTool {
			continue
		}
		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			p.config.Logger.Warn("openai: tool call arguments are not valid JSON",
				"tool", expectedTool, "error", err.Error())
			continue
		}
		return &core.ToolReply{Args: core.StructuredResult(args), Text: text}, nil
	}

	if fc := msg.FunctionCall; fc != nil && fc.Name == expectedTool {
		var args map[string]any
		if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
			p.config.Logger.Warn("openai: function_call arguments are not valid JSON",
				"tool", expectedTool, "error", err.Error())
		} else {
			return &core.ToolReply{Args: core.StructuredResult(args), Text: text}, nil
		}
	}

	reply := &core.ToolReply{Text: text}
	return reply, fmt.Errorf("openai: no tool call named %q: %w", expectedTool, core.ErrToolNotInvoked)
}
