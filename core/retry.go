package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// outcomeKind classifies the result of one attempt.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeRetryMiss
	outcomeRetryOverload
	outcomeFatal
)

// label returns the observer-facing name of the outcome.
func (k outcomeKind) label() string {
	switch k {
	case outcomeSuccess:
		return "success"
	case outcomeRetryMiss:
		return "tool_miss"
	case outcomeRetryOverload:
		return "overloaded"
	default:
		return "fatal"
	}
}

// attemptOutcome is the tagged result of a single send+extract attempt.
// Exactly one of result or err is meaningful; text carries assistant
// free text on a tool miss so the retry nudge can echo it.
type attemptOutcome struct {
	kind   outcomeKind
	result StructuredResult
	text   string
	err    error
}

// attemptOnce performs one full attempt: send the conversation, extract
// the tool call. It never retries or sleeps; classification of the
// outcome is its whole job.
func attemptOnce(ctx context.Context, p Provider, req *AttemptRequest, expectedTool string) attemptOutcome {
	raw, err := p.Send(ctx, req)
	if err != nil {
		if errors.Is(err, ErrOverloaded) {
			return attemptOutcome{kind: outcomeRetryOverload, err: err}
		}
		return attemptOutcome{kind: outcomeFatal, err: err}
	}

	reply, err := p.Extract(raw, expectedTool)
	if err != nil {
		if errors.Is(err, ErrToolNotInvoked) {
			out := attemptOutcome{kind: outcomeRetryMiss, err: err}
			if reply != nil {
				out.text = reply.Text
			}
			return out
		}
		return attemptOutcome{kind: outcomeFatal, err: err}
	}
	return attemptOutcome{kind: outcomeSuccess, result: reply.Args, text: reply.Text}
}

// nudgeMessages builds the two conversation turns appended after a tool
// miss: the assistant's own text, then a user request to call the tool.
func nudgeMessages(assistantText, tool string) []Message {
	if assistantText == "" {
		assistantText = "(no tool call was produced)"
	}
	return []Message{
		{Role: RoleAssistant, Content: assistantText},
		{Role: RoleUser, Content: fmt.Sprintf("Please respond by calling the %q tool with the requested arguments.", tool)},
	}
}

// invocation is the per-call mutable state owned by one run of the retry
// loop. It shares nothing with concurrent invocations.
type invocation struct {
	id           string
	messages     []Message
	tool         ToolDeclaration
	expectedTool string
	maxRetries   int
	backoff      time.Duration
}

// run drives the retry loop to completion. The loop is purely
// mechanical: attemptOnce decides what happened, run decides whether the
// retry budget allows another attempt and which remedy applies.
func (c *Client) run(ctx context.Context, inv *invocation) (StructuredResult, error) {
	start := time.Now()
	var lastErr error

	for attempt := 0; ; attempt++ {
		attemptStart := time.Now()
		req := &AttemptRequest{Messages: inv.messages, Tool: inv.tool}
		out := attemptOnce(ctx, c.provider, req, inv.expectedTool)

		ev := AttemptEvent{
			InvocationID: inv.id,
			Provider:     c.provider.ID(),
			Tool:         inv.expectedTool,
			Attempt:      attempt + 1,
			Outcome:      out.kind.label(),
			Duration:     time.Since(attemptStart),
			Err:          out.err,
		}

		switch out.kind {
		case outcomeSuccess:
			c.observer.OnAttempt(ev)
			c.done(inv, attempt+1, start, nil)
			return out.result, nil

		case outcomeRetryMiss:
			lastErr = out.err
			c.observer.OnAttempt(ev)
			if attempt >= inv.maxRetries {
				err := c.exhausted(inv, attempt+1, start, lastErr)
				return nil, err
			}
			inv.messages = append(inv.messages, nudgeMessages(out.text, inv.expectedTool)...)

		case outcomeRetryOverload:
			lastErr = out.err
			if attempt >= inv.maxRetries {
				c.observer.OnAttempt(ev)
				err := c.exhausted(inv, attempt+1, start, lastErr)
				return nil, err
			}
			delay := inv.backoff << attempt
			ev.Delay = delay
			c.observer.OnAttempt(ev)
			if err := c.sleep(ctx, delay); err != nil {
				f := failure(ReasonTransport, attempt+1, err)
				c.done(inv, attempt+1, start, f)
				return nil, f
			}

		default: // outcomeFatal
			c.observer.OnAttempt(ev)
			f := failure(reasonFor(out.err), attempt+1, out.err)
			c.done(inv, attempt+1, start, f)
			return nil, f
		}
	}
}

// exhausted builds the terminal failure once the retry budget is spent.
func (c *Client) exhausted(inv *invocation, attempts int, start time.Time, lastErr error) error {
	f := failure(ReasonExhausted, attempts, fmt.Errorf("%w: last error: %w", ErrExhausted, lastErr))
	c.done(inv, attempts, start, f)
	return f
}

// done emits the completion event.
func (c *Client) done(inv *invocation, attempts int, start time.Time, err error) {
	c.observer.OnDone(DoneEvent{
		InvocationID: inv.id,
		Provider:     c.provider.ID(),
		Tool:         inv.expectedTool,
		Attempts:     attempts,
		Duration:     time.Since(start),
		Err:          err,
	})
}

// sleepContext blocks for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
