package llmpulse

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Usage carries token accounting extracted from an LLM response.
type Usage struct {
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// UsageReporter is implemented by call results that can report their
// own model and token usage. Track uses it to enrich the event.
type UsageReporter interface {
	ReportUsage() Usage
}

// Track wraps one LLM call: it measures elapsed time on every exit
// path, reports the outcome to the service, and returns the call's
// own result and error unchanged. Reporting is best effort; a failed
// submission is logged and swallowed, never surfaced to the caller.
//
// When the result implements UsageReporter, its token counts (and
// model, when non-empty) are attached to the event.
func Track[T any](
	ctx context.Context, c *Client, model string,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	start := time.Now()
	result, err := fn(ctx)
	latencyMs := int(time.Since(start).Milliseconds())

	evt := Event{
		Timestamp: start.UTC(),
		Model:     model,
		LatencyMs: &latencyMs,
		Status:    StatusSuccess,
	}
	if err != nil {
		evt.Status = StatusError
		evt.ErrorMessage = err.Error()
	} else if reporter, ok := any(result).(UsageReporter); ok {
		usage := reporter.ReportUsage()
		if usage.Model != "" {
			evt.Model = usage.Model
		}
		evt.PromptTokens = &usage.PromptTokens
		evt.CompletionTokens = &usage.CompletionTokens
		evt.TotalTokens = &usage.TotalTokens
	}

	c.submit(ctx, evt)
	return result, err
}

// submit reports an event without failing the tracked call.
func (c *Client) submit(ctx context.Context, evt Event) {
	if _, err := c.LogEvent(ctx, evt); err != nil {
		c.obs.warn("event submission failed",
			"model", evt.Model,
			"error", err,
		)
	}
}

// ChatCompletionUsage adapts an OpenAI chat completion response to the
// UsageReporter interface.
type ChatCompletionUsage struct {
	openai.ChatCompletionResponse
}

// ReportUsage extracts model and token counts from the response.
func (r ChatCompletionUsage) ReportUsage() Usage {
	return Usage{
		Model:            r.Model,
		PromptTokens:     r.Usage.PromptTokens,
		CompletionTokens: r.Usage.CompletionTokens,
		TotalTokens:      r.Usage.TotalTokens,
	}
}

// TrackChatCompletion tracks an OpenAI chat completion call.
func TrackChatCompletion(
	ctx context.Context, c *Client, model string,
	fn func(ctx context.Context) (openai.ChatCompletionResponse, error),
) (openai.ChatCompletionResponse, error) {
	wrapped, err := Track(ctx, c, model,
		func(ctx context.Context) (ChatCompletionUsage, error) {
			resp, err := fn(ctx)
			if err != nil {
				return ChatCompletionUsage{}, err
			}
			return ChatCompletionUsage{ChatCompletionResponse: resp}, nil
		})
	return wrapped.ChatCompletionResponse, err
}
