// Package llmpulse provides a Go client for the llmpulse LLM
// observability service: event ingestion, aggregate metrics, and call
// tracking helpers.
//
// # Reporting events explicitly
//
//	client, _ := llmpulse.New(
//	    llmpulse.WithBaseURL("http://localhost:8080"),
//	    llmpulse.WithAPIKey("secret"),
//	)
//	client.LogEvent(ctx, llmpulse.Event{
//	    Timestamp: time.Now(),
//	    Model:     "gpt-4",
//	    Status:    "success",
//	})
//
// # Tracking calls
//
// Track wraps an LLM call, measures its latency, and reports the
// outcome in the background. Reporting never fails the wrapped call.
//
//	resp, err := llmpulse.TrackChatCompletion(ctx, client, func(ctx context.Context) (openai.ChatCompletionResponse, error) {
//	    return oai.CreateChatCompletion(ctx, req)
//	})
package llmpulse
