// Package llm abstracts the chat-completion providers used for result
// insight summaries.
package llm

import "context"

// Provider defines the interface for LLM providers. Insight generation is
// single-turn, so a request is one prompt with an optional system prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request holds the completion parameters.
type Request struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  float64
}

// Response holds the provider's completion.
type Response struct {
	Content      string
	InputTokens  int
	OutputTokens int
}
