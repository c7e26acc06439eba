package ai

import "context"

// Provider identifies a configured chat backend.
type Provider interface {
	Name() ProviderName

	// Model returns the model or deployment requests are sent to.
	Model() string
}

// ChatProvider extends Provider with chat completion.
type ChatProvider interface {
	Provider

	// Chat sends the conversation and returns the model's reply.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
