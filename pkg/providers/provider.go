package providers

import "context"

// Provider is the interface chat-completion adapters implement.
//
// All methods that perform I/O accept a context.Context. Implementations
// must return promptly once the context is done.
//
//	resp, err := provider.SendCompletion(ctx, &CompletionRequest{
//	    Model:    "gpt-3.5-turbo",
//	    Messages: []Message{{Role: RoleUser, Content: "Hello!"}},
//	})
type Provider interface {
	// SendCompletion sends one completion request and returns the normalized
	// response. Exactly one upstream attempt is made.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// GetName returns the provider's configured name.
	GetName() string

	// Close releases idle connections.
	Close() error
}
