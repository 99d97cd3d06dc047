// Package openai adapts the OpenAI chat-completions endpoint to the
// providers.Provider interface.
//
// Requests go to {BaseURL}/chat/completions with a Bearer API key. When
// CompletionRequest.Temperature is nil the field is omitted from the body
// and the API default applies.
package openai
