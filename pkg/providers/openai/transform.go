package openai

import (
	"errors"

	"docforge/studio/pkg/providers"
)

// errNoChoices is wrapped into a KindMalformed error.
var errNoChoices = errors.New("response contains no choices")

// Wire types for POST /chat/completions. Only the fields docforge sends or
// reads are declared.
type (
	chatRequest struct {
		Model       string        `json:"model"`
		Messages    []chatMessage `json:"messages"`
		Temperature *float64      `json:"temperature,omitempty"`
		MaxTokens   int           `json:"max_tokens,omitempty"`
	}

	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	chatResponse struct {
		ID      string `json:"id"`
		Model   string `json:"model"`
		Choices []struct {
			Message      chatMessage `json:"message"`
			FinishReason string      `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}
)

func newChatRequest(req *providers.CompletionRequest) chatRequest {
	messages := make([]chatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	return chatRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
}

// completion returns the first choice. Its content is passed through
// untouched: generated templates are whitespace-sensitive.
func (r *chatResponse) completion() (*providers.CompletionResponse, error) {
	if len(r.Choices) == 0 {
		return nil, errNoChoices
	}
	first := r.Choices[0]

	return &providers.CompletionResponse{
		ID:           r.ID,
		Model:        r.Model,
		Content:      first.Message.Content,
		FinishReason: first.FinishReason,
		Usage: providers.TokenUsage{
			PromptTokens:     r.Usage.PromptTokens,
			CompletionTokens: r.Usage.CompletionTokens,
			TotalTokens:      r.Usage.TotalTokens,
		},
	}, nil
}
