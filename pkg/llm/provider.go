package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	TopK        int
	MaxTokens   int
	Model       string // Override default model
	Images      [][]byte
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithTopK(topK int) Option {
	return func(o *Options) {
		o.TopK = topK
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithImage attaches a binary image to the request for multimodal models.
func WithImage(image []byte) Option {
	return func(o *Options) {
		o.Images = append(o.Images, image)
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// ModelLister is implemented by backends that can report which models are
// installed locally. Used for capability availability probing.
type ModelLister interface {
	Models(ctx context.Context) ([]string, error)
}
