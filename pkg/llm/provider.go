package llm

import (
	"context"
)

// Option allows optional generation parameters like Temperature or MaxTokens.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Generator is the contract for any local model runtime backend.
// Complete fails with errs kinds GenerationUnavailable, Timeout, or
// GenerationMemoryExhausted so callers can distinguish retryable failures.
type Generator interface {
	Complete(ctx context.Context, prompt string, options ...Option) (string, error)
}
