// Package provider abstracts chat-completion model backends. Any
// OpenAI-compatible endpoint works through OpenAIChatClient.
package provider

import "context"

type ChatPayload struct {
	System     string
	User       string
	ExpectJSON bool
}

type ModelProvider interface {
	ID() string
	Enabled() bool

	Call(ctx context.Context, payload ChatPayload) (string, error)
}
