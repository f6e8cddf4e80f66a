package provider

import (
	"context"
	"errors"

	"github.com/xinyuew3S2024/NewsByMood/config"
	"github.com/xinyuew3S2024/NewsByMood/models"
	openai_provider "github.com/xinyuew3S2024/NewsByMood/provider/openai"
	"github.com/xinyuew3S2024/NewsByMood/session/session_models"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
)

// Provider is the reasoning-capability boundary: given a message history and a
// declared tool, it decides whether the tool is warranted and composes replies.
type Provider interface {
	Decide(ctx context.Context, history []session_models.Message, tool models.ToolSchema) (models.Decision, error)
	Compose(ctx context.Context, history []session_models.Message, tool models.ToolSchema, toolOutput string) (string, error)
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Provider) {
	case OpenAI:
		return openai_provider.NewOpenAIClient(cfg), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
