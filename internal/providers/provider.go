package providers

import (
	"context"

	"github.com/calyptra/squadrun/internal/core"
)

// Provider generates chat completions for the squad's agents. Implementations
// must return *UpstreamError or *TransportError for upstream failures so the
// recovery policy can classify them.
type Provider interface {
	GenerateChat(ctx context.Context, messages []core.Message, sampling *core.SamplingConfig, model string) (core.ChatResponse, error)
	CountTokens(text string) (int, error)
}
