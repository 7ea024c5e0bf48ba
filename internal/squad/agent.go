// Package squad assembles the fixed agent roster and runs one multi-agent
// task over it. The orchestrator above only sees the Group interface; the
// retry envelope lives there, not here.
package squad

import (
	"context"
	"fmt"

	"github.com/calyptra/squadrun/internal/core"
	"github.com/calyptra/squadrun/internal/providers"
)

// Agent produces one conversation turn from the context it is shown. All
// roster roles implement this one capability; nothing upstream branches on
// the concrete role.
type Agent interface {
	Name() string
	RoleType() string
	ProduceTurn(ctx context.Context, conversation []core.Message) (core.Message, error)
}

// UsageRecorder receives the upstream usage of each completion call.
// *budget.UsageTracker satisfies it.
type UsageRecorder interface {
	Record(usage *core.Usage)
}

// LLMAgent is a role-tagged agent backed by an LLM provider.
type LLMAgent struct {
	name         string
	roleType     string
	systemPrompt string
	provider     providers.Provider
	model        string
	sampling     *core.SamplingConfig
	usage        UsageRecorder
}

func (a *LLMAgent) Name() string {
	return a.name
}

func (a *LLMAgent) RoleType() string {
	return a.roleType
}

func (a *LLMAgent) ProduceTurn(ctx context.Context, conversation []core.Message) (core.Message, error) {
	messages := make([]core.Message, 0, len(conversation)+1)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: a.systemPrompt})
	messages = append(messages, conversation...)

	response, err := a.provider.GenerateChat(ctx, messages, a.sampling, a.model)
	if err != nil {
		return core.Message{}, fmt.Errorf("agent %s: %w", a.name, err)
	}

	if a.usage != nil {
		a.usage.Record(response.Usage)
	}

	tokens := 0
	if response.Usage != nil {
		tokens = response.Usage.CompletionTokens
	}
	if tokens == 0 {
		tokens, _ = a.provider.CountTokens(response.Content)
	}

	return core.Message{
		Sender:  a.name,
		Role:    core.RoleAssistant,
		Content: response.Content,
		Tokens:  tokens,
	}, nil
}
