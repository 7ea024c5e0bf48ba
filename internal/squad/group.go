package squad

import (
	"context"

	"github.com/calyptra/squadrun/internal/core"
	"github.com/calyptra/squadrun/internal/telemetry"
)

// Group runs one task across the squad and returns the resulting transcript.
type Group interface {
	RunTask(ctx context.Context, prompt string) (core.Transcript, error)
}

// RoundRobinGroup gives every agent exactly one turn per task, in roster
// order. Each agent sees the task prompt plus the turns taken before it.
type RoundRobinGroup struct {
	agents  []Agent
	emitter telemetry.Emitter
}

func NewRoundRobinGroup(agents []Agent, emitter telemetry.Emitter) *RoundRobinGroup {
	if emitter == nil {
		emitter = telemetry.Nop{}
	}

	return &RoundRobinGroup{agents: agents, emitter: emitter}
}

func (g *RoundRobinGroup) RunTask(ctx context.Context, prompt string) (core.Transcript, error) {
	task := core.Message{Sender: "task", Role: core.RoleUser, Content: prompt}

	conversation := []core.Message{task}
	var transcript core.Transcript

	for _, agent := range g.agents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		g.emitter.Emit(telemetry.ActionStarted(agent.Name(), "taking a turn as "+agent.RoleType()))

		turn, err := agent.ProduceTurn(ctx, conversation)
		if err != nil {
			return nil, err
		}

		conversation = append(conversation, turn)
		transcript = append(transcript, turn)

		g.emitter.Emit(telemetry.ActionCompleted(agent.Name(), firstLine(turn.Content)))
	}

	return transcript, nil
}

func firstLine(content string) string {
	for i, r := range content {
		if r == '\n' {
			return content[:i]
		}
		if i > 80 {
			return content[:i] + "..."
		}
	}
	return content
}
