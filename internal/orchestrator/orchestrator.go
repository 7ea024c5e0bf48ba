// Package orchestrator drives a session round by round: it sizes the
// conversation context for each round, dispatches the squad under the retry
// policy, persists round state, and runs the periodic reflection episodes.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calyptra/squadrun/internal/budget"
	"github.com/calyptra/squadrun/internal/core"
	"github.com/calyptra/squadrun/internal/recovery"
	"github.com/calyptra/squadrun/internal/squad"
	"github.com/calyptra/squadrun/internal/telemetry"
	"github.com/calyptra/squadrun/internal/workspace"
)

// Config wires the orchestrator's collaborators. Group and Project are
// required; the rest default to working zero configurations.
type Config struct {
	Group   squad.Group
	Project *workspace.Project
	Budget  budget.Manager
	Policy  recovery.Policy
	Emitter telemetry.Emitter
	Usage   *budget.UsageTracker
	Counter budget.TokenCounter

	TotalRounds         int
	ReflectionFrequency int
}

// Orchestrator owns the conversation history for one session. It is the only
// writer; ordinals are assigned here, on append, and never reused.
type Orchestrator struct {
	group   squad.Group
	project *workspace.Project
	budget  budget.Manager
	policy  recovery.Policy
	emitter telemetry.Emitter
	usage   *budget.UsageTracker
	counter budget.TokenCounter

	totalRounds         int
	reflectionFrequency int

	history         []core.Message
	nextOrdinal     int
	roundsCompleted int
}

func New(cfg Config) (*Orchestrator, error) {
	if cfg.Group == nil {
		return nil, fmt.Errorf("orchestrator needs a squad group")
	}
	if cfg.Project == nil {
		return nil, fmt.Errorf("orchestrator needs a project")
	}

	emitter := cfg.Emitter
	if emitter == nil {
		emitter = telemetry.Nop{}
	}

	counter := cfg.Counter
	if counter == nil {
		counter = budget.Estimator{}
	}

	frequency := cfg.ReflectionFrequency
	if frequency < 1 {
		frequency = 1
	}

	totalRounds := cfg.TotalRounds
	if totalRounds < 1 {
		totalRounds = 1
	}

	return &Orchestrator{
		group:               cfg.Group,
		project:             cfg.Project,
		budget:              cfg.Budget,
		policy:              cfg.Policy,
		emitter:             emitter,
		usage:               cfg.Usage,
		counter:             counter,
		totalRounds:         totalRounds,
		reflectionFrequency: frequency,
	}, nil
}

// History returns a copy of the accumulated conversation.
func (o *Orchestrator) History() core.Transcript {
	out := make(core.Transcript, len(o.history))
	copy(out, o.history)
	return out
}

// RunRound executes one development round. On success the transcript joins
// the conversation history and, when reflect is set and the round number
// lands on the reflection frequency, a reflection episode follows. Reflection
// failures are logged and absorbed; they never fail the round.
func (o *Orchestrator) RunRound(ctx context.Context, roundNumber int, reflect bool) (RoundResult, error) {
	if err := ctx.Err(); err != nil {
		return RoundResult{Round: roundNumber, Status: RoundPending}, err
	}

	round := newRound(roundNumber)
	o.emitter.Emit(telemetry.RoundBoundary(roundNumber, o.totalRounds))

	filesBefore := o.project.ListFiles()
	prompt, stats := o.composePrompt(roundNumber)
	round.start(prompt)

	transcript, err := o.dispatch(ctx, prompt)
	if err != nil {
		round.fail()
		return RoundResult{
			Round:        roundNumber,
			Status:       RoundFailed,
			ContextStats: stats,
			Duration:     round.EndedAt.Sub(round.StartedAt),
		}, fmt.Errorf("round %d: %w", roundNumber, err)
	}

	round.succeed(transcript)
	o.appendHistory(transcript)
	o.roundsCompleted++

	if err := o.project.PersistRoundState(roundNumber, transcript); err != nil {
		slog.Warn("round state not persisted", "round", roundNumber, "error", err)
	}

	o.emitFileChanges(filesBefore)
	o.emitUsage()

	result := RoundResult{
		Round:        roundNumber,
		Status:       RoundSucceeded,
		Messages:     len(transcript),
		ContextStats: stats,
		Duration:     round.EndedAt.Sub(round.StartedAt),
	}

	if reflect && roundNumber%o.reflectionFrequency == 0 {
		result.ReflectionRan = true
		if rerr := o.runReflection(ctx, roundNumber); rerr != nil {
			result.ReflectionFailed = true
			slog.Warn("reflection skipped", "round", roundNumber, "error", rerr)
		}
	}

	return result, nil
}

// composePrompt sizes the history against the ceiling and renders the round
// prompt. The budget is computed from the prompt framing without history, so
// the selection always leaves room for everything else in the prompt.
func (o *Orchestrator) composePrompt(roundNumber int) (string, budget.Stats) {
	projectCtx := o.project.Context()
	summary := o.project.Summary()

	base := buildRoundPrompt(roundNumber, o.totalRounds, projectCtx.Prompt, summary, nil, "")
	available := o.budget.ComputeBudget(o.counter.Count(base))

	selected, stats := o.budget.SelectContext(o.history, available)

	digest := ""
	if stats.RemovedMessages > 0 {
		digest = budget.Summarize(o.history)
	}

	return buildRoundPrompt(roundNumber, o.totalRounds, projectCtx.Prompt, summary, selected, digest), stats
}

func (o *Orchestrator) dispatch(ctx context.Context, prompt string) (core.Transcript, error) {
	var transcript core.Transcript

	err := o.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		transcript, err = o.group.RunTask(ctx, prompt)
		return err
	})
	if err != nil {
		return nil, err
	}

	return transcript, nil
}

func (o *Orchestrator) appendHistory(transcript core.Transcript) {
	for _, msg := range transcript {
		if msg.Tokens == 0 {
			msg.Tokens = budget.CountMessage(o.counter, msg)
		}
		msg.Ordinal = o.nextOrdinal
		o.nextOrdinal++
		o.history = append(o.history, msg)
	}
}

// runReflection dispatches one uncounted episode through the same retry
// envelope as a round. Its transcript is logged but never joins the
// conversation history.
func (o *Orchestrator) runReflection(ctx context.Context, roundNumber int) error {
	prompt := buildReflectionPrompt(roundNumber, o.project.Summary())

	transcript, err := o.dispatch(ctx, prompt)
	if err != nil {
		return err
	}

	if err := o.project.Logs().LogReflection(roundNumber, transcript); err != nil {
		slog.Warn("reflection log not persisted", "round", roundNumber, "error", err)
	}

	return nil
}

func (o *Orchestrator) emitFileChanges(before []string) {
	seen := make(map[string]bool, len(before))
	for _, file := range before {
		seen[file] = true
	}

	for _, file := range o.project.ListFiles() {
		if !seen[file] {
			o.emitter.Emit(telemetry.FileOperation("squad", "created", file))
		}
	}
}

func (o *Orchestrator) emitUsage() {
	if o.usage == nil {
		return
	}

	summary := o.usage.Summary()
	o.emitter.Emit(telemetry.TokenUsage(summary.TotalTokens, summary.EstimatedCostUSD))
}

// SessionReport is the end-of-session rollup the CLI prints.
type SessionReport struct {
	SessionID       core.SessionID      `json:"session_id"`
	RoundsCompleted int                 `json:"rounds_completed"`
	Messages        int                 `json:"messages"`
	Files           []string            `json:"files"`
	Usage           budget.UsageSummary `json:"usage"`
}

func (o *Orchestrator) FinalSummary() SessionReport {
	report := SessionReport{
		SessionID:       o.project.Logs().SessionID(),
		RoundsCompleted: o.roundsCompleted,
		Messages:        len(o.history),
		Files:           o.project.ListFiles(),
	}

	if o.usage != nil {
		report.Usage = o.usage.Summary()
	}

	return report
}
