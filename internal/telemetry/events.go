// Package telemetry carries squad activity events from the orchestrator to
// whoever wants to watch. Emission is fire-and-forget: a slow or failing
// consumer never affects a running session.
package telemetry

import "time"

type EventType string

const (
	EventActionStarted   EventType = "action-started"
	EventActionCompleted EventType = "action-completed"
	EventFileOperation   EventType = "file-operation"
	EventRoundBoundary   EventType = "round-boundary"
	EventTokenUsage      EventType = "token-usage-update"
)

type Event struct {
	Type          EventType `json:"type"`
	Time          time.Time `json:"time"`
	AgentID       string    `json:"agent_id,omitempty"`
	Description   string    `json:"description,omitempty"`
	Result        string    `json:"result,omitempty"`
	OperationKind string    `json:"operation_kind,omitempty"`
	Path          string    `json:"path,omitempty"`
	Round         int       `json:"round,omitempty"`
	TotalRounds   int       `json:"total_rounds,omitempty"`
	TokensUsed    int       `json:"tokens_used,omitempty"`
	EstimatedCost float64   `json:"estimated_cost,omitempty"`
}

func ActionStarted(agentID, description string) Event {
	return Event{Type: EventActionStarted, Time: time.Now().UTC(), AgentID: agentID, Description: description}
}

func ActionCompleted(agentID, result string) Event {
	return Event{Type: EventActionCompleted, Time: time.Now().UTC(), AgentID: agentID, Result: result}
}

func FileOperation(agentID, kind, path string) Event {
	return Event{Type: EventFileOperation, Time: time.Now().UTC(), AgentID: agentID, OperationKind: kind, Path: path}
}

func RoundBoundary(round, total int) Event {
	return Event{Type: EventRoundBoundary, Time: time.Now().UTC(), Round: round, TotalRounds: total}
}

func TokenUsage(tokensUsed int, estimatedCost float64) Event {
	return Event{Type: EventTokenUsage, Time: time.Now().UTC(), TokensUsed: tokensUsed, EstimatedCost: estimatedCost}
}
