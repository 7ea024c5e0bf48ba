package telemetry

import "sync"

// AgentActivity is the per-agent counter set rebuilt from events. It carries
// no durability obligation; a fresh session starts from zero.
type AgentActivity struct {
	ActionsStarted   int
	ActionsCompleted int
	FileOperations   int
	LastAction       string
}

// SessionProgress aggregates session activity from the event stream. It is a
// Sink; attach it to a Dispatcher.
type SessionProgress struct {
	mu            sync.Mutex
	agents        map[string]*AgentActivity
	currentRound  int
	totalRounds   int
	tokensUsed    int
	estimatedCost float64
}

func NewSessionProgress() *SessionProgress {
	return &SessionProgress{agents: map[string]*AgentActivity{}}
}

func (p *SessionProgress) HandleEvent(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch event.Type {
	case EventActionStarted:
		activity := p.activityFor(event.AgentID)
		activity.ActionsStarted++
		activity.LastAction = event.Description
	case EventActionCompleted:
		p.activityFor(event.AgentID).ActionsCompleted++
	case EventFileOperation:
		p.activityFor(event.AgentID).FileOperations++
	case EventRoundBoundary:
		p.currentRound = event.Round
		p.totalRounds = event.TotalRounds
	case EventTokenUsage:
		p.tokensUsed = event.TokensUsed
		p.estimatedCost = event.EstimatedCost
	}
}

func (p *SessionProgress) activityFor(agentID string) *AgentActivity {
	if agentID == "" {
		agentID = "unknown"
	}

	activity, ok := p.agents[agentID]
	if !ok {
		activity = &AgentActivity{}
		p.agents[agentID] = activity
	}

	return activity
}

// ProgressSnapshot is a point-in-time copy safe to render.
type ProgressSnapshot struct {
	Agents        map[string]AgentActivity
	CurrentRound  int
	TotalRounds   int
	TokensUsed    int
	EstimatedCost float64
}

func (p *SessionProgress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	agents := make(map[string]AgentActivity, len(p.agents))
	for name, activity := range p.agents {
		agents[name] = *activity
	}

	return ProgressSnapshot{
		Agents:        agents,
		CurrentRound:  p.currentRound,
		TotalRounds:   p.totalRounds,
		TokensUsed:    p.tokensUsed,
		EstimatedCost: p.estimatedCost,
	}
}
