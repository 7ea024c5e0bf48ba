package orchestrator

import (
	"time"

	"github.com/calyptra/squadrun/internal/budget"
	"github.com/calyptra/squadrun/internal/core"
)

type RoundStatus string

const (
	RoundPending   RoundStatus = "pending"
	RoundRunning   RoundStatus = "running"
	RoundSucceeded RoundStatus = "succeeded"
	RoundFailed    RoundStatus = "failed"
)

// Round tracks one development episode through its state machine:
// pending -> running -> succeeded or failed. A round is terminal once it
// leaves running; later transitions are ignored.
type Round struct {
	Number     int
	Prompt     string
	Transcript core.Transcript
	StartedAt  time.Time
	EndedAt    time.Time
	Status     RoundStatus
}

func newRound(number int) *Round {
	return &Round{Number: number, Status: RoundPending}
}

func (r *Round) start(prompt string) {
	if r.Status != RoundPending {
		return
	}
	r.Prompt = prompt
	r.StartedAt = time.Now().UTC()
	r.Status = RoundRunning
}

func (r *Round) succeed(transcript core.Transcript) {
	if r.Status != RoundRunning {
		return
	}
	r.Transcript = transcript
	r.EndedAt = time.Now().UTC()
	r.Status = RoundSucceeded
}

func (r *Round) fail() {
	if r.Status != RoundRunning {
		return
	}
	r.EndedAt = time.Now().UTC()
	r.Status = RoundFailed
}

// RoundResult is what RunRound reports back to the driver.
type RoundResult struct {
	Round            int
	Status           RoundStatus
	Messages         int
	ContextStats     budget.Stats
	ReflectionRan    bool
	ReflectionFailed bool
	Duration         time.Duration
}
