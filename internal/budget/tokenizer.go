package budget

import "github.com/calyptra/squadrun/internal/core"

// TokenCounter counts tokens for a given model. Counts must be deterministic
// within a session; cross-model agreement is not required.
type TokenCounter interface {
	Count(text string) int
}

// Estimator is the default TokenCounter: a character heuristic that matches
// what providers fall back to when no tokenizer endpoint is reachable.
type Estimator struct{}

func (Estimator) Count(text string) int {
	return len(text) / 4
}

// messageOverheadTokens covers the per-message framing the wire format adds
// around content.
const messageOverheadTokens = 4

// CountMessage counts the tokens of a full message, including framing,
// sender and role.
func CountMessage(counter TokenCounter, msg core.Message) int {
	tokens := messageOverheadTokens
	tokens += counter.Count(msg.Content)
	tokens += counter.Count(string(msg.Role))
	tokens += counter.Count(msg.Sender)
	return tokens
}
