// Package budget bounds the conversation context sent upstream on each round.
// Selection is deterministic: the same history and budget always produce the
// same slice.
package budget

import "github.com/calyptra/squadrun/internal/core"

const (
	// ResponseReserve is the token margin held back for the model response.
	ResponseReserve = 500

	// recentBlockSize is the number of newest messages reserved before any
	// older history is considered.
	recentBlockSize = 3

	// backfillThreshold stops older-message backfill once the selection has
	// consumed this share of the available budget.
	backfillThreshold = 0.8
)

// Stats describes what a context selection dropped and saved.
type Stats struct {
	RemovedMessages    int     `json:"removed_messages"`
	TokensSaved        int     `json:"tokens_saved"`
	CompressionRatio   float64 `json:"compression_ratio"`
	FinalTokenCount    int     `json:"final_token_count"`
	OriginalTokenCount int     `json:"original_token_count"`
}

// Manager sizes the history slice for one upstream request against a fixed
// token ceiling. It holds no mutable state and is safe to share.
type Manager struct {
	Ceiling int
}

func NewManager(ceiling int) Manager {
	return Manager{Ceiling: ceiling}
}

// ComputeBudget returns the tokens available for history after the system
// prompt and the response reserve are accounted for. The result is never
// negative; a zero result means the caller must proceed with empty context.
func (m Manager) ComputeBudget(systemPromptTokens int) int {
	available := m.Ceiling - systemPromptTokens - ResponseReserve
	if available < 0 {
		return 0
	}
	return available
}

// SelectContext picks the maximal suffix of history that fits availableTokens.
// The newest recentBlockSize messages are considered first, newest inward, so
// the oldest end of that block is dropped first when even the block does not
// fit. Remaining budget is backfilled with older messages, again newest first,
// until the budget or the backfill threshold is hit. Messages are included
// whole and relative order is preserved.
func (m Manager) SelectContext(history []core.Message, availableTokens int) ([]core.Message, Stats) {
	originalTokens := 0
	for _, msg := range history {
		originalTokens += msg.Tokens
	}

	if len(history) == 0 {
		return nil, Stats{CompressionRatio: 1.0}
	}

	blockStart := len(history) - recentBlockSize
	if blockStart < 0 {
		blockStart = 0
	}

	selected := make([]core.Message, 0, len(history))
	currentTokens := 0

	for i := len(history) - 1; i >= blockStart; i-- {
		msg := history[i]
		if currentTokens+msg.Tokens > availableTokens {
			break
		}
		selected = append([]core.Message{msg}, selected...)
		currentTokens += msg.Tokens
	}

	// Backfill older history only when the whole recent block made it in;
	// selection never reorders, so a partial block leaves no room anyway.
	wholeBlockSelected := len(selected) == len(history)-blockStart
	if wholeBlockSelected && len(selected) < len(history) &&
		float64(currentTokens) < float64(availableTokens)*backfillThreshold {
		for i := blockStart - 1; i >= 0; i-- {
			msg := history[i]
			if currentTokens+msg.Tokens > availableTokens {
				break
			}
			selected = append([]core.Message{msg}, selected...)
			currentTokens += msg.Tokens
		}
	}

	stats := Stats{
		RemovedMessages:    len(history) - len(selected),
		TokensSaved:        originalTokens - currentTokens,
		FinalTokenCount:    currentTokens,
		OriginalTokenCount: originalTokens,
		CompressionRatio:   1.0,
	}
	if originalTokens > 0 {
		stats.CompressionRatio = float64(currentTokens) / float64(originalTokens)
	}

	return selected, stats
}
