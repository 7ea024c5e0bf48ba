package budget

import (
	"strings"
	"sync"

	"github.com/calyptra/squadrun/internal/core"
)

type modelRates struct {
	inputPer1K  float64
	outputPer1K float64
}

var pricing = map[string]modelRates{
	"gpt-4":         {inputPer1K: 0.03, outputPer1K: 0.06},
	"gpt-4-turbo":   {inputPer1K: 0.01, outputPer1K: 0.03},
	"gpt-4o":        {inputPer1K: 0.005, outputPer1K: 0.015},
	"gpt-4o-mini":   {inputPer1K: 0.00015, outputPer1K: 0.0006},
	"gpt-3.5-turbo": {inputPer1K: 0.0015, outputPer1K: 0.002},
}

// UsageTracker accumulates token usage across a session for cost reporting.
type UsageTracker struct {
	model string

	mu               sync.Mutex
	promptTokens     int
	completionTokens int
	callsMade        int
}

func NewUsageTracker(model string) *UsageTracker {
	return &UsageTracker{model: model}
}

// Record adds one upstream call's usage. A nil usage still counts the call.
func (t *UsageTracker) Record(usage *core.Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.callsMade++
	if usage != nil {
		t.promptTokens += usage.PromptTokens
		t.completionTokens += usage.CompletionTokens
	}
}

type UsageSummary struct {
	Model             string  `json:"model"`
	TotalTokens       int     `json:"total_tokens"`
	CallsMade         int     `json:"calls_made"`
	EstimatedCostUSD  float64 `json:"estimated_cost_usd"`
	AverageTokensCall int     `json:"average_tokens_per_call"`
}

// Summary reports cumulative usage with a cost estimate from the per-model
// rate table; unknown models are billed at gpt-4 rates.
func (t *UsageTracker) Summary() UsageSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	rates := ratesFor(t.model)
	total := t.promptTokens + t.completionTokens

	cost := float64(t.promptTokens)*rates.inputPer1K/1000 +
		float64(t.completionTokens)*rates.outputPer1K/1000

	average := 0
	if t.callsMade > 0 {
		average = total / t.callsMade
	}

	return UsageSummary{
		Model:             t.model,
		TotalTokens:       total,
		CallsMade:         t.callsMade,
		EstimatedCostUSD:  cost,
		AverageTokensCall: average,
	}
}

func ratesFor(model string) modelRates {
	key := strings.ToLower(model)

	switch {
	case strings.Contains(key, "gpt-4o-mini"):
		return pricing["gpt-4o-mini"]
	case strings.Contains(key, "gpt-4o"):
		return pricing["gpt-4o"]
	case strings.Contains(key, "gpt-4-turbo"):
		return pricing["gpt-4-turbo"]
	case strings.Contains(key, "gpt-4"):
		return pricing["gpt-4"]
	case strings.Contains(key, "gpt-3.5"):
		return pricing["gpt-3.5-turbo"]
	default:
		return pricing["gpt-4"]
	}
}
