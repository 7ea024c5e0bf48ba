package budget

import (
	"fmt"
	"sort"
	"strings"

	"github.com/calyptra/squadrun/internal/core"
)

var (
	fileOperationMarkers = []string{"write_file", "created file", "updated file", "deleted file"}
	decisionMarkers      = []string{"implemented", "decided", "chosen", "completed"}
	actionMarkers        = []string{"task", "feature", "bug", "issue"}
)

// Summarize produces a short digest of dropped conversation so the squad
// retains a trace of what happened before the selected context.
func Summarize(history []core.Message) string {
	if len(history) == 0 {
		return ""
	}

	participants := map[string]bool{}
	fileOps := 0
	decisions := 0
	actions := 0

	for _, msg := range history {
		if msg.Sender != "" {
			participants[msg.Sender] = true
		}

		content := strings.ToLower(msg.Content)

		if containsAny(content, fileOperationMarkers) {
			fileOps++
		}
		if containsAny(content, decisionMarkers) {
			decisions++
		}
		if containsAny(content, actionMarkers) {
			actions++
		}
	}

	var parts []string

	if len(participants) > 0 {
		names := make([]string, 0, len(participants))
		for name := range participants {
			names = append(names, name)
		}
		sort.Strings(names)
		parts = append(parts, "Participants: "+strings.Join(names, ", "))
	}

	if fileOps > 0 {
		parts = append(parts, fmt.Sprintf("File operations: %d messages touched files", fileOps))
	}

	if actions > 0 {
		parts = append(parts, fmt.Sprintf("Key actions: %d actions taken", actions))
	}

	if decisions > 0 {
		parts = append(parts, fmt.Sprintf("Decisions: %d decisions made", decisions))
	}

	if len(parts) == 0 {
		return "No significant activity"
	}

	return strings.Join(parts, " | ")
}

func containsAny(content string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}
