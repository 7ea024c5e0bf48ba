package orchestrator

import (
	"fmt"
	"strings"

	"github.com/calyptra/squadrun/internal/core"
)

// buildRoundPrompt frames one development round. Round one bootstraps from
// the project statement alone; later rounds carry the budgeted conversation
// slice and, when older turns were dropped, a digest of what fell out.
func buildRoundPrompt(round, totalRounds int, projectPrompt, workspaceSummary string, selected []core.Message, digest string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "DEVELOPMENT ROUND %d of %d\n\n", round, totalRounds)
	fmt.Fprintf(&b, "PROJECT:\n%s\n\n", strings.TrimSpace(projectPrompt))
	fmt.Fprintf(&b, "WORKSPACE:\n%s\n", strings.TrimSpace(workspaceSummary))

	if round <= 1 {
		b.WriteString("\nThis is the first round. Discuss the project, agree on an approach, and start producing concrete work in the workspace.\n")
		return b.String()
	}

	if digest != "" {
		fmt.Fprintf(&b, "\nEARLIER ACTIVITY:\n%s\n", digest)
	}

	if len(selected) > 0 {
		b.WriteString("\nRECENT TEAM CONVERSATION:\n")
		b.WriteString(renderConversation(selected))
	}

	b.WriteString("\nContinue the work. Build on the decisions above and move the project forward with concrete changes in the workspace.\n")

	return b.String()
}

// buildReflectionPrompt frames the periodic reflection episode that follows a
// completed round.
func buildReflectionPrompt(round int, workspaceSummary string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "REFLECTION PHASE (after round %d)\n\n", round)
	b.WriteString("Step back from the implementation work and assess the session so far.\n\n")
	fmt.Fprintf(&b, "WORKSPACE:\n%s\n\n", strings.TrimSpace(workspaceSummary))
	b.WriteString("Answer briefly:\n")
	b.WriteString("1. What has the team accomplished so far?\n")
	b.WriteString("2. What is blocking or slowing progress?\n")
	b.WriteString("3. What should change in the next round?\n")

	return b.String()
}

func renderConversation(messages []core.Message) string {
	var b strings.Builder

	for _, msg := range messages {
		sender := msg.Sender
		if sender == "" {
			sender = string(msg.Role)
		}
		fmt.Fprintf(&b, "[%s] %s\n", sender, strings.TrimSpace(msg.Content))
	}

	return b.String()
}
