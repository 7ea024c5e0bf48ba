package telemetry

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAgent   = lipgloss.Color("#60A5FA")
	colorSuccess = lipgloss.Color("#34D399")
	colorWarning = lipgloss.Color("#FBBF24")
	colorDim     = lipgloss.Color("#6B7280")

	styleAgent   = lipgloss.NewStyle().Bold(true).Foreground(colorAgent)
	styleRound   = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	styleDone    = lipgloss.NewStyle().Foreground(colorSuccess)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleFilePth = lipgloss.NewStyle().Underline(true)
)

// ConsoleSink prints one line per event. It is intentionally dumb: no
// layout, no state, so it can never stall the dispatcher.
type ConsoleSink struct {
	Out io.Writer
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{Out: out}
}

func (s *ConsoleSink) HandleEvent(event Event) {
	switch event.Type {
	case EventActionStarted:
		fmt.Fprintf(s.Out, "%s %s\n", styleAgent.Render(event.AgentID), event.Description)
	case EventActionCompleted:
		result := event.Result
		if result == "" {
			result = "done"
		}
		fmt.Fprintf(s.Out, "%s %s\n", styleAgent.Render(event.AgentID), styleDone.Render(result))
	case EventFileOperation:
		fmt.Fprintf(s.Out, "%s %s %s\n",
			styleAgent.Render(event.AgentID),
			styleDim.Render(event.OperationKind),
			styleFilePth.Render(event.Path))
	case EventRoundBoundary:
		fmt.Fprintf(s.Out, "%s\n", styleRound.Render(fmt.Sprintf("── round %d/%d ──", event.Round, event.TotalRounds)))
	case EventTokenUsage:
		fmt.Fprintf(s.Out, "%s\n", styleDim.Render(fmt.Sprintf("tokens: %d (est. $%.4f)", event.TokensUsed, event.EstimatedCost)))
	}
}
