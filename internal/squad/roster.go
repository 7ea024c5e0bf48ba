package squad

import (
	"embed"
	"fmt"
	"strings"

	"github.com/calyptra/squadrun/internal/config/profiles"
	"github.com/calyptra/squadrun/internal/core"
	"github.com/calyptra/squadrun/internal/providers"
)

//go:embed prompts/*.md
var promptFS embed.FS

// BuildRoster turns a squad profile into the ordered agent set for a session.
func BuildRoster(
	profile profiles.Profile,
	provider providers.Provider,
	model string,
	sampling *core.SamplingConfig,
	usage UsageRecorder,
) ([]Agent, error) {
	agents := make([]Agent, 0, len(profile.Agents))

	for _, spec := range profile.Agents {
		prompt, err := rolePrompt(spec)
		if err != nil {
			return nil, err
		}

		agents = append(agents, &LLMAgent{
			name:         spec.AgentName(),
			roleType:     spec.Type,
			systemPrompt: prompt,
			provider:     provider,
			model:        model,
			sampling:     sampling,
			usage:        usage,
		})
	}

	return agents, nil
}

func rolePrompt(spec profiles.AgentSpec) (string, error) {
	if spec.Prompt != "" {
		return spec.Prompt, nil
	}

	data, err := promptFS.ReadFile("prompts/" + spec.Type + ".md")
	if err != nil {
		return "", fmt.Errorf("no role prompt for agent type %q", spec.Type)
	}

	prompt := strings.TrimSpace(string(data))

	if spec.Focus != "" {
		prompt += "\n\nCURRENT FOCUS: " + spec.Focus
	}

	return prompt, nil
}
