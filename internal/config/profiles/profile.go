package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AgentSpec describes one member of the squad roster. Order in the roster is
// the speaking order within a round.
type AgentSpec struct {
	Type   string `yaml:"type"`
	Name   string `yaml:"name,omitempty"`
	Focus  string `yaml:"focus,omitempty"`
	Prompt string `yaml:"prompt,omitempty"`
}

type Workflow struct {
	Rounds              int `yaml:"rounds"`
	ReflectionFrequency int `yaml:"reflection_frequency"`
}

type Profile struct {
	Name     string      `yaml:"-"`
	Agents   []AgentSpec `yaml:"agents"`
	Workflow Workflow    `yaml:"workflow"`
}

var knownAgentTypes = map[string]bool{
	"pm":        true,
	"engineer":  true,
	"architect": true,
	"qa":        true,
}

// Load reads the named profile from profileDir, falling back to the built-in
// profiles when no file exists for it.
func Load(profileDir, name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, fmt.Errorf("profile name is required")
	}

	path := filepath.Join(profileDir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return loadBuiltin(name)
		}
		return Profile{}, fmt.Errorf("read profile %q: %w", name, err)
	}

	return parse(name, data)
}

func parse(name string, data []byte) (Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("parse profile %q: %w", name, err)
	}

	profile.Name = name

	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}

	return profile, nil
}

// Validate checks the roster and workflow settings of the profile.
func (p Profile) Validate() error {
	if len(p.Agents) == 0 {
		return fmt.Errorf("profile %q: roster is empty", p.Name)
	}

	for i, agent := range p.Agents {
		if !knownAgentTypes[agent.Type] {
			return fmt.Errorf("profile %q: agent %d has unknown type %q", p.Name, i, agent.Type)
		}
	}

	if p.Workflow.Rounds < 1 {
		return fmt.Errorf("profile %q: workflow rounds must be at least 1", p.Name)
	}

	if p.Workflow.ReflectionFrequency < 1 {
		return fmt.Errorf("profile %q: reflection_frequency must be at least 1", p.Name)
	}

	return nil
}

// AgentName returns the display name for a roster entry, deriving one from
// the role type when no explicit name is set.
func (a AgentSpec) AgentName() string {
	if a.Name != "" {
		return a.Name
	}
	return strings.ToUpper(a.Type[:1]) + a.Type[1:]
}
