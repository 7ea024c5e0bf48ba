package profiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadBuiltinProfile(t *testing.T) {
	profile, err := Load(t.TempDir(), "mvp-team")
	if err != nil {
		t.Fatal(err)
	}

	if profile.Name != "mvp-team" {
		t.Fatalf("unexpected name: %s", profile.Name)
	}
	if len(profile.Agents) == 0 {
		t.Fatal("builtin roster is empty")
	}
	if profile.Workflow.Rounds != 3 || profile.Workflow.ReflectionFrequency != 2 {
		t.Fatalf("unexpected workflow: %+v", profile.Workflow)
	}
}

func TestLoadUnknownProfileListsBuiltins(t *testing.T) {
	_, err := Load(t.TempDir(), "dream-team")
	if err == nil {
		t.Fatal("expected error for unknown profile")
	}
	if !strings.Contains(err.Error(), "mvp-team") {
		t.Fatalf("error should list built-in profiles: %v", err)
	}
}

func TestUserProfileWinsOverBuiltin(t *testing.T) {
	dir := t.TempDir()

	custom := `
agents:
  - type: engineer
    name: Solo
workflow:
  rounds: 1
  reflection_frequency: 1
`
	if err := os.WriteFile(filepath.Join(dir, "mvp-team.yaml"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	profile, err := Load(dir, "mvp-team")
	if err != nil {
		t.Fatal(err)
	}
	if len(profile.Agents) != 1 || profile.Agents[0].Name != "Solo" {
		t.Fatalf("user profile not preferred: %+v", profile.Agents)
	}
}

func TestValidateRejectsBadProfiles(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
	}{
		{
			name:    "empty roster",
			profile: Profile{Name: "x", Workflow: Workflow{Rounds: 1, ReflectionFrequency: 1}},
		},
		{
			name: "unknown agent type",
			profile: Profile{
				Name:     "x",
				Agents:   []AgentSpec{{Type: "intern"}},
				Workflow: Workflow{Rounds: 1, ReflectionFrequency: 1},
			},
		},
		{
			name: "zero rounds",
			profile: Profile{
				Name:     "x",
				Agents:   []AgentSpec{{Type: "engineer"}},
				Workflow: Workflow{Rounds: 0, ReflectionFrequency: 1},
			},
		},
		{
			name: "zero reflection frequency",
			profile: Profile{
				Name:     "x",
				Agents:   []AgentSpec{{Type: "engineer"}},
				Workflow: Workflow{Rounds: 1, ReflectionFrequency: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.profile.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestAgentNameDerivation(t *testing.T) {
	if got := (AgentSpec{Type: "engineer"}).AgentName(); got != "Engineer" {
		t.Fatalf("expected Engineer, got %s", got)
	}
	if got := (AgentSpec{Type: "pm", Name: "Ada"}).AgentName(); got != "Ada" {
		t.Fatalf("explicit name must win, got %s", got)
	}
}

func TestEnsureDefaultPreservesEdits(t *testing.T) {
	dir := t.TempDir()

	if err := EnsureDefault(dir); err != nil {
		t.Fatal(err)
	}

	for _, name := range BuiltinNames() {
		if _, err := os.Stat(filepath.Join(dir, name+".yaml")); err != nil {
			t.Fatalf("builtin %s not written: %v", name, err)
		}
	}

	edited := filepath.Join(dir, "mvp-team.yaml")
	if err := os.WriteFile(edited, []byte("# edited"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := EnsureDefault(dir); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(edited)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# edited" {
		t.Fatal("EnsureDefault overwrote a user edit")
	}
}

func TestBuiltinNamesSorted(t *testing.T) {
	names := BuiltinNames()
	if len(names) < 3 {
		t.Fatalf("expected at least 3 builtins, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i] < names[i-1] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
