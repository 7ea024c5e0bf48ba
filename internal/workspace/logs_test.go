package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calyptra/squadrun/internal/core"
)

func TestPersistRoundState(t *testing.T) {
	project := newProject(t)
	sessionID := string(project.Logs().SessionID())

	transcript := core.Transcript{
		{Sender: "PM", Role: core.RoleAssistant, Content: "plan", Tokens: 5},
		{Sender: "Engineer", Role: core.RoleAssistant, Content: "code", Tokens: 7},
	}

	if err := project.WriteFile("main.go", "package main"); err != nil {
		t.Fatal(err)
	}
	if err := project.PersistRoundState(1, transcript); err != nil {
		t.Fatal(err)
	}

	sessionDir := filepath.Join(project.root, "logs", sessionID)

	data, err := os.ReadFile(filepath.Join(sessionDir, "round_01_conversation.json"))
	if err != nil {
		t.Fatal(err)
	}

	var conversation struct {
		Round    int             `json:"round"`
		Messages core.Transcript `json:"messages"`
	}
	if err := json.Unmarshal(data, &conversation); err != nil {
		t.Fatal(err)
	}
	if conversation.Round != 1 || len(conversation.Messages) != 2 {
		t.Fatalf("unexpected conversation log: %+v", conversation)
	}

	data, err = os.ReadFile(filepath.Join(sessionDir, "round_01_workspace.json"))
	if err != nil {
		t.Fatal(err)
	}

	var snapshot struct {
		Files []string `json:"files"`
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatal(err)
	}
	if len(snapshot.Files) != 1 || snapshot.Files[0] != "main.go" {
		t.Fatalf("unexpected workspace snapshot: %v", snapshot.Files)
	}
}

func TestLogReflectionNaming(t *testing.T) {
	project := newProject(t)
	sessionID := string(project.Logs().SessionID())

	if err := project.Logs().LogReflection(2, core.Transcript{{Sender: "PM", Content: "we are on track"}}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(project.root, "logs", sessionID, "round_02_reflection.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("reflection log missing: %v", err)
	}
}

func TestLogManagerSummary(t *testing.T) {
	project := newProject(t)

	for round := 1; round <= 3; round++ {
		if err := project.PersistRoundState(round, core.Transcript{{Content: "turn"}}); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := project.Logs().Summary()
	if err != nil {
		t.Fatal(err)
	}
	if summary.Rounds != 3 || summary.WorkspaceLogs != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !strings.HasPrefix(string(summary.SessionID), "sess_") {
		t.Fatalf("unexpected session id: %s", summary.SessionID)
	}
}

func TestListSessions(t *testing.T) {
	root := t.TempDir()
	if err := Create(root, "prompt"); err != nil {
		t.Fatal(err)
	}

	sessions, err := ListSessions(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected no sessions yet, got %v", sessions)
	}

	project, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}

	sessions, err = ListSessions(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0] != string(project.Logs().SessionID()) {
		t.Fatalf("expected the open session listed, got %v", sessions)
	}
}
