package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/calyptra/squadrun/internal/core"
)

// LogManager persists round-indexed conversation and workspace-state logs
// under logs/<session>/. Writes are best-effort from the orchestrator's point
// of view; callers log failures instead of propagating them.
type LogManager struct {
	baseDir   string
	sessionID core.SessionID

	mu sync.Mutex
}

func NewLogManager(baseDir string) (*LogManager, error) {
	sessionID := core.NewSessionID()

	sessionDir := filepath.Join(baseDir, string(sessionID))
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return nil, fmt.Errorf("create session log directory: %w", err)
	}

	return &LogManager{baseDir: baseDir, sessionID: sessionID}, nil
}

func (m *LogManager) SessionID() core.SessionID {
	return m.sessionID
}

func (m *LogManager) sessionDir() string {
	return filepath.Join(m.baseDir, string(m.sessionID))
}

type conversationLog struct {
	Round      int             `json:"round"`
	Reflection bool            `json:"reflection,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Messages   core.Transcript `json:"messages"`
}

// LogConversation writes the transcript for one round as
// round_NN_conversation.json.
func (m *LogManager) LogConversation(round int, transcript core.Transcript) error {
	return m.writeConversation(round, false, transcript)
}

// LogReflection writes a reflection transcript alongside its parent round as
// round_NN_reflection.json.
func (m *LogManager) LogReflection(round int, transcript core.Transcript) error {
	return m.writeConversation(round, true, transcript)
}

func (m *LogManager) writeConversation(round int, reflection bool, transcript core.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	suffix := "conversation"
	if reflection {
		suffix = "reflection"
	}

	path := filepath.Join(m.sessionDir(), fmt.Sprintf("round_%02d_%s.json", round, suffix))

	entry := conversationLog{
		Round:      round,
		Reflection: reflection,
		Timestamp:  time.Now().UTC(),
		Messages:   transcript,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

type workspaceLog struct {
	Round     int       `json:"round"`
	Timestamp time.Time `json:"timestamp"`
	Files     []string  `json:"files"`
}

// LogWorkspaceState records which files exist after a round.
func (m *LogManager) LogWorkspaceState(round int, files []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Join(m.sessionDir(), fmt.Sprintf("round_%02d_workspace.json", round))

	entry := workspaceLog{
		Round:     round,
		Timestamp: time.Now().UTC(),
		Files:     files,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// PersistRoundState saves the conversation and the workspace snapshot for a
// completed round.
func (p *Project) PersistRoundState(round int, transcript core.Transcript) error {
	if err := p.logs.LogConversation(round, transcript); err != nil {
		return err
	}

	return p.logs.LogWorkspaceState(round, p.ListFiles())
}

// SessionSummary describes the logs recorded for one session.
type SessionSummary struct {
	SessionID        core.SessionID `json:"session_id"`
	Rounds           int            `json:"rounds"`
	ConversationLogs int            `json:"conversation_logs"`
	WorkspaceLogs    int            `json:"workspace_logs"`
}

// Summary counts the logs written so far in this session.
func (m *LogManager) Summary() (SessionSummary, error) {
	conversations, err := filepath.Glob(filepath.Join(m.sessionDir(), "round_*_conversation.json"))
	if err != nil {
		return SessionSummary{}, err
	}

	snapshots, err := filepath.Glob(filepath.Join(m.sessionDir(), "round_*_workspace.json"))
	if err != nil {
		return SessionSummary{}, err
	}

	return SessionSummary{
		SessionID:        m.sessionID,
		Rounds:           len(conversations),
		ConversationLogs: len(conversations),
		WorkspaceLogs:    len(snapshots),
	}, nil
}

// ListSessions returns the session IDs found under a project's logs dir,
// newest last by lexical order of the timestamped IDs.
func ListSessions(projectRoot string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(projectRoot, "logs"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var sessions []string
	for _, entry := range entries {
		if entry.IsDir() {
			sessions = append(sessions, entry.Name())
		}
	}

	return sessions, nil
}
