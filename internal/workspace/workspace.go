// Package workspace manages the project directory a squad works against:
// the prompt, the workspace files the agents produce, and the round-indexed
// session logs.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ProjectContext is the immutable project framing handed to the orchestrator
// each round.
type ProjectContext struct {
	Prompt string
	Files  []string
}

// Project is a squad project directory: prompt.txt plus workspace/ and logs/.
type Project struct {
	root          string
	workspaceDir  string
	logs          *LogManager
	projectPrompt string
}

// Open loads an existing project directory. The prompt file must exist;
// workspace and log directories are created when missing.
func Open(root string) (*Project, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path %s is not a directory", root)
	}

	promptPath := filepath.Join(root, "prompt.txt")
	promptData, err := os.ReadFile(promptPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no prompt.txt in %s; create one with your project description", root)
		}
		return nil, fmt.Errorf("read prompt.txt: %w", err)
	}

	prompt := strings.TrimSpace(string(promptData))
	if prompt == "" {
		return nil, fmt.Errorf("prompt.txt in %s is empty; add your project description", root)
	}

	workspaceDir := filepath.Join(root, "workspace")
	if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace directory: %w", err)
	}

	logs, err := NewLogManager(filepath.Join(root, "logs"))
	if err != nil {
		return nil, err
	}

	return &Project{
		root:          root,
		workspaceDir:  workspaceDir,
		logs:          logs,
		projectPrompt: prompt,
	}, nil
}

// Create scaffolds a new project directory with a prompt file.
func Create(root, prompt string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}

	promptPath := filepath.Join(root, "prompt.txt")
	if _, err := os.Stat(promptPath); err == nil {
		return fmt.Errorf("project %s already has a prompt.txt", root)
	}

	if strings.TrimSpace(prompt) == "" {
		prompt = "Describe what the squad should build here."
	}

	if err := os.WriteFile(promptPath, []byte(prompt+"\n"), 0o644); err != nil {
		return fmt.Errorf("write prompt.txt: %w", err)
	}

	for _, dir := range []string{"workspace", "logs"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", dir, err)
		}
	}

	return nil
}

func (p *Project) Root() string {
	return p.root
}

func (p *Project) Logs() *LogManager {
	return p.logs
}

// Context returns the project prompt and the current workspace file list.
func (p *Project) Context() ProjectContext {
	return ProjectContext{
		Prompt: p.projectPrompt,
		Files:  p.ListFiles(),
	}
}

// ListFiles walks the workspace and returns sorted relative paths.
func (p *Project) ListFiles() []string {
	var files []string

	_ = filepath.WalkDir(p.workspaceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(p.workspaceDir, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})

	sort.Strings(files)
	return files
}

// ReadFile reads a workspace file by relative path.
func (p *Project) ReadFile(relPath string) (string, error) {
	full, err := p.workspacePath(relPath)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read workspace file %s: %w", relPath, err)
	}

	return string(data), nil
}

// WriteFile writes a workspace file, creating parent directories as needed.
func (p *Project) WriteFile(relPath, content string) error {
	full, err := p.workspacePath(relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create workspace directories for %s: %w", relPath, err)
	}

	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write workspace file %s: %w", relPath, err)
	}

	return nil
}

// Summary renders a human-readable view of the workspace for round prompts.
func (p *Project) Summary() string {
	files := p.ListFiles()
	if len(files) == 0 {
		return "Workspace is empty."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Workspace contains %d files:\n", len(files))
	for _, file := range files {
		if info, err := os.Stat(filepath.Join(p.workspaceDir, filepath.FromSlash(file))); err == nil {
			fmt.Fprintf(&b, "  - %s (%d bytes)\n", file, info.Size())
		} else {
			fmt.Fprintf(&b, "  - %s\n", file)
		}
	}

	return b.String()
}

func (p *Project) workspacePath(relPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("workspace path %q escapes the workspace", relPath)
	}
	return filepath.Join(p.workspaceDir, cleaned), nil
}
