package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newProject(t *testing.T) *Project {
	t.Helper()

	root := t.TempDir()
	if err := Create(root, "Build a todo list CLI"); err != nil {
		t.Fatal(err)
	}

	project, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	return project
}

func TestOpenRequiresPrompt(t *testing.T) {
	root := t.TempDir()

	_, err := Open(root)
	if err == nil {
		t.Fatal("expected error for missing prompt.txt")
	}
	if !strings.Contains(err.Error(), "prompt.txt") {
		t.Fatalf("error should point at prompt.txt: %v", err)
	}
}

func TestOpenRejectsEmptyPrompt(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "prompt.txt"), []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(root); err == nil {
		t.Fatal("expected error for empty prompt.txt")
	}
}

func TestCreateRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	if err := Create(root, "first"); err != nil {
		t.Fatal(err)
	}

	if err := Create(root, "second"); err == nil {
		t.Fatal("expected error when prompt.txt exists")
	}
}

func TestProjectContext(t *testing.T) {
	project := newProject(t)

	projectCtx := project.Context()
	if projectCtx.Prompt != "Build a todo list CLI" {
		t.Fatalf("unexpected prompt: %q", projectCtx.Prompt)
	}
	if len(projectCtx.Files) != 0 {
		t.Fatalf("expected empty workspace, got %v", projectCtx.Files)
	}
}

func TestWriteAndListFiles(t *testing.T) {
	project := newProject(t)

	if err := project.WriteFile("src/main.go", "package main"); err != nil {
		t.Fatal(err)
	}
	if err := project.WriteFile("README.md", "# todo"); err != nil {
		t.Fatal(err)
	}

	files := project.ListFiles()
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	if files[0] != "README.md" || files[1] != "src/main.go" {
		t.Fatalf("files not sorted: %v", files)
	}

	content, err := project.ReadFile("src/main.go")
	if err != nil {
		t.Fatal(err)
	}
	if content != "package main" {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestWorkspacePathRejectsEscape(t *testing.T) {
	project := newProject(t)

	for _, path := range []string{"../outside.txt", "/etc/passwd", "a/../../b", "."} {
		if err := project.WriteFile(path, "x"); err == nil {
			t.Fatalf("path %q should be rejected", path)
		}
	}
}

func TestSummary(t *testing.T) {
	project := newProject(t)

	if got := project.Summary(); got != "Workspace is empty." {
		t.Fatalf("unexpected empty summary: %q", got)
	}

	if err := project.WriteFile("main.go", "package main"); err != nil {
		t.Fatal(err)
	}

	summary := project.Summary()
	if !strings.HasPrefix(summary, "Workspace contains 1 files:") {
		t.Fatalf("unexpected summary header: %q", summary)
	}
	if !strings.Contains(summary, "main.go (12 bytes)") {
		t.Fatalf("file entry missing: %q", summary)
	}
}
