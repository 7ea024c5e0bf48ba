package profiles

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

func loadBuiltin(name string) (Profile, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return Profile{}, fmt.Errorf("squad profile %q not found; known built-in profiles: %s",
			name, strings.Join(BuiltinNames(), ", "))
	}

	return parse(name, data)
}

// BuiltinNames lists the embedded profile names in sorted order.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)

	return names
}

// EnsureDefault writes the built-in profiles into profileDir so users have a
// starting point to edit. Existing files are left alone.
func EnsureDefault(profileDir string) error {
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return err
	}

	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(profileDir, entry.Name())
		if _, err := os.Stat(path); err == nil {
			continue
		}

		data, err := builtinFS.ReadFile("builtin/" + entry.Name())
		if err != nil {
			return err
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
	}

	return nil
}
