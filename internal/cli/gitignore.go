package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ignoreResults appends the results folder to the repo .gitignore as a
// directory pattern. It reports whether the file changed; an existing entry
// with or without the trailing slash counts as present.
func ignoreResults(repoRoot, resultsDir string) (bool, error) {
	entry, err := ignoreEntry(repoRoot, resultsDir)
	if err != nil {
		return false, err
	}
	path := filepath.Join(repoRoot, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read .gitignore: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSuffix(strings.TrimSpace(scanner.Text()), "/")
		if line == strings.TrimSuffix(entry, "/") || line == "/"+strings.TrimSuffix(entry, "/") {
			return false, nil
		}
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	data = append(data, entry+"\n"...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write .gitignore: %w", err)
	}
	return true, nil
}

// ignoreEntry turns resultsDir into a slash-separated pattern relative to repoRoot.
func ignoreEntry(repoRoot, resultsDir string) (string, error) {
	if strings.TrimSpace(resultsDir) == "" {
		return "", fmt.Errorf("results folder is required")
	}
	rel := filepath.Clean(resultsDir)
	if filepath.IsAbs(rel) {
		var err error
		if rel, err = filepath.Rel(repoRoot, rel); err != nil {
			return "", fmt.Errorf("resolve results folder: %w", err)
		}
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("results folder %q is outside the repository", resultsDir)
	}
	return filepath.ToSlash(rel) + "/", nil
}
