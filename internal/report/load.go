package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"percept/internal/runner"
)

// LatestRef selects the most recent session of a study.
const LatestRef = "latest"

// LoadResults reads one session export.
func LoadResults(path string) (runner.Results, error) {
	return runner.ReadResults(path)
}

// ResolveRun finds a session under outputDir/studyID by run ID, or the
// newest one when ref is "latest". It returns the results and the run dir.
func ResolveRun(outputDir, studyID, ref string) (runner.Results, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return runner.Results{}, "", fmt.Errorf("run ref is required")
	}
	studyDir := filepath.Join(outputDir, studyID)
	var runDir string
	if ref == LatestRef {
		latest, err := findLatestRunDir(studyDir)
		if err != nil {
			return runner.Results{}, "", err
		}
		runDir = latest
	} else {
		runDir = filepath.Join(studyDir, ref)
		if info, err := os.Stat(runDir); err != nil || !info.IsDir() {
			return runner.Results{}, "", fmt.Errorf("run %s not found in %s", ref, studyDir)
		}
	}
	path, err := findResultsFile(runDir)
	if err != nil {
		return runner.Results{}, "", err
	}
	results, err := LoadResults(path)
	return results, runDir, err
}

// LoadStudy reads every session export of a study, oldest first.
func LoadStudy(outputDir, studyID string) ([]runner.Results, error) {
	paths, err := filepath.Glob(filepath.Join(outputDir, studyID, "*", "study-results-*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	runs := make([]runner.Results, 0, len(paths))
	for _, path := range paths {
		results, err := LoadResults(path)
		if err != nil {
			return nil, err
		}
		runs = append(runs, results)
	}
	return runs, nil
}

// findLatestRunDir picks the lexically greatest run dir; run IDs start with a UTC timestamp.
func findLatestRunDir(studyDir string) (string, error) {
	entries, err := os.ReadDir(studyDir)
	if err != nil {
		return "", err
	}
	runIDs := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			runIDs = append(runIDs, entry.Name())
		}
	}
	if len(runIDs) == 0 {
		return "", fmt.Errorf("no runs found in %s", studyDir)
	}
	sort.Strings(runIDs)
	return filepath.Join(studyDir, runIDs[len(runIDs)-1]), nil
}

func findResultsFile(runDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(runDir, "study-results-*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no results file in %s", runDir)
	}
	sort.Strings(matches)
	return matches[0], nil
}
