// Package runbook loads and validates declarative YAML runbooks: the
// allow-listed action/integration/method grammar a RunbookStep may use,
// and the file/directory loading conventions operators drop runbooks
// into.
package runbook

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jordigilh/runbookengine/internal/apperrors"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// LoadFile reads, parses, and validates a single runbook YAML file.
func LoadFile(path string) (*types.Runbook, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewRunbookParseError(path, "could not read file: "+err.Error())
	}

	var rb types.Runbook
	if err := yaml.Unmarshal(raw, &rb); err != nil {
		return nil, apperrors.NewRunbookParseError(path, "invalid yaml: "+err.Error())
	}
	rb.SourcePath = path

	if err := Validate(&rb); err != nil {
		return nil, err
	}
	return &rb, nil
}

// LoadDirectory loads every *.yaml/*.yml file in directory, sorted by
// filename. A file that fails to parse or validate is skipped with a
// logged warning rather than aborting the whole load — one broken
// runbook shouldn't take the rest of the library down.
func LoadDirectory(logger *zap.Logger, directory string) ([]*types.Runbook, error) {
	paths, err := ListRunbooks(directory)
	if err != nil {
		return nil, err
	}

	runbooks := make([]*types.Runbook, 0, len(paths))
	for _, path := range paths {
		rb, err := LoadFile(path)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping runbook that failed to load",
					zap.String("path", path), zap.Error(err))
			}
			continue
		}
		runbooks = append(runbooks, rb)
	}
	return runbooks, nil
}

// ListRunbooks returns the sorted paths of every *.yaml/*.yml file
// directly under directory, without parsing them.
func ListRunbooks(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrorTypeRunbookParse, "could not read runbook directory %q", directory)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(directory, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
