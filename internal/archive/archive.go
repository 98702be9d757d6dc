// Package archive keeps timestamped copies of the word list before
// destructive operations.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/palabra/internal/batch"
	"codeberg.org/snonux/palabra/internal/words"
)

// Snapshot writes pairs in export format to <stateDir>/archive and returns
// the path of the new file.
func Snapshot(stateDir string, pairs []words.Pair) (string, error) {
	archiveDir := filepath.Join(stateDir, "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	now := time.Now()
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("words-%s.txt", now.Format("20060102-150405")))

	// Two snapshots within the same second get a microsecond suffix
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("words-%s.txt", now.Format("20060102-150405.000000")))
	}

	if err := batch.WriteFile(archivePath, pairs); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return archivePath, nil
}
