package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/palabra/internal/batch"
	"codeberg.org/snonux/palabra/internal/storage"
	"codeberg.org/snonux/palabra/internal/words"
)

// SamplePairs is a small word list used across tests
var SamplePairs = []words.Pair{
	{Spanish: "perro", Russian: "собака"},
	{Spanish: "gato", Russian: "кот"},
	{Spanish: "casa", Russian: "дом"},
	{Spanish: "agua", Russian: "вода"},
}

// NewMemoryStore returns a loaded word store backed by memory
func NewMemoryStore(t *testing.T, pairs ...words.Pair) *words.Store {
	t.Helper()

	store := words.NewStore(storage.NewMemory(), nil)
	if err := store.Load(); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}
	if len(pairs) > 0 {
		if _, err := store.ImportBatch(pairs); err != nil {
			t.Fatalf("Failed to import pairs: %v", err)
		}
	}
	return store
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateExportFile writes pairs in the export format and returns the path
func CreateExportFile(t *testing.T, dir string, pairs []words.Pair) string {
	t.Helper()

	path := filepath.Join(dir, "export.txt")
	if err := batch.WriteFile(path, pairs); err != nil {
		t.Fatalf("Failed to write export file: %v", err)
	}
	return path
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}
