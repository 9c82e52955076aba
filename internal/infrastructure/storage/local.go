package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore keeps transcript files and CSV exports in per-team folders
// on the local filesystem.
type LocalStore struct {
	root string
}

// NewLocalStore creates a filesystem-backed store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir}
}

// SaveTranscript writes the transcript to <root>/<team>/<name> and
// returns the path as the transcript reference.
func (s *LocalStore) SaveTranscript(_ context.Context, team, name, text string) (string, error) {
	return s.write(team, name, []byte(text))
}

// SaveExport writes a CSV export to <root>/<team>/<name>.
func (s *LocalStore) SaveExport(_ context.Context, team, name string, csv []byte) (string, error) {
	return s.write(team, name, csv)
}

func (s *LocalStore) write(team, name string, data []byte) (string, error) {
	dir := filepath.Join(s.root, team)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating team folder: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
