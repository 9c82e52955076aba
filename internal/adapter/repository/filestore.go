package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
	repo "github.com/inferentia-labs/meeting-knowledge/internal/domain/repositories"
)

type fileKnowledgeRepository struct {
	dataDir string
}

// NewFileKnowledgeRepository creates a flat-file knowledge base
// repository. Each team's records live in
// <dataDir>/<team>/knowledge_base.json.
func NewFileKnowledgeRepository(dataDir string) repo.KnowledgeRepository {
	return &fileKnowledgeRepository{dataDir: dataDir}
}

func (r *fileKnowledgeRepository) basePath(team string) string {
	return filepath.Join(r.dataDir, team, "knowledge_base.json")
}

func (r *fileKnowledgeRepository) Load(_ context.Context, team string) (entities.KnowledgeBase, error) {
	data, err := os.ReadFile(r.basePath(team))
	if os.IsNotExist(err) {
		return entities.KnowledgeBase{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base for %s: %w", team, err)
	}

	var kb entities.KnowledgeBase
	if err := json.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("decoding knowledge base for %s: %w", team, err)
	}
	return kb, nil
}

// Save writes to a temporary file and renames it into place so readers
// never observe a half-written base.
func (r *fileKnowledgeRepository) Save(_ context.Context, team string, kb entities.KnowledgeBase) error {
	target := r.basePath(team)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating team directory for %s: %w", team, err)
	}

	data, err := json.MarshalIndent(kb, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding knowledge base for %s: %w", team, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "kb-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", team, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing knowledge base for %s: %w", team, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file for %s: %w", team, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing knowledge base for %s: %w", team, err)
	}
	return nil
}
