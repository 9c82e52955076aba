package repositories

import (
	"context"

	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
)

// KnowledgeRepository abstracts the backing store for per-team knowledge
// bases. Load returns an empty base when no records exist for the team.
// Save replaces the team's stored sequence atomically: a failed Save must
// leave previously persisted data intact.
type KnowledgeRepository interface {
	Load(ctx context.Context, team string) (entities.KnowledgeBase, error)
	Save(ctx context.Context, team string, kb entities.KnowledgeBase) error
}

// TranscriptStore persists raw transcript text, one file per meeting.
// It returns a reference (object key or path) recorded on the meeting.
type TranscriptStore interface {
	SaveTranscript(ctx context.Context, team, name, text string) (string, error)
}
