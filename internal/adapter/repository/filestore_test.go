package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
)

func TestFileRepositoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileKnowledgeRepository(dir)
	ctx := context.Background()

	rec := entities.NewMeetingRecord("platform", "2026-01-15")
	rec.Summary = "Kickoff."
	rec.ActionItems = []entities.ActionItem{
		{Task: "Email the vendor", Status: entities.ActionItemStatusConfirmed, Owners: []string{"Alice"}, DueDates: []string{"2026-01-20"}},
	}
	rec.Decisions = []entities.Decision{{Decision: "Switch vendors"}}

	require.NoError(t, repo.Save(ctx, "platform", entities.KnowledgeBase{*rec}))

	kb, err := repo.Load(ctx, "platform")
	require.NoError(t, err)
	require.Len(t, kb, 1)

	got := kb[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "Kickoff.", got.Summary)
	require.Len(t, got.ActionItems, 1)
	assert.Equal(t, "Email the vendor", got.ActionItems[0].Task)
	require.Len(t, got.Decisions, 1)
	assert.Equal(t, "Switch vendors", got.Decisions[0].Decision)
}

func TestFileRepositoryMissingTeamIsEmpty(t *testing.T) {
	repo := NewFileKnowledgeRepository(t.TempDir())

	kb, err := repo.Load(context.Background(), "ghosts")
	require.NoError(t, err)
	assert.Empty(t, kb)
}

func TestFileRepositoryWritesUnderTeamDir(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileKnowledgeRepository(dir)

	rec := entities.NewMeetingRecord("platform", "2026-01-15")
	require.NoError(t, repo.Save(context.Background(), "platform", entities.KnowledgeBase{*rec}))

	_, err := os.Stat(filepath.Join(dir, "platform", "knowledge_base.json"))
	require.NoError(t, err)
}

func TestFileRepositorySaveReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileKnowledgeRepository(dir)
	ctx := context.Background()

	first := entities.NewMeetingRecord("platform", "2026-01-15")
	require.NoError(t, repo.Save(ctx, "platform", entities.KnowledgeBase{*first}))

	second := entities.NewMeetingRecord("platform", "2026-02-01")
	require.NoError(t, repo.Save(ctx, "platform", entities.KnowledgeBase{*first, *second}))

	kb, err := repo.Load(ctx, "platform")
	require.NoError(t, err)
	require.Len(t, kb, 2)
	assert.Equal(t, "2026-02-01", kb[1].Date)
}
