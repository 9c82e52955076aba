package knowledge

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferentia-labs/meeting-knowledge/internal/adapter/repository"
	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
	"github.com/inferentia-labs/meeting-knowledge/internal/infrastructure/cache"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	repo := repository.NewFileKnowledgeRepository(t.TempDir())
	return NewStore(repo, cache.NewMemoryStore(time.Minute), nil)
}

func record(team, date, summary string) entities.MeetingRecord {
	rec := entities.NewMeetingRecord(team, date)
	rec.Summary = summary
	return *rec
}

func TestMergeInsertKeepsDateOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, prev, err := store.MergeInsert(ctx, "platform", record("platform", "2026-02-01", "second meeting"))
	require.NoError(t, err)
	assert.Nil(t, prev)

	// Backfilling an earlier meeting must sort before the existing one.
	kb, prev, err := store.MergeInsert(ctx, "platform", record("platform", "2026-01-15", "first meeting"))
	require.NoError(t, err)
	require.Len(t, kb, 2)
	assert.Equal(t, "2026-01-15", kb[0].Date)
	assert.Equal(t, "2026-02-01", kb[1].Date)

	require.NotNil(t, prev)
	assert.Equal(t, "2026-01-15", prev.Date)
}

func TestMergeInsertSameDateKeepsInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := store.MergeInsert(ctx, "platform", record("platform", "2026-01-15", fmt.Sprintf("meeting %d", i)))
		require.NoError(t, err)
	}

	kb, err := store.Get(ctx, "platform")
	require.NoError(t, err)
	require.Len(t, kb, 3)
	for i := 0; i < 3; i++ {
		assert.Equal(t, fmt.Sprintf("meeting %d", i), kb[i].Summary)
	}
}

func TestMergeInsertConcurrentSameTeam(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := store.MergeInsert(ctx, "platform", record("platform", "2026-01-15", fmt.Sprintf("meeting %d", i)))
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	kb, err := store.Get(ctx, "platform")
	require.NoError(t, err)
	assert.Len(t, kb, n)
}

func TestGetUnknownTeamReturnsEmpty(t *testing.T) {
	store := newTestStore(t)

	kb, err := store.Get(context.Background(), "ghosts")
	require.NoError(t, err)
	assert.Empty(t, kb)
}

func TestTeamsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.MergeInsert(ctx, "platform", record("platform", "2026-01-15", "platform meeting"))
	require.NoError(t, err)
	_, _, err = store.MergeInsert(ctx, "mobile", record("mobile", "2026-01-16", "mobile meeting"))
	require.NoError(t, err)

	platform, err := store.Get(ctx, "platform")
	require.NoError(t, err)
	require.Len(t, platform, 1)
	assert.Equal(t, "platform meeting", platform[0].Summary)

	mobile, err := store.Get(ctx, "mobile")
	require.NoError(t, err)
	require.Len(t, mobile, 1)
	assert.Equal(t, "mobile meeting", mobile[0].Summary)
}

func TestGetServesFromCacheAfterInsert(t *testing.T) {
	dir := t.TempDir()
	repo := repository.NewFileKnowledgeRepository(dir)
	memCache := cache.NewMemoryStore(time.Minute)
	store := NewStore(repo, memCache, nil)
	ctx := context.Background()

	_, _, err := store.MergeInsert(ctx, "platform", record("platform", "2026-01-15", "cached meeting"))
	require.NoError(t, err)

	raw, ok := memCache.Get(ctx, "kb:platform")
	require.True(t, ok)
	assert.Contains(t, raw, "cached meeting")
}
