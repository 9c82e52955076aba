package knowledge

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/inferentia-labs/meeting-knowledge/errors"
	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
	"github.com/inferentia-labs/meeting-knowledge/internal/domain/repositories"
)

// Cache is the read-through cache the store keeps in front of the
// repository. Both the redis and in-memory stores satisfy it.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store owns a team's knowledge base sequence: reads go through the
// cache, writes go through MergeInsert under a per-team lock.
type Store struct {
	repo  repositories.KnowledgeRepository
	cache Cache
	log   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(repo repositories.KnowledgeRepository, cache Cache, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		repo:  repo,
		cache: cache,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

// teamLock returns the mutex guarding a single team's read-modify-write
// cycle. Locks are created on first use and never released; the team set
// is small and fixed.
func (s *Store) teamLock(team string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[team]
	if !ok {
		l = &sync.Mutex{}
		s.locks[team] = l
	}
	return l
}

func cacheKey(team string) string {
	return "kb:" + team
}

// Get returns the team's knowledge base, from cache when possible. Cache
// failures are logged and fall through to the repository.
func (s *Store) Get(ctx context.Context, team string) (entities.KnowledgeBase, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, cacheKey(team)); ok {
			var kb entities.KnowledgeBase
			if err := json.Unmarshal([]byte(raw), &kb); err == nil {
				return kb, nil
			}
			s.log.Warn("discarding unreadable cached knowledge base", zap.String("team", team))
		}
	}

	kb, err := s.repo.Load(ctx, team)
	if err != nil {
		return nil, errors.ErrPersistenceFailed(err)
	}

	s.fillCache(ctx, team, kb)
	return kb, nil
}

// MergeInsert appends the record to the team's knowledge base, re-sorts
// by date keeping insertion order within a day, and persists the whole
// sequence. It returns the updated base and the previous record (the one
// directly before the newest in sorted order), which callers surface as
// a "last meeting" reference. The full load-append-save cycle runs under
// the team's lock so concurrent inserts cannot lose records.
func (s *Store) MergeInsert(ctx context.Context, team string, record entities.MeetingRecord) (entities.KnowledgeBase, *entities.MeetingRecord, error) {
	lock := s.teamLock(team)
	lock.Lock()
	defer lock.Unlock()

	kb, err := s.repo.Load(ctx, team)
	if err != nil {
		return nil, nil, errors.ErrPersistenceFailed(err)
	}

	kb = append(kb, record)
	kb.SortByDate()

	if err := s.repo.Save(ctx, team, kb); err != nil {
		return nil, nil, errors.ErrPersistenceFailed(err)
	}

	s.fillCache(ctx, team, kb)
	return kb, kb.Previous(), nil
}

func (s *Store) fillCache(ctx context.Context, team string, kb entities.KnowledgeBase) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(kb)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(team), string(data)); err != nil {
		s.log.Warn("caching knowledge base failed", zap.String("team", team), zap.Error(err))
	}
}
