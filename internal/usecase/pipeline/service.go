package pipeline

import (
	"context"
	goerrors "errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/inferentia-labs/meeting-knowledge/errors"
	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
	"github.com/inferentia-labs/meeting-knowledge/internal/domain/repositories"
	"github.com/inferentia-labs/meeting-knowledge/internal/usecase/knowledge"
	"github.com/inferentia-labs/meeting-knowledge/pkg/ai"
)

// Result is the outcome of processing one meeting: the newly stored
// record and, when the team already had history, the record directly
// before it in the merged knowledge base.
type Result struct {
	Record   entities.MeetingRecord
	Previous *entities.MeetingRecord
	Degraded bool
}

// Service runs the meeting processing pipeline and exposes the stored
// knowledge per team.
type Service interface {
	ProcessMeeting(ctx context.Context, team string, audio io.Reader, filename string) (*Result, error)
	GetKnowledgeBase(ctx context.Context, team string) (entities.KnowledgeBase, error)
}

type service struct {
	transcriber ai.Transcriber
	summarizer  Summarizer
	actions     ActionItemExtractor
	decisions   DecisionExtractor
	tagger      PersonDateTagger
	store       *knowledge.Store
	transcripts repositories.TranscriptStore
	workers     int
	now         func() time.Time
	log         *zap.Logger
}

// Extractors bundles the model-backed stages of the pipeline. A ModelSet
// fills all four slots via its Extractors method.
type Extractors struct {
	Summarizer Summarizer
	Actions    ActionItemExtractor
	Decisions  DecisionExtractor
	Tagger     PersonDateTagger
}

// NewService wires the pipeline stages. workers bounds the concurrent
// per-item enrichment fan-out; values below 1 are raised to 1.
func NewService(
	transcriber ai.Transcriber,
	ex Extractors,
	store *knowledge.Store,
	transcripts repositories.TranscriptStore,
	workers int,
	log *zap.Logger,
) Service {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		transcriber: transcriber,
		summarizer:  ex.Summarizer,
		actions:     ex.Actions,
		decisions:   ex.Decisions,
		tagger:      ex.Tagger,
		store:       store,
		transcripts: transcripts,
		workers:     workers,
		now:         time.Now,
		log:         log,
	}
}

// ProcessMeeting runs the full pipeline: transcribe, summarize, extract
// action items and decisions, enrich items with owners and due dates,
// then persist the transcript and merge the record into the team's
// knowledge base. Transcription and summarization failures abort the
// run; extraction and enrichment degrade instead of failing.
func (s *service) ProcessMeeting(ctx context.Context, team string, audio io.Reader, filename string) (*Result, error) {
	start := s.now()

	transcript, err := s.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return nil, errors.ErrTranscriptionFailed(filename, err)
	}

	summary, err := s.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return nil, errors.ErrSummaryFailed(err)
	}
	if summary == "" {
		return nil, errors.ErrSummaryFailed(goerrors.New("model produced an empty summary"))
	}

	record := entities.NewMeetingRecord(team, start.UTC().Format(entities.DateFormat))
	record.Summary = summary
	degraded := false

	rawItems, err := s.actions.ExtractActionItems(ctx, transcript)
	if err != nil {
		s.log.Warn("action item extraction failed, continuing without items",
			zap.String("team", team), zap.Error(err))
		degraded = true
	} else {
		items, fellBack := NormalizeActionItems(rawItems)
		if fellBack {
			s.log.Warn("action item output was not valid JSON, using line fallback",
				zap.String("team", team))
			degraded = true
		}
		record.ActionItems = items
	}

	rawDecisions, err := s.decisions.ExtractDecisions(ctx, transcript)
	if err != nil {
		s.log.Warn("decision extraction failed, continuing without decisions",
			zap.String("team", team), zap.Error(err))
		degraded = true
	} else {
		record.Decisions = ParseDecisions(rawDecisions)
	}

	if s.enrich(ctx, team, record.ActionItems) {
		degraded = true
	}

	if s.transcripts != nil {
		ref, err := s.transcripts.SaveTranscript(ctx, team, record.Date+"_transcript.txt", transcript)
		if err != nil {
			s.log.Warn("saving transcript failed, record keeps no transcript reference",
				zap.String("team", team), zap.Error(err))
		} else {
			record.TranscriptRef = ref
		}
	}

	_, previous, err := s.store.MergeInsert(ctx, team, *record)
	if err != nil {
		return nil, err
	}

	s.log.Info("🎙️ meeting processed",
		zap.String("team", team),
		zap.String("record_id", record.ID.String()),
		zap.Int("action_items", len(record.ActionItems)),
		zap.Int("decisions", len(record.Decisions)),
		zap.Bool("degraded", degraded),
		zap.Duration("took", s.now().Sub(start)))

	return &Result{Record: *record, Previous: previous, Degraded: degraded}, nil
}

func (s *service) GetKnowledgeBase(ctx context.Context, team string) (entities.KnowledgeBase, error) {
	return s.store.Get(ctx, team)
}

// enrich tags owners and due dates onto every action item, fanning out
// over a bounded worker pool. Results land back on the item they came
// from, so concurrent completion order does not matter. Tagged values are
// merged with whatever the extraction already provided; a failed tag
// leaves its item as-is and marks the run degraded.
func (s *service) enrich(ctx context.Context, team string, items []entities.ActionItem) bool {
	type tagged struct {
		idx    int
		owners []string
		dates  []string
		err    error
	}

	if len(items) == 0 {
		return false
	}

	sem := make(chan struct{}, s.workers)
	results := make(chan tagged, len(items))

	for idx := range items {
		sem <- struct{}{}
		go func(idx int) {
			defer func() { <-sem }()
			owners, dates, err := s.tagger.Tag(ctx, items[idx].Task)
			results <- tagged{idx: idx, owners: owners, dates: dates, err: err}
		}(idx)
	}

	degraded := false
	for range items {
		res := <-results
		if res.err != nil {
			s.log.Warn("tagging action item failed",
				zap.String("team", team),
				zap.String("task", items[res.idx].Task),
				zap.Error(res.err))
			degraded = true
			continue
		}
		items[res.idx].Owners = mergeUnique(items[res.idx].Owners, res.owners)
		items[res.idx].DueDates = mergeUnique(items[res.idx].DueDates, res.dates)
	}
	return degraded
}

// mergeUnique appends values from extra that base does not already hold,
// keeping base's order first.
func mergeUnique(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, v := range base {
		seen[v] = struct{}{}
	}
	for _, v := range extra {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		base = append(base, v)
	}
	return base
}
