package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/inferentia-labs/meeting-knowledge/errors"
	"github.com/inferentia-labs/meeting-knowledge/pkg/ai"
	"github.com/inferentia-labs/meeting-knowledge/pkg/config"
)

// Summarizer condenses a transcript into a short abstractive summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// ActionItemExtractor produces the raw model output for action item
// extraction. Normalization of that output lives with the caller.
type ActionItemExtractor interface {
	ExtractActionItems(ctx context.Context, transcript string) (string, error)
}

// DecisionExtractor produces the raw model output for decision
// extraction.
type DecisionExtractor interface {
	ExtractDecisions(ctx context.Context, transcript string) (string, error)
}

// PersonDateTagger finds the people and date mentions in a single task
// sentence.
type PersonDateTagger interface {
	Tag(ctx context.Context, sentence string) (owners []string, dates []string, err error)
}

const actionItemPrompt = `Extract the action items from the following meeting transcript. Respond with only a JSON array where each element has the fields "task", "owners", "due_dates" and "status". "owners" and "due_dates" are arrays of strings; write due dates as YYYY-MM-DD; "status" is "Confirmed" or "NeedsClarification". Use empty arrays when owners or due dates are not mentioned. Respond with [] if there are no action items.

Transcript:
%s`

const decisionPrompt = `List the decisions that were made in the following meeting transcript, one decision per line. Write "None" if no decisions were made.

Transcript:
%s`

// ModelSet bundles the hosted inference models behind the pipeline's
// extractor interfaces. The hosted endpoints reject concurrent requests
// against the same model with rate-limit errors, so each model gets its
// own mutex and calls against it are serialized.
type ModelSet struct {
	hf  *ai.HFClient
	cfg *config.ModelsConfig

	summaryMu  sync.Mutex
	actionMu   sync.Mutex
	decisionMu sync.Mutex
	nerMu      sync.Mutex
}

// NewModelSet wires the hosted inference models from configuration.
func NewModelSet(hf *ai.HFClient, cfg *config.ModelsConfig) *ModelSet {
	return &ModelSet{hf: hf, cfg: cfg}
}

// Extractors exposes the model set as the pipeline's extractor bundle.
func (m *ModelSet) Extractors() Extractors {
	return Extractors{Summarizer: m, Actions: m, Decisions: m, Tagger: m}
}

func (m *ModelSet) Summarize(ctx context.Context, transcript string) (string, error) {
	m.summaryMu.Lock()
	defer m.summaryMu.Unlock()

	out, err := m.hf.Summarize(ctx, m.cfg.SummaryModel, transcript, m.cfg.SummaryMinLen, m.cfg.SummaryMaxLen)
	if err != nil {
		return "", errors.ErrModelUnavailable(m.cfg.SummaryModel, err)
	}
	return strings.TrimSpace(out), nil
}

func (m *ModelSet) ExtractActionItems(ctx context.Context, transcript string) (string, error) {
	m.actionMu.Lock()
	defer m.actionMu.Unlock()

	out, err := m.hf.Generate(ctx, m.cfg.ActionModel, fmt.Sprintf(actionItemPrompt, transcript), 512)
	if err != nil {
		return "", errors.ErrModelUnavailable(m.cfg.ActionModel, err)
	}
	return out, nil
}

func (m *ModelSet) ExtractDecisions(ctx context.Context, transcript string) (string, error) {
	m.decisionMu.Lock()
	defer m.decisionMu.Unlock()

	out, err := m.hf.Generate(ctx, m.cfg.DecisionModel, fmt.Sprintf(decisionPrompt, transcript), 256)
	if err != nil {
		return "", errors.ErrModelUnavailable(m.cfg.DecisionModel, err)
	}
	return out, nil
}

// Tag runs named-entity recognition over the sentence and keeps person
// spans as owners, then hands every remaining word window to date
// normalization. Low-confidence spans are discarded.
func (m *ModelSet) Tag(ctx context.Context, sentence string) ([]string, []string, error) {
	m.nerMu.Lock()
	entities, err := m.hf.TokenClassify(ctx, m.cfg.NERModel, sentence)
	m.nerMu.Unlock()
	if err != nil {
		return nil, nil, errors.ErrModelUnavailable(m.cfg.NERModel, err)
	}

	owners := make([]string, 0)
	for _, e := range entities {
		if e.EntityGroup == "PER" && e.Score >= 0.5 {
			owners = append(owners, strings.TrimSpace(e.Word))
		}
	}

	return owners, findDates(sentence), nil
}

// findDates scans the sentence for date mentions by probing word windows
// of up to three tokens against the date parser. Matches are rendered in
// ISO form and deduplicated.
func findDates(sentence string) []string {
	words := strings.Fields(sentence)
	seen := make(map[string]struct{})
	dates := make([]string, 0)

	for i := 0; i < len(words); i++ {
		for span := 3; span >= 1; span-- {
			if i+span > len(words) {
				continue
			}
			candidate := strings.Trim(strings.Join(words[i:i+span], " "), ".,;:!?")
			if !plausibleDate(candidate) {
				continue
			}
			iso, ok := NormalizeDate(candidate)
			if !ok {
				continue
			}
			if _, dup := seen[iso]; !dup {
				seen[iso] = struct{}{}
				dates = append(dates, iso)
			}
			i += span - 1
			break
		}
	}
	return dates
}

// plausibleDate filters out candidates the date parser would otherwise
// happily misread, like bare small integers or single words.
func plausibleDate(s string) bool {
	if len(s) < 5 {
		return false
	}
	hasDigit := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			hasDigit = true
			break
		}
	}
	return hasDigit
}
