package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
)

// rawActionItem mirrors the object shape the extraction model is prompted
// to emit. Owners and due dates may arrive as a string or a list, so both
// are decoded through flexString.
type rawActionItem struct {
	Task     string     `json:"task"`
	Owners   flexString `json:"owners"`
	DueDates flexString `json:"due_dates"`
	Status   string     `json:"status"`
}

// flexString absorbs a JSON string, list of strings, or null.
type flexString []string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*f = []string{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*f = many
		return nil
	}
	// Unexpected shape: keep the item, drop the field.
	*f = nil
	return nil
}

// extractJSON strips markdown code fences that generation models like to
// wrap their output in.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// NormalizeActionItems turns raw model output into action items. It first
// attempts the strict JSON contract, preserving any owners, due dates and
// status the model provided and defaulting only what is absent; when the
// parse fails it degrades to a line-oriented fallback where every
// non-empty line becomes a bare Confirmed task. The second return reports
// whether the fallback was taken. It never fails: unusable output yields
// an empty slice.
func NormalizeActionItems(raw string) ([]entities.ActionItem, bool) {
	cleaned := extractJSON(raw)

	var parsed []rawActionItem
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		items := make([]entities.ActionItem, 0, len(parsed))
		for _, p := range parsed {
			task := strings.TrimSpace(p.Task)
			if task == "" {
				continue
			}
			status := strings.TrimSpace(p.Status)
			if status == "" {
				status = entities.ActionItemStatusConfirmed
			}
			items = append(items, entities.ActionItem{
				Task:     task,
				Status:   status,
				Owners:   cleanStrings(p.Owners),
				DueDates: cleanStrings(p.DueDates),
			})
		}
		return items, false
	}

	items := make([]entities.ActionItem, 0)
	for _, line := range strings.Split(cleaned, "\n") {
		task := stripBullet(line)
		if task == "" {
			continue
		}
		items = append(items, entities.ActionItem{
			Task:     task,
			Status:   entities.ActionItemStatusConfirmed,
			Owners:   []string{},
			DueDates: []string{},
		})
	}
	return items, true
}

// ParseDecisions splits raw model output into one decision per line,
// stripping list markers and dropping lines that state no decision was
// made.
func ParseDecisions(raw string) []entities.Decision {
	decisions := make([]entities.Decision, 0)
	for _, line := range strings.Split(raw, "\n") {
		text := stripBullet(line)
		if text == "" || containsNone(text) {
			continue
		}
		decisions = append(decisions, entities.Decision{Decision: text})
	}
	return decisions
}

// containsNone matches the model's ways of saying "nothing here":
// "None", "None.", "none were mentioned", etc.
func containsNone(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "none")
}

func stripBullet(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-*•")
	// Numbered lists: "1.", "2)", etc.
	for len(s) > 0 && s[0] >= '0' && s[0] <= '9' {
		s = s[1:]
	}
	s = strings.TrimLeft(s, ".)")
	return strings.TrimSpace(s)
}

func cleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, n := range values {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// NormalizeDate parses a free-form date mention and renders it in ISO
// form. Unparseable mentions are reported as not ok and dropped by the
// caller rather than stored raw.
func NormalizeDate(mention string) (string, bool) {
	t, err := dateparse.ParseAny(strings.TrimSpace(mention))
	if err != nil {
		return "", false
	}
	return t.Format(entities.DateFormat), true
}
