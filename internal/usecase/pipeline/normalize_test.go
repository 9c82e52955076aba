package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
)

func TestNormalizeActionItemsValidJSON(t *testing.T) {
	raw := `[
		{"task": "Email the vendor", "owners": "Alice", "due_dates": ["2026-03-05"]},
		{"task": "Update the roadmap", "owners": ["Bob", "Carol"], "due_dates": null}
	]`

	items, degraded := NormalizeActionItems(raw)
	require.False(t, degraded)
	require.Len(t, items, 2)

	assert.Equal(t, "Email the vendor", items[0].Task)
	assert.Equal(t, entities.ActionItemStatusConfirmed, items[0].Status)
	assert.Equal(t, []string{"Alice"}, items[0].Owners)
	assert.Equal(t, []string{"2026-03-05"}, items[0].DueDates)

	assert.Equal(t, []string{"Bob", "Carol"}, items[1].Owners)
	assert.Empty(t, items[1].DueDates)
}

func TestNormalizeActionItemsKeepsProvidedFields(t *testing.T) {
	raw := `[{"task": "Send the report", "owners": ["Alice"], "due_dates": ["2026-03-05"], "status": "NeedsClarification"}]`

	items, degraded := NormalizeActionItems(raw)
	require.False(t, degraded)
	require.Len(t, items, 1)

	assert.Equal(t, "Send the report", items[0].Task)
	assert.Equal(t, entities.ActionItemStatusNeedsClarification, items[0].Status)
	assert.Equal(t, []string{"Alice"}, items[0].Owners)
	assert.Equal(t, []string{"2026-03-05"}, items[0].DueDates)
}

func TestNormalizeActionItemsDefaultsStatusOnlyWhenAbsent(t *testing.T) {
	raw := `[
		{"task": "With status", "status": "NeedsClarification"},
		{"task": "Without status"},
		{"task": "Blank status", "status": ""}
	]`

	items, degraded := NormalizeActionItems(raw)
	require.False(t, degraded)
	require.Len(t, items, 3)

	assert.Equal(t, entities.ActionItemStatusNeedsClarification, items[0].Status)
	assert.Equal(t, entities.ActionItemStatusConfirmed, items[1].Status)
	assert.Equal(t, entities.ActionItemStatusConfirmed, items[2].Status)
}

func TestNormalizeActionItemsStripsCodeFences(t *testing.T) {
	raw := "```json\n[{\"task\": \"Ship the release\", \"owner\": null, \"due\": null}]\n```"

	items, degraded := NormalizeActionItems(raw)
	require.False(t, degraded)
	require.Len(t, items, 1)
	assert.Equal(t, "Ship the release", items[0].Task)
}

func TestNormalizeActionItemsSkipsEmptyTasks(t *testing.T) {
	raw := `[{"task": "", "owner": "Alice", "due": null}, {"task": "Real task", "owner": null, "due": null}]`

	items, degraded := NormalizeActionItems(raw)
	require.False(t, degraded)
	require.Len(t, items, 1)
	assert.Equal(t, "Real task", items[0].Task)
}

func TestNormalizeActionItemsLineFallback(t *testing.T) {
	raw := "- Email the vendor\n* Update the roadmap\n\n3. Book the venue"

	items, degraded := NormalizeActionItems(raw)
	require.True(t, degraded)
	require.Len(t, items, 3)

	for _, item := range items {
		assert.Equal(t, entities.ActionItemStatusConfirmed, item.Status)
		assert.Empty(t, item.Owners)
		assert.Empty(t, item.DueDates)
	}
	assert.Equal(t, "Email the vendor", items[0].Task)
	assert.Equal(t, "Update the roadmap", items[1].Task)
	assert.Equal(t, "Book the venue", items[2].Task)
}

func TestNormalizeActionItemsFallbackKeepsEveryLine(t *testing.T) {
	raw := "Email the vendor\nNone of the slides are ready\nBook the venue"

	items, degraded := NormalizeActionItems(raw)
	require.True(t, degraded)
	require.Len(t, items, 3)

	assert.Equal(t, "None of the slides are ready", items[1].Task)
	for _, item := range items {
		assert.Equal(t, entities.ActionItemStatusConfirmed, item.Status)
	}
}

func TestNormalizeActionItemsUnusableOutput(t *testing.T) {
	items, degraded := NormalizeActionItems("   \n\n\t")
	require.True(t, degraded)
	assert.Empty(t, items)
}

func TestParseDecisions(t *testing.T) {
	raw := "- Switch vendors\n1. Freeze hiring until Q2\nNone about the budget\n\n• Adopt the new logo"

	decisions := ParseDecisions(raw)
	require.Len(t, decisions, 3)
	assert.Equal(t, "Switch vendors", decisions[0].Decision)
	assert.Equal(t, "Freeze hiring until Q2", decisions[1].Decision)
	assert.Equal(t, "Adopt the new logo", decisions[2].Decision)
}

func TestParseDecisionsAllNone(t *testing.T) {
	assert.Empty(t, ParseDecisions("None"))
	assert.Empty(t, ParseDecisions("none were made"))
	assert.Empty(t, ParseDecisions(""))
}

func TestNormalizeDate(t *testing.T) {
	iso, ok := NormalizeDate("March 5, 2026")
	require.True(t, ok)
	assert.Equal(t, "2026-03-05", iso)

	iso, ok = NormalizeDate("2026-03-05")
	require.True(t, ok)
	assert.Equal(t, "2026-03-05", iso)

	_, ok = NormalizeDate("sometime soon")
	assert.False(t, ok)
}
