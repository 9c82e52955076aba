package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortByDateIsStable(t *testing.T) {
	kb := KnowledgeBase{
		{Team: "platform", Date: "2026-02-01", Summary: "b"},
		{Team: "platform", Date: "2026-01-15", Summary: "a1"},
		{Team: "platform", Date: "2026-01-15", Summary: "a2"},
	}

	kb.SortByDate()

	assert.Equal(t, "a1", kb[0].Summary)
	assert.Equal(t, "a2", kb[1].Summary)
	assert.Equal(t, "b", kb[2].Summary)
}

func TestPrevious(t *testing.T) {
	assert.Nil(t, KnowledgeBase{}.Previous())
	assert.Nil(t, KnowledgeBase{{Date: "2026-01-15"}}.Previous())

	kb := KnowledgeBase{{Date: "2026-01-15"}, {Date: "2026-02-01"}}
	prev := kb.Previous()
	require.NotNil(t, prev)
	assert.Equal(t, "2026-01-15", prev.Date)
}

func TestNewMeetingRecordDefaults(t *testing.T) {
	rec := NewMeetingRecord("platform", "2026-01-15")

	assert.NotEqual(t, "", rec.ID.String())
	assert.Equal(t, "platform", rec.Team)
	assert.NotNil(t, rec.ActionItems)
	assert.NotNil(t, rec.Decisions)
	assert.Empty(t, rec.ActionItems)
}
