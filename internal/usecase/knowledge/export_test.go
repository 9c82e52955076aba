package knowledge

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
)

func sampleKB() entities.KnowledgeBase {
	first := entities.NewMeetingRecord("platform", "2026-01-15")
	first.Summary = "Kickoff."
	first.ActionItems = []entities.ActionItem{
		{Task: "Email the vendor", Status: entities.ActionItemStatusConfirmed, Owners: []string{"Alice"}, DueDates: []string{"2026-01-20"}},
		{Task: "Draft the report", Status: entities.ActionItemStatusNeedsClarification, Owners: []string{}, DueDates: []string{}},
	}
	first.Decisions = []entities.Decision{{Decision: "Switch vendors"}}

	second := entities.NewMeetingRecord("platform", "2026-02-01")
	second.Summary = "Follow-up."
	second.Decisions = []entities.Decision{{Decision: "Freeze hiring"}}

	return entities.KnowledgeBase{*first, *second}
}

func TestExportTableRowCount(t *testing.T) {
	kb := sampleKB()

	rows := ExportTable(kb)

	// One row per action item plus one per decision.
	require.Len(t, rows, 4)
	assert.Equal(t, "Action Item", rows[0].Type)
	assert.Equal(t, "Action Item", rows[1].Type)
	assert.Equal(t, "Decision", rows[2].Type)
	assert.Equal(t, "Decision", rows[3].Type)
}

func TestExportTableRowContent(t *testing.T) {
	rows := ExportTable(sampleKB())

	assert.Equal(t, Row{
		Date:     "2026-01-15",
		Type:     "Action Item",
		Text:     "Email the vendor",
		Owners:   "Alice",
		DueDates: "2026-01-20",
		Status:   entities.ActionItemStatusConfirmed,
	}, rows[0])

	assert.Equal(t, Row{
		Date:   "2026-01-15",
		Type:   "Decision",
		Text:   "Switch vendors",
		Status: entities.DecisionStatusFinalized,
	}, rows[2])

	assert.Equal(t, "2026-02-01", rows[3].Date)
	assert.Equal(t, "Freeze hiring", rows[3].Text)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleKB()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, []string{"Date", "Type", "Task/Decision", "Owners", "Due Dates", "Status"}, records[0])
	assert.Equal(t, []string{"2026-01-15", "Action Item", "Email the vendor", "Alice", "2026-01-20", "Confirmed"}, records[1])
}

func TestWriteCSVEmptyBase(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entities.KnowledgeBase{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Date", records[0][0])
}

func TestExportJoinsMultipleOwners(t *testing.T) {
	rec := entities.NewMeetingRecord("platform", "2026-01-15")
	rec.ActionItems = []entities.ActionItem{
		{Task: "Plan offsite", Status: entities.ActionItemStatusConfirmed, Owners: []string{"Alice", "Bob"}, DueDates: []string{"2026-03-01", "2026-03-02"}},
	}

	rows := ExportTable(entities.KnowledgeBase{*rec})
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice, Bob", rows[0].Owners)
	assert.Equal(t, "2026-03-01, 2026-03-02", rows[0].DueDates)
}
