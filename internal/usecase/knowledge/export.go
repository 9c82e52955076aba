package knowledge

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/inferentia-labs/meeting-knowledge/errors"
	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
)

// exportHeader is the fixed column layout downstream spreadsheets expect.
var exportHeader = []string{"Date", "Type", "Task/Decision", "Owners", "Due Dates", "Status"}

// Row is one line of the export table.
type Row struct {
	Date     string
	Type     string
	Text     string
	Owners   string
	DueDates string
	Status   string
}

// ExportTable flattens a knowledge base into spreadsheet rows. Each
// record contributes its action items first and its decisions second, in
// stored order, so the table mirrors the base exactly: one row per
// action item plus one row per decision.
func ExportTable(kb entities.KnowledgeBase) []Row {
	rows := make([]Row, 0)
	for _, rec := range kb {
		for _, item := range rec.ActionItems {
			rows = append(rows, Row{
				Date:     rec.Date,
				Type:     "Action Item",
				Text:     item.Task,
				Owners:   strings.Join(item.Owners, ", "),
				DueDates: strings.Join(item.DueDates, ", "),
				Status:   item.Status,
			})
		}
		for _, dec := range rec.Decisions {
			rows = append(rows, Row{
				Date:   rec.Date,
				Type:   "Decision",
				Text:   dec.Decision,
				Status: entities.DecisionStatusFinalized,
			})
		}
	}
	return rows
}

// WriteCSV renders the knowledge base as CSV. The header row is always
// written, so an empty base produces a header-only file.
func WriteCSV(w io.Writer, kb entities.KnowledgeBase) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return errors.ErrExportFailed(err)
	}
	for _, row := range ExportTable(kb) {
		record := []string{row.Date, row.Type, row.Text, row.Owners, row.DueDates, row.Status}
		if err := cw.Write(record); err != nil {
			return errors.ErrExportFailed(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.ErrExportFailed(err)
	}
	return nil
}
