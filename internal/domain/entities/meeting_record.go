package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActionItem is a single task extracted from a meeting transcript.
// Owners and DueDates are filled by the enrichment stage and default to
// empty slices, never nil, after normalization.
type ActionItem struct {
	Task     string   `json:"task"`
	Status   string   `json:"status"`
	Owners   []string `json:"owners"`
	DueDates []string `json:"due_dates"`
}

// ActionItemStatus constants
const (
	ActionItemStatusConfirmed          = "Confirmed"
	ActionItemStatusNeedsClarification = "NeedsClarification"
)

// Decision is a single decision extracted from a meeting transcript.
// The text has bullet markers and surrounding whitespace stripped.
type Decision struct {
	Decision string `json:"decision"`
}

// DecisionStatusFinalized is the status reported for decisions in exports.
// Decisions are by definition already made, so there is a single value.
const DecisionStatusFinalized = "Finalized"

// MeetingRecord is the unified structured output of processing one
// meeting's audio. It is immutable after creation; the only mutation of
// shared state is appending it to a team's knowledge base.
type MeetingRecord struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	Team            string         `json:"team" gorm:"type:varchar(255);not null;index"`
	Date            string         `json:"date" gorm:"type:varchar(10);not null;index"`
	Summary         string         `json:"summary" gorm:"type:text;not null"`
	TranscriptRef   string         `json:"transcript_file" gorm:"type:text"`
	ActionItems     []ActionItem   `json:"action_items" gorm:"-"`
	Decisions       []Decision     `json:"decisions" gorm:"-"`
	ActionItemsJSON datatypes.JSON `json:"-" gorm:"column:action_items;type:jsonb"`
	DecisionsJSON   datatypes.JSON `json:"-" gorm:"column:decisions;type:jsonb"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for MeetingRecord
func (MeetingRecord) TableName() string {
	return "meetings"
}

// NewMeetingRecord creates a record for a processed meeting. The date is
// the processing date, not derived from the audio.
func NewMeetingRecord(team, date string) *MeetingRecord {
	return &MeetingRecord{
		ID:          uuid.New(),
		Team:        team,
		Date:        date,
		ActionItems: make([]ActionItem, 0),
		Decisions:   make([]Decision, 0),
	}
}

// DateFormat is the layout for MeetingRecord.Date values.
const DateFormat = "2006-01-02"
