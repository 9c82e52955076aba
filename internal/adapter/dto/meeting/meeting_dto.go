package meeting

import (
	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
)

// ProcessMeetingRequest is the multipart form accompanying an uploaded
// recording. The audio file itself travels as the "audio_file" form file.
type ProcessMeetingRequest struct {
	Team string `form:"team" validate:"required,teamname"`
}

// ActionItemResponse is one extracted action item
type ActionItemResponse struct {
	Task     string   `json:"task"`
	Status   string   `json:"status"`
	Owners   []string `json:"owners"`
	DueDates []string `json:"due_dates"`
}

// DecisionResponse is one extracted decision
type DecisionResponse struct {
	Decision string `json:"decision"`
	Status   string `json:"status"`
}

// MeetingRecordResponse is the API shape of a stored meeting record
type MeetingRecordResponse struct {
	ID            string               `json:"id"`
	Team          string               `json:"team"`
	Date          string               `json:"date"`
	Summary       string               `json:"summary"`
	TranscriptRef string               `json:"transcript_ref,omitempty"`
	ActionItems   []ActionItemResponse `json:"action_items"`
	Decisions     []DecisionResponse   `json:"decisions"`
}

// ProcessMeetingResponse reports the stored record plus the previous
// meeting's record when the team had prior history.
type ProcessMeetingResponse struct {
	Record   MeetingRecordResponse  `json:"record"`
	Previous *MeetingRecordResponse `json:"previous,omitempty"`
	Degraded bool                   `json:"degraded"`
}

// KnowledgeBaseResponse is a team's full meeting history
type KnowledgeBaseResponse struct {
	Team    string                  `json:"team"`
	Count   int                     `json:"count"`
	Records []MeetingRecordResponse `json:"records"`
}

// ToMeetingRecordResponse maps a domain record to its API shape
func ToMeetingRecordResponse(rec *entities.MeetingRecord) MeetingRecordResponse {
	items := make([]ActionItemResponse, 0, len(rec.ActionItems))
	for _, it := range rec.ActionItems {
		items = append(items, ActionItemResponse{
			Task:     it.Task,
			Status:   it.Status,
			Owners:   it.Owners,
			DueDates: it.DueDates,
		})
	}
	decisions := make([]DecisionResponse, 0, len(rec.Decisions))
	for _, d := range rec.Decisions {
		decisions = append(decisions, DecisionResponse{
			Decision: d.Decision,
			Status:   entities.DecisionStatusFinalized,
		})
	}
	return MeetingRecordResponse{
		ID:            rec.ID.String(),
		Team:          rec.Team,
		Date:          rec.Date,
		Summary:       rec.Summary,
		TranscriptRef: rec.TranscriptRef,
		ActionItems:   items,
		Decisions:     decisions,
	}
}

// ToKnowledgeBaseResponse maps a team's knowledge base to its API shape
func ToKnowledgeBaseResponse(team string, kb entities.KnowledgeBase) KnowledgeBaseResponse {
	records := make([]MeetingRecordResponse, 0, len(kb))
	for i := range kb {
		records = append(records, ToMeetingRecordResponse(&kb[i]))
	}
	return KnowledgeBaseResponse{Team: team, Count: len(records), Records: records}
}
