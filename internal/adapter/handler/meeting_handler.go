package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/inferentia-labs/meeting-knowledge/errors"
	"github.com/inferentia-labs/meeting-knowledge/internal/adapter/dto/meeting"
	"github.com/inferentia-labs/meeting-knowledge/internal/usecase/knowledge"
	"github.com/inferentia-labs/meeting-knowledge/internal/usecase/pipeline"
	"github.com/inferentia-labs/meeting-knowledge/pkg/config"
)

// ExportStore persists a copy of generated CSV exports
type ExportStore interface {
	SaveExport(ctx context.Context, team, name string, csv []byte) (string, error)
}

// Meeting handles meeting processing and knowledge base endpoints
type Meeting struct {
	svc     pipeline.Service
	cfg     *config.Config
	exports ExportStore
	logger  *zap.Logger
}

// NewMeetingHandler creates the meeting handler. exports may be nil, in
// which case CSV exports are streamed without keeping a stored copy.
func NewMeetingHandler(svc pipeline.Service, cfg *config.Config, exports ExportStore, logger *zap.Logger) *Meeting {
	return &Meeting{svc: svc, cfg: cfg, exports: exports, logger: logger}
}

// ProcessMeeting accepts a multipart upload with a "team" field and an
// "audio_file" file, runs the pipeline, and returns the stored record.
func (h *Meeting) ProcessMeeting(c echo.Context) error {
	var req meeting.ProcessMeetingRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return h.handleError(c, errors.ErrInvalidArgument("team must be a valid team name"))
	}
	if !h.cfg.KnownTeam(req.Team) {
		return h.handleError(c, errors.ErrTeamNotFound(req.Team))
	}

	fileHeader, err := c.FormFile("audio_file")
	if err != nil {
		return h.handleError(c, errors.ErrInvalidArgument("audio_file is required"))
	}
	audio, err := fileHeader.Open()
	if err != nil {
		return h.handleError(c, errors.ErrInvalidPayload())
	}
	defer audio.Close()

	result, err := h.svc.ProcessMeeting(c.Request().Context(), req.Team, audio, fileHeader.Filename)
	if err != nil {
		return h.handleError(c, err)
	}

	resp := meeting.ProcessMeetingResponse{
		Record:   meeting.ToMeetingRecordResponse(&result.Record),
		Degraded: result.Degraded,
	}
	if result.Previous != nil {
		prev := meeting.ToMeetingRecordResponse(result.Previous)
		resp.Previous = &prev
	}
	return h.handleSuccess(c, http.StatusOK, resp)
}

// GetKnowledgeBase returns a team's full meeting history in stored order
func (h *Meeting) GetKnowledgeBase(c echo.Context) error {
	team := c.Param("team")
	if !h.cfg.KnownTeam(team) {
		return h.handleError(c, errors.ErrTeamNotFound(team))
	}

	kb, err := h.svc.GetKnowledgeBase(c.Request().Context(), team)
	if err != nil {
		return h.handleError(c, err)
	}
	return h.handleSuccess(c, http.StatusOK, meeting.ToKnowledgeBaseResponse(team, kb))
}

// ExportCSV renders a team's knowledge base as a CSV attachment. When an
// export store is configured a copy is also kept there; failing to keep
// the copy does not fail the download.
func (h *Meeting) ExportCSV(c echo.Context) error {
	team := c.Param("team")
	if !h.cfg.KnownTeam(team) {
		return h.handleError(c, errors.ErrTeamNotFound(team))
	}

	kb, err := h.svc.GetKnowledgeBase(c.Request().Context(), team)
	if err != nil {
		return h.handleError(c, err)
	}

	var buf bytes.Buffer
	if err := knowledge.WriteCSV(&buf, kb); err != nil {
		return h.handleError(c, err)
	}

	if h.exports != nil {
		name := fmt.Sprintf("export_%s.csv", time.Now().UTC().Format("20060102T150405Z"))
		if _, err := h.exports.SaveExport(c.Request().Context(), team, name, buf.Bytes()); err != nil {
			if h.logger != nil {
				h.logger.Warn("keeping export copy failed",
					zap.String("team", team), zap.Error(err))
			}
		}
	}

	filename := fmt.Sprintf("%s_knowledge_base.csv", team)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
