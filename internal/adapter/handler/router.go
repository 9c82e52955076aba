package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inferentia-labs/meeting-knowledge/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	meetingHandler *Meeting
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meetingHandler *Meeting) *Router {
	return &Router{
		cfg:            cfg,
		meetingHandler: meetingHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupMeetingRoutes(v1)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	g.POST("/meetings/process", rt.meetingHandler.ProcessMeeting)

	teams := g.Group("/teams")
	teams.GET("/:team/knowledge-base", rt.meetingHandler.GetKnowledgeBase)
	teams.GET("/:team/export.csv", rt.meetingHandler.ExportCSV)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
