package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sprintboard/internal/boards"
	"sprintboard/internal/metrics"
	"sprintboard/internal/models"
)

// Server provides HTTP handlers for the sprint board backend.
type Server struct {
	engine  *gin.Engine
	boards  *boards.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs the HTTP server with routes and middleware configured.
// A nil m disables request metrics and the /metrics route.
func New(svc *boards.Service, logger *slog.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz", "/metrics"))

	srv := &Server{
		engine:  router,
		boards:  svc,
		logger:  logger,
		metrics: m,
	}
	router.Use(srv.observe())

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.engine.Group("/api")
	api.Use(actorFromHeaders())
	{
		api.GET("/healthz", s.handleHealth)

		b := api.Group("/boards")
		{
			b.GET("", s.handleListBoards)
			b.POST("", s.handleCreateBoard)
			b.GET(":id", s.handleGetBoard)
			b.PUT(":id", s.handleUpdateBoard)
			b.DELETE(":id", s.handleDeleteBoard)

			b.GET(":id/sprints", s.handleListSprints)
			b.POST(":id/sprints", s.handleAddSprint)
			b.GET(":id/sprints/current", s.handleCurrentSprint)
			b.PUT(":id/sprints/:sprintId", s.handleUpdateSprint)
			b.DELETE(":id/sprints/:sprintId", s.handleRemoveSprint)

			b.GET(":id/calendar", s.handleCalendar)
			b.GET(":id/burndown", s.handleBurndown)

			b.GET(":id/columns", s.handleListColumns)
			b.POST(":id/columns", s.handleCreateColumn)
		}

		api.PUT("/columns/:id", s.handleUpdateColumn)
		api.DELETE("/columns/:id", s.handleDeleteColumn)
		api.POST("/columns/:id/toggle-lock", s.handleToggleColumnLock)
		api.POST("/columns/:id/cards", s.handleCreateCard)

		api.PUT("/cards/:id", s.handleUpdateCard)
		api.DELETE("/cards/:id", s.handleDeleteCard)
		api.POST("/cards/:id/move", s.handleMoveCard)

		api.GET("/vacations", s.handleListVacations)
		api.GET("/vacations/active", s.handleActiveVacation)

		admin := api.Group("/admin")
		admin.Use(s.requireAdmin())
		{
			admin.POST("/sweep", s.handleSweep)
			admin.GET("/sweep-logs", s.handleSweepLogs)
			admin.POST("/vacations", s.handleImportVacation)
			admin.POST("/vacations/:id/activate", s.handleActivateVacation)
		}
	}
}

// handleHealth reports readiness, including database reachability.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.boards.Ping(c.Request.Context()); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// parseSprintID converts the sprint path parameter, which is a board-local id.
func parseSprintID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("sprintId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sprint identifier"})
		return 0, false
	}
	return id, true
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidRange), errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrLocked), errors.Is(err, models.ErrInconsistentState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail responds with the status matching err.
func (s *Server) fail(c *gin.Context, err error) {
	s.respondError(c, statusFor(err), err)
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	attrs := []any{
		slog.String("path", c.FullPath()),
		slog.String("request_id", c.GetString(requestIDKey)),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
	} else {
		s.logger.Warn("request rejected", attrs...)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
