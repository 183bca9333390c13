package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sprintboard/internal/models"
)

// handleActiveVacation returns the vacation calendar in effect, or null.
func (s *Server) handleActiveVacation(c *gin.Context) {
	v, err := s.boards.ActiveVacation(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"vacation": v})
}

func (s *Server) handleListVacations(c *gin.Context) {
	list, err := s.boards.ListVacations(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"vacations": list})
}

// handleImportVacation stores a vacation calendar; it stays inactive until
// activated.
func (s *Server) handleImportVacation(c *gin.Context) {
	var req models.Vacation
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	v, err := s.boards.ImportVacation(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"vacation": v})
}

func (s *Server) handleActivateVacation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	v, err := s.boards.ActivateVacation(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"vacation": v})
}

// handleSweep runs the daily sprint sweep on demand.
func (s *Server) handleSweep(c *gin.Context) {
	report, err := s.boards.Sweep(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info("manual sweep", "actor", actorOf(c).ID, "boards_changed", len(report.Boards))
	respondSuccess(c, http.StatusOK, report)
}

// handleSweepLogs lists recent sweep logs; ?limit=N caps the count.
func (s *Server) handleSweepLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	logs, err := s.boards.SweepLogs(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"sweep_logs": logs})
}
