package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sprintboard/internal/boards"
)

// handleListBoards returns all boards without their columns.
func (s *Server) handleListBoards(c *gin.Context) {
	list, err := s.boards.ListBoards(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"boards": list})
}

// handleCreateBoard creates a board, its sprints and the default columns.
func (s *Server) handleCreateBoard(c *gin.Context) {
	var req boards.CreateBoardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	b, err := s.boards.CreateBoard(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"board": b})
}

// handleGetBoard returns a board with its columns and cards.
func (s *Server) handleGetBoard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	b, err := s.boards.GetBoard(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"board": b})
}

// handleUpdateBoard edits board fields; a new end date redistributes sprints.
func (s *Server) handleUpdateBoard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req boards.UpdateBoardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	b, err := s.boards.UpdateBoard(c.Request.Context(), id, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"board": b})
}

// handleDeleteBoard removes a board with everything on it.
func (s *Server) handleDeleteBoard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := s.boards.DeleteBoard(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusNoContent, nil)
}

// handleCalendar returns the board's aggregated non-working days.
func (s *Server) handleCalendar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	days, err := s.boards.NonWorkingDays(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"non_working_days": days})
}

// handleBurndown returns the board burndown, or a sprint's with ?sprint=N.
func (s *Server) handleBurndown(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sprintID := 0
	if raw := c.Query("sprint"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sprint identifier"})
			return
		}
		sprintID = n
	}

	series, err := s.boards.Burndown(c.Request.Context(), id, sprintID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"burndown": series})
}
