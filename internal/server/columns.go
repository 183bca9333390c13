package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sprintboard/internal/models"
)

type columnRequest struct {
	Title string            `json:"title"`
	Role  models.ColumnRole `json:"role"`
}

func (s *Server) handleListColumns(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	columns, err := s.boards.ListColumns(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"columns": columns})
}

// handleCreateColumn appends a column to the board.
func (s *Server) handleCreateColumn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req columnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}

	column, err := s.boards.CreateColumn(c.Request.Context(), id, req.Title, req.Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"column": column})
}

// handleUpdateColumn renames a column and optionally changes its role.
func (s *Server) handleUpdateColumn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req columnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	column, err := s.boards.UpdateColumn(c.Request.Context(), id, req.Title, req.Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"column": column})
}

func (s *Server) handleDeleteColumn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := s.boards.DeleteColumn(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusNoContent, nil)
}

// handleToggleColumnLock flips a column between active and locked.
func (s *Server) handleToggleColumnLock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	column, err := s.boards.ToggleColumnLock(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"column": column})
}
