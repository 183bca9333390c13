package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sprintboard/internal/models"
)

type cardRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Points      float64 `json:"points"`
}

type moveRequest struct {
	ColumnID int64 `json:"column_id"`
}

// handleCreateCard adds a card to an unlocked column.
func (s *Server) handleCreateCard(c *gin.Context) {
	columnID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}

	card, err := s.boards.CreateCard(c.Request.Context(), columnID, models.Card{
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"card": card})
}

// handleUpdateCard edits the fields present in the body.
func (s *Server) handleUpdateCard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.CardChanges
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	card, err := s.boards.UpdateCard(c.Request.Context(), id, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"card": card})
}

func (s *Server) handleDeleteCard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := s.boards.DeleteCard(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusNoContent, nil)
}

// handleMoveCard moves a card to another column of the same board.
func (s *Server) handleMoveCard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.ColumnID <= 0 {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("column_id is required"))
		return
	}

	card, err := s.boards.MoveCard(c.Request.Context(), id, req.ColumnID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"card": card})
}
