package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sprintboard/internal/boards"
)

type sprintRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleListSprints(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	list, err := s.boards.ListSprints(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"sprints": list})
}

// handleAddSprint appends a sprint; the body and its title are optional.
func (s *Server) handleAddSprint(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req sprintRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
	}

	b, err := s.boards.AddSprint(c.Request.Context(), id, req.Title)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"sprints": b.Sprints})
}

// handleCurrentSprint resolves the board's current sprint; sprint is null
// when there is none.
func (s *Server) handleCurrentSprint(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	current, found, err := s.boards.CurrentSprint(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !found {
		respondSuccess(c, http.StatusOK, gin.H{"sprint": nil})
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"sprint": current})
}

// handleUpdateSprint renames a sprint or, for admins, overrides its status.
func (s *Server) handleUpdateSprint(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sprintID, ok := parseSprintID(c)
	if !ok {
		return
	}

	var req boards.SprintUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	b, changes, err := s.boards.UpdateSprint(c.Request.Context(), id, sprintID, req, actorOf(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"sprints": b.Sprints, "columns": b.Columns, "changes": changes})
}

func (s *Server) handleRemoveSprint(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sprintID, ok := parseSprintID(c)
	if !ok {
		return
	}

	b, err := s.boards.RemoveSprint(c.Request.Context(), id, sprintID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"sprints": b.Sprints})
}
