package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sprintboard/internal/models"
)

const (
	requestIDHeader = "X-Request-ID"
	actorIDHeader   = "X-Actor-ID"
	actorRoleHeader = "X-Actor-Role"

	requestIDKey = "request_id"
	actorKey     = "actor"
)

// requestID propagates the caller's request id or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// actorFromHeaders reads the identity an upstream proxy authenticated.
func actorFromHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(actorKey, models.Actor{
			ID:   strings.TrimSpace(c.GetHeader(actorIDHeader)),
			Role: strings.ToLower(strings.TrimSpace(c.GetHeader(actorRoleHeader))),
		})
		c.Next()
	}
}

// requireAdmin rejects callers without the admin role.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorOf(c).IsAdmin() {
			s.fail(c, fmt.Errorf("%s %s: %w", c.Request.Method, c.FullPath(), models.ErrUnauthorized))
			c.Abort()
			return
		}
		c.Next()
	}
}

func actorOf(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(models.Actor); ok {
			return a
		}
	}
	return models.Actor{}
}

// observe records request counts and latency per route template.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.metrics == nil {
			c.Next()
			return
		}
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(started))
	}
}
