package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guyghost/wakeve-auth/domain"
	"github.com/guyghost/wakeve-auth/internal/http/middleware"
)

// SessionHandlers handles session lifecycle HTTP requests. Every operation
// is scoped to the authenticated user; a session id belonging to someone
// else reads as not found.
type SessionHandlers struct {
	sessionMgr domain.SessionManager
}

// NewSessionHandlers creates new session handlers
func NewSessionHandlers(sessionMgr domain.SessionManager) *SessionHandlers {
	return &SessionHandlers{sessionMgr: sessionMgr}
}

// List returns all of the caller's sessions
func (h *SessionHandlers) List(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	sessions := h.sessionMgr.GetUserSessions(c.Request.Context(), userID)
	out := make([]gin.H, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessionJSON(&sessions[i]))
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"sessions": out}})
}

// Get returns one of the caller's sessions
func (h *SessionHandlers) Get(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	sessionID := c.Param("id")

	session := h.sessionMgr.GetSession(c.Request.Context(), sessionID)
	if session == nil || session.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sessionJSON(session)})
}

// Revoke revokes one of the caller's sessions
func (h *SessionHandlers) Revoke(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	sessionID := c.Param("id")

	session := h.sessionMgr.GetSession(c.Request.Context(), sessionID)
	if session == nil || session.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if err := h.sessionMgr.RevokeSession(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Session revoked",
		},
	})
}

// sessionJSON renders a session without its token material.
func sessionJSON(s *domain.Session) gin.H {
	return gin.H{
		"id":               s.ID,
		"created_at":       s.CreatedAt,
		"last_accessed_at": s.LastAccessedAt,
		"revoked":          s.Revoked,
	}
}
