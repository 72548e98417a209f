package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/feedlite/feedlite/internal/store"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
}

// NewHandler creates a unified handler with all sub-handlers. It works
// against the Store contract only, so either backend can sit behind it.
func NewHandler(st store.Store) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(st),
		Post:    NewPostHandler(st),
		Comment: NewCommentHandler(st),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
