package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feedlite/feedlite/internal/models"
	"github.com/feedlite/feedlite/internal/store"
)

type CommentHandler struct {
	store store.Store
}

func NewCommentHandler(st store.Store) *CommentHandler {
	return &CommentHandler{store: st}
}

// GetComments returns all comments for a post, oldest first
func (h *CommentHandler) GetComments(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	views, err := h.store.ListComments(postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	if views == nil {
		views = []models.CommentView{}
	}

	c.JSON(http.StatusOK, views)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	authorID, exists := extractUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch err := h.store.AddComment(authorID, postID, input.Body); {
	case errors.Is(err, store.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Comment created"})
	}
}
