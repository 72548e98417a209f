package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feedlite/feedlite/internal/models"
	"github.com/feedlite/feedlite/internal/store"
)

const defaultFeedLimit = 50

type PostHandler struct {
	store store.Store
}

func NewPostHandler(st store.Store) *PostHandler {
	return &PostHandler{store: st}
}

// GetPosts returns the feed, newest first. An optional ?q= keyword filters
// it; the viewer is taken from the bearer token when one is present.
func (h *PostHandler) GetPosts(c *gin.Context) {
	viewerID, _ := extractUserID(c) // anonymous viewers get id 0

	limit := defaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	var (
		views []models.PostView
		err   error
	)
	if keyword, filtered := c.GetQuery("q"); filtered {
		views, err = h.store.Search(viewerID, keyword, limit)
	} else {
		views, err = h.store.ListRecent(viewerID, limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	// If no posts, return empty array not null
	if views == nil {
		views = []models.PostView{}
	}

	c.JSON(http.StatusOK, views)
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authorID, exists := extractUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.store.CreatePost(authorID, input.FilePath, input.FileName, input.Body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post created"})
}

// UpdatePost replaces a post's text body (PROTECTED - author only)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	editorID, exists := extractUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch err := h.store.UpdatePost(editorID, postID, input.Body); {
	case errors.Is(err, store.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, store.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Post updated"})
	}
}

// DeletePost deletes a post (PROTECTED - author only)
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	requesterID, exists := extractUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	switch err := h.store.DeletePost(requesterID, postID); {
	case errors.Is(err, store.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, store.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
	}
}

// ReactToPost toggles the caller's LIKE/DISLIKE on a post and returns the
// state they now hold.
func (h *PostHandler) ReactToPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	userID, exists := extractUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.ToggleReactionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reaction type must be LIKE or DISLIKE"})
		return
	}

	state, err := h.store.ToggleReaction(userID, postID, models.ReactionState(input.Type))
	if errors.Is(err, store.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to react"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}
