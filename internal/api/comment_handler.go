package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/comments-api/internal/models"
	"github.com/comments-api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	msgCommentDeleted  = "Comment deleted successfully"
	msgCommentNotFound = "Comment not found"
	msgInternalError   = "Internal server error"
)

// CommentHandler handles comment lookup and deletion
type CommentHandler struct {
	store   repository.CommentRepository
	timeout time.Duration
	log     zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(store repository.CommentRepository, timeout time.Duration, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		store:   store,
		timeout: timeout,
		log:     log.With().Str("handler", "comments").Logger(),
	}
}

// GetPostComments handles GET /post/:postId
func (h *CommentHandler) GetPostComments(c *gin.Context) {
	postID := c.Param("postId")

	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()

	comments, err := h.store.FindByPostID(ctx, postID)
	if err != nil {
		h.log.Error().
			Err(err).
			Str("post_id", postID).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Error fetching comments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	c.JSON(http.StatusOK, comments)
}

// DeleteComment handles DELETE /:commentId
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID := c.Param("commentId")

	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()

	comment, err := h.store.FindByIDAndDelete(ctx, commentID)
	if err != nil {
		event := h.log.Error().
			Err(err).
			Str("comment_id", commentID).
			Str("request_id", c.GetString(requestIDKey))
		if errors.Is(err, repository.ErrMalformedID) {
			event.Msg("Store rejected comment id")
		} else {
			event.Msg("Error deleting comment")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	if comment == nil {
		h.log.Debug().Str("comment_id", commentID).Msg("Comment not found")
		c.JSON(http.StatusNotFound, gin.H{"error": msgCommentNotFound})
		return
	}

	h.log.Info().
		Str("comment_id", comment.ID).
		Str("post_id", comment.PostID).
		Msg("Comment deleted")

	c.JSON(http.StatusOK, gin.H{"message": msgCommentDeleted})
}
