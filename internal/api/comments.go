package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/service"
	"github.com/picfeed/picfeed/pkg/logging"
)

// CommentAPI serves comment, reply and comment-like routes
type CommentAPI struct {
	comments *service.CommentService
	logger   *zap.Logger
}

// NewCommentAPI creates a new comment API
func NewCommentAPI(comments *service.CommentService) *CommentAPI {
	return &CommentAPI{
		comments: comments,
		logger:   logging.GetLogger().With(zap.String("component", "api-comments")),
	}
}

type createCommentRequest struct {
	Content         string     `json:"content"`
	ParentCommentID *uuid.UUID `json:"parentCommentId"`
}

// ForPost handles GET /api/comments/post/:postId?take&skip
func (a *CommentAPI) ForPost(c *gin.Context) {
	postID, err := uuidParam(c, "postId", "post")
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	take, skip, err := paging(c, service.DefaultCommentTake)
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	list, err := a.comments.TopLevel(c.Request.Context(), postID, currentUserID(c), service.CommentPage(take, skip))
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Replies handles GET /api/comments/replies/:parentId?take&skip
func (a *CommentAPI) Replies(c *gin.Context) {
	parentID, err := uuidParam(c, "parentId", "comment")
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	take, skip, err := paging(c, service.DefaultCommentTake)
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	list, err := a.comments.Replies(c.Request.Context(), parentID, currentUserID(c), service.CommentPage(take, skip))
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create handles POST /api/comments/post/:postId
func (a *CommentAPI) Create(c *gin.Context) {
	postID, err := uuidParam(c, "postId", "post")
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	var req createCommentRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	comment, err := a.comments.Create(c.Request.Context(), postID, currentUserID(c), req.Content, req.ParentCommentID)
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Delete handles DELETE /api/comments/:id
func (a *CommentAPI) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id", "comment")
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	if err := a.comments.Delete(c.Request.Context(), id, currentUserID(c)); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Like handles POST /api/comments/:id/like
func (a *CommentAPI) Like(c *gin.Context) {
	id, err := uuidParam(c, "id", "comment")
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	if err := a.comments.Like(c.Request.Context(), id, currentUserID(c)); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unlike handles DELETE /api/comments/:id/like
func (a *CommentAPI) Unlike(c *gin.Context) {
	id, err := uuidParam(c, "id", "comment")
	if err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	if err := a.comments.Unlike(c.Request.Context(), id, currentUserID(c)); err != nil {
		abortWithError(c, a.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
