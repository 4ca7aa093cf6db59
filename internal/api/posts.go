package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/service"
	"github.com/picfeed/picfeed/pkg/logging"
)

// PostAPI serves feed and post routes
type PostAPI struct {
	feed   *service.FeedService
	posts  *service.PostService
	logger *zap.Logger
}

// NewPostAPI creates a new post API
func NewPostAPI(feed *service.FeedService, posts *service.PostService) *PostAPI {
	return &PostAPI{
		feed:   feed,
		posts:  posts,
		logger: logging.GetLogger().With(zap.String("component", "api-posts")),
	}
}

type createPostRequest struct {
	ImageURL string  `json:"imageUrl"`
	Caption  *string `json:"caption"`
}

// Mine handles GET /api/posts/me
func (p *PostAPI) Mine(c *gin.Context) {
	me := currentUserID(c)
	posts, err := p.feed.UserPosts(c.Request.Context(), me, me)
	if err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Feed handles GET /api/posts/feed?take&skip
func (p *PostAPI) Feed(c *gin.Context) {
	take, skip, err := paging(c, service.DefaultFeedTake)
	if err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	posts, err := p.feed.Feed(c.Request.Context(), currentUserID(c), service.FeedPage(take, skip))
	if err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Get handles GET /api/posts/:id
func (p *PostAPI) Get(c *gin.Context) {
	id, err := uuidParam(c, "id", "post")
	if err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	post, err := p.feed.Post(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Create handles POST /api/posts
func (p *PostAPI) Create(c *gin.Context) {
	var req createPostRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	post, err := p.posts.Create(c.Request.Context(), currentUserID(c), req.ImageURL, req.Caption)
	if err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	c.Header("Location", "/api/posts/"+post.ID.String())
	c.JSON(http.StatusCreated, post)
}

// Delete handles DELETE /api/posts/:id
func (p *PostAPI) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id", "post")
	if err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	if err := p.posts.Delete(c.Request.Context(), id, currentUserID(c)); err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Like handles POST /api/posts/:id/like
func (p *PostAPI) Like(c *gin.Context) {
	id, err := uuidParam(c, "id", "post")
	if err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	if err := p.posts.Like(c.Request.Context(), id, currentUserID(c)); err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unlike handles DELETE /api/posts/:id/like
func (p *PostAPI) Unlike(c *gin.Context) {
	id, err := uuidParam(c, "id", "post")
	if err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	if err := p.posts.Unlike(c.Request.Context(), id, currentUserID(c)); err != nil {
		abortWithError(c, p.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
