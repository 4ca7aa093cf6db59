package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/service"
	"github.com/picfeed/picfeed/pkg/logging"
)

// FollowAPI serves follow routes; targets are addressed by username
type FollowAPI struct {
	follows *service.FollowService
	logger  *zap.Logger
}

// NewFollowAPI creates a new follow API
func NewFollowAPI(follows *service.FollowService) *FollowAPI {
	return &FollowAPI{
		follows: follows,
		logger:  logging.GetLogger().With(zap.String("component", "api-follow")),
	}
}

// Follow handles POST /api/follow/:username
func (f *FollowAPI) Follow(c *gin.Context) {
	if err := f.follows.Follow(c.Request.Context(), currentUserID(c), c.Param("username")); err != nil {
		abortWithError(c, f.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unfollow handles DELETE /api/follow/:username
func (f *FollowAPI) Unfollow(c *gin.Context) {
	if err := f.follows.Unfollow(c.Request.Context(), currentUserID(c), c.Param("username")); err != nil {
		abortWithError(c, f.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Status handles GET /api/follow/status/:username
func (f *FollowAPI) Status(c *gin.Context) {
	status, err := f.follows.Status(c.Request.Context(), currentUserID(c), c.Param("username"))
	if err != nil {
		abortWithError(c, f.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
