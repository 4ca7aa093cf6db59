package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/auth"
	"github.com/picfeed/picfeed/internal/cache"
	"github.com/picfeed/picfeed/internal/db"
	"github.com/picfeed/picfeed/internal/service"
	"github.com/picfeed/picfeed/pkg/config"
	"github.com/picfeed/picfeed/pkg/logging"
)

// Services bundles what the routes depend on
type Services struct {
	Accounts *service.AccountService
	Feed     *service.FeedService
	Posts    *service.PostService
	Comments *service.CommentService
	Follows  *service.FollowService
	Users    service.UserStore
	Tokens   *auth.TokenManager
}

// NewServices wires repositories into domain services; redisCache may be nil
func NewServices(database *db.DB, redisCache *cache.Cache, tokens *auth.TokenManager) *Services {
	repo := db.NewRepository(database.DB)
	users := db.NewUserRepository(repo)
	follows := db.NewFollowRepository(repo)
	posts := db.NewPostRepository(repo)
	comments := db.NewCommentRepository(repo)

	var profiles service.ProfileCache
	if redisCache != nil {
		profiles = redisCache
	}

	return &Services{
		Accounts: service.NewAccountService(users, tokens, profiles),
		Feed:     service.NewFeedService(follows, posts, users),
		Posts:    service.NewPostService(posts, users),
		Comments: service.NewCommentService(comments, posts, users),
		Follows:  service.NewFollowService(follows, users),
		Users:    users,
		Tokens:   tokens,
	}
}

// HealthCheck probes one backing dependency
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Router sets up API routes
type Router struct {
	cfg      *config.Config
	services *Services
	checks   []HealthCheck
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(cfg *config.Config, services *Services, checks ...HealthCheck) *Router {
	return &Router{
		cfg:      cfg,
		services: services,
		checks:   checks,
		logger:   logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(
		RequestLogger(r.logger),
		Tracing(),
		GatewayKey(r.cfg.Gateway.APIKey, r.cfg.IsDevelopment()),
	)

	engine.GET("/health", r.healthHandler)

	accounts := NewAccountAPI(r.services.Accounts)
	posts := NewPostAPI(r.services.Feed, r.services.Posts)
	comments := NewCommentAPI(r.services.Comments)
	follows := NewFollowAPI(r.services.Follows)

	requireUser := Authenticate(r.services.Tokens, r.services.Users, r.logger)

	authGroup := engine.Group("/api/auth")
	authGroup.POST("/register", accounts.Register)
	authGroup.POST("/login", accounts.Login)
	authGroup.POST("/forgot-password", accounts.ForgotPassword)
	authGroup.POST("/reset-password", accounts.ResetPassword)
	authGroup.POST("/send-verification-email", accounts.SendVerificationEmail)
	authGroup.POST("/verify-email", accounts.VerifyEmail)
	authGroup.GET("/profile/:username", accounts.PublicProfile)
	authGroup.GET("/profile", requireUser, accounts.Me)
	authGroup.PUT("/profile", requireUser, accounts.UpdateProfile)

	postGroup := engine.Group("/api/posts", requireUser)
	postGroup.GET("/me", posts.Mine)
	postGroup.GET("/feed", posts.Feed)
	postGroup.GET("/:id", posts.Get)
	postGroup.POST("", posts.Create)
	postGroup.DELETE("/:id", posts.Delete)
	postGroup.POST("/:id/like", posts.Like)
	postGroup.DELETE("/:id/like", posts.Unlike)

	commentGroup := engine.Group("/api/comments", requireUser)
	commentGroup.GET("/post/:postId", comments.ForPost)
	commentGroup.GET("/replies/:parentId", comments.Replies)
	commentGroup.POST("/post/:postId", comments.Create)
	commentGroup.DELETE("/:id", comments.Delete)
	commentGroup.POST("/:id/like", comments.Like)
	commentGroup.DELETE("/:id/like", comments.Unlike)

	followGroup := engine.Group("/api/follow", requireUser)
	followGroup.POST("/:username", follows.Follow)
	followGroup.DELETE("/:username", follows.Unfollow)
	followGroup.GET("/status/:username", follows.Status)
}

// healthHandler reports liveness and the state of each backing dependency
func (r *Router) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for _, check := range r.checks {
		if err := check.Check(ctx); err != nil {
			r.logger.Warn("Health check failed", zap.String("dependency", check.Name), zap.Error(err))
			deps[check.Name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[check.Name] = "ok"
	}

	body := gin.H{
		"status":  "OK",
		"service": "picfeed-api",
	}
	if status != http.StatusOK {
		body["status"] = "DEGRADED"
	}
	if len(deps) > 0 {
		body["dependencies"] = deps
	}
	c.JSON(status, body)
}
