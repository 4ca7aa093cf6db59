package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/api"
	"github.com/picfeed/picfeed/pkg/config"
	"github.com/picfeed/picfeed/pkg/logging"
)

// Gateway is the public entry point in front of the API. It forwards every
// request upstream with the shared gateway key attached.
type Gateway struct {
	cfg      *config.GatewayConfig
	upstream *url.URL
	proxy    *httputil.ReverseProxy
	limiter  *RateLimiter
	logger   *zap.Logger
}

// New creates a gateway for cfg. runner may be nil, which disables rate limiting.
func New(cfg *config.GatewayConfig, runner ScriptRunner) (*Gateway, error) {
	upstream, err := url.Parse(cfg.UpstreamURL)
	if err != nil || upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("invalid upstream URL %q", cfg.UpstreamURL)
	}

	logger := logging.WithComponent("gateway")
	g := &Gateway{
		cfg:      cfg,
		upstream: upstream,
		limiter:  NewRateLimiter(runner, cfg.RateLimit, cfg.RefillRate, logger),
		logger:   logger,
	}
	g.proxy = g.newProxy()

	if g.limiter == nil {
		logger.Info("Rate limiting disabled")
	}
	if cfg.APIKey == "" {
		logger.Warn("No gateway key configured, upstream may reject proxied requests")
	}
	return g, nil
}

func (g *Gateway) newProxy() *httputil.ReverseProxy {
	proxy := httputil.NewSingleHostReverseProxy(g.upstream)

	direct := proxy.Director
	proxy.Director = func(r *http.Request) {
		direct(r)
		r.Host = g.upstream.Host
		// clients never get to choose the key
		r.Header.Del(api.GatewayKeyHeader)
		if g.cfg.APIKey != "" {
			r.Header.Set(api.GatewayKeyHeader, g.cfg.APIKey)
		}
		// continue the gateway's server span in the API
		otel.GetTextMapPropagator().Inject(r.Context(), propagation.HeaderCarrier(r.Header))
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		g.logger.Error("Upstream request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"Upstream unavailable"}`))
	}
	return proxy
}

// SetupRoutes installs CORS, rate limiting, the health endpoint and the catch-all proxy
func (g *Gateway) SetupRoutes(engine *gin.Engine) {
	engine.Use(api.RequestLogger(g.logger), api.Tracing())

	if len(g.cfg.AllowedOrigins) > 0 {
		// AllowHeaders stays empty so the reflected list survives the preflight
		engine.Use(allowRequestedHeaders, cors.New(cors.Config{
			AllowOrigins:     g.cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			ExposeHeaders:    []string{"Content-Length", "Content-Type", "Location"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if g.limiter != nil {
		engine.Use(g.limiter.Middleware())
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "gateway"})
	})
	engine.NoRoute(g.forward)
}

// allowRequestedHeaders answers a preflight by allowing whatever headers it
// asks for. A literal "*" is not honored for credentialed requests.
func allowRequestedHeaders(c *gin.Context) {
	if c.Request.Method == http.MethodOptions && c.GetHeader("Origin") != "" {
		if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
			c.Header("Access-Control-Allow-Headers", requested)
		}
	}
	c.Next()
}

func (g *Gateway) forward(c *gin.Context) {
	g.proxy.ServeHTTP(c.Writer, c.Request)
}
