package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/pkg/metrics"
)

// Handler is anything that mounts routes under /api.
type Handler interface {
	RegisterRoutes(api *gin.RouterGroup, auth *middleware.AuthMiddleware)
}

type Config struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORS             middleware.CORSConfig
	MetricsPath      string
}

type Router struct {
	engine *gin.Engine
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	h *handler.Handler,
	m *metrics.Metrics,
	cfg Config,
	handlers ...Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORS),
		latencyMiddleware(m),
	)
	if cfg.RateLimitEnabled {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).RateLimit())
	}

	engine.GET("/health", h.HealthCheck)
	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	engine.GET(metricsPath, h.MetricsHandler)

	api := engine.Group("/api")
	for _, hnd := range handlers {
		hnd.RegisterRoutes(api, auth)
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func latencyMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestLatency.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
