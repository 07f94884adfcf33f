package server

import (
	"github.com/gin-gonic/gin"

	"finance-backend/internal/advisor"
	"finance-backend/internal/documents"
	"finance-backend/internal/health"
	"finance-backend/internal/investments"
	"finance-backend/internal/news"
	"finance-backend/internal/risk"
	"finance-backend/internal/shared/config"
	"finance-backend/internal/shared/metrics"
	"finance-backend/internal/shared/server/middleware"
	"finance-backend/internal/users"
)

// RouterDeps carries the handlers mounted under /api/v1.
type RouterDeps struct {
	Config             config.Config
	Tokens             middleware.TokenVerifier
	RateLimiter        *middleware.RateLimiter
	HealthHandler      *health.Handler
	UsersHandler       *users.Handler
	DocumentsHandler   *documents.Handler
	RiskHandler        *risk.Handler
	InvestmentsHandler *investments.Handler
	AdvisorHandler     *advisor.Handler
	NewsHandler        *news.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}
	rateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules:    middleware.DefaultRateLimits(),
		GroupFor: middleware.GroupForRoute,
		Limiter:  limiter,
	})

	api := r.Group("/api/v1")
	api.GET("/metrics", metrics.Handler())

	public := api.Group("", rateLimit)
	if deps.HealthHandler != nil {
		deps.HealthHandler.RegisterRoutes(public)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterPublicRoutes(public)
	}
	if deps.NewsHandler != nil {
		deps.NewsHandler.RegisterRoutes(public)
	}

	protected := api.Group("", middleware.Auth(deps.Tokens), rateLimit)
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(protected)
	}
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(protected)
	}
	if deps.RiskHandler != nil {
		deps.RiskHandler.RegisterRoutes(protected)
	}
	if deps.InvestmentsHandler != nil {
		deps.InvestmentsHandler.RegisterRoutes(protected)
	}
	if deps.AdvisorHandler != nil {
		deps.AdvisorHandler.RegisterRoutes(protected)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
