package server

import (
	"crypto/subtle"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/accounts"
	"findmydreamjobs/internal/applications"
	googleauth "findmydreamjobs/internal/auth"
	"findmydreamjobs/internal/dashboard"
	"findmydreamjobs/internal/jdi"
	"findmydreamjobs/internal/jobs"
	"findmydreamjobs/internal/matching"
	"findmydreamjobs/internal/pages"
	"findmydreamjobs/internal/resumes"
	"findmydreamjobs/internal/services/health"
	"findmydreamjobs/internal/session"
	"findmydreamjobs/internal/shared/config"
	"findmydreamjobs/internal/shared/metrics"
	"findmydreamjobs/internal/shared/server/middleware"
	"findmydreamjobs/internal/shared/server/respond"
	"findmydreamjobs/internal/users"
	"findmydreamjobs/internal/wizard"
)

const (
	rateGroupAuth   = "AUTH"
	rateGroupUpload = "UPLOAD"
	rateGroupScan   = "SCAN"
	rateGroupAPI    = "API"
)

// RouterDeps carries the handlers the router mounts. Nil handlers are
// skipped.
type RouterDeps struct {
	Config              config.Config
	Health              *health.Service
	Sessions            *session.Service
	SessionHandler      *session.Handler
	AccountsHandler     *accounts.Handler
	GoogleAuth          *googleauth.GoogleSignIn
	UsersHandler        *users.Handler
	ResumesHandler      *resumes.Handler
	JobsHandler         *jobs.Handler
	MatchingHandler     *matching.Handler
	ApplicationsHandler *applications.Handler
	JDIHandler          *jdi.Handler
	WizardHandler       *wizard.Handler
	DashboardHandler    *dashboard.Handler
	RateLimiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	var resolver middleware.SessionResolver
	if deps.Sessions != nil {
		resolver = deps.Sessions
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(resolver),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/healthz", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	if cfg := deps.Config; cfg.MetricsToken != "" || !cfg.IsProduction() {
		r.GET("/metrics", metricsGuard(cfg.MetricsToken), metrics.Handler())
	}

	limit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules:        DefaultRateLimits(),
		DefaultGroup: rateGroupAPI,
		GroupFor:     rateGroupFor,
		Limiter:      deps.RateLimiter,
	})

	public := r.Group("/api", limit)
	mount(public, deps.SessionHandler, deps.AccountsHandler, deps.GoogleAuth)

	api := r.Group("/api", limit, middleware.RequireSession())
	mount(api,
		deps.UsersHandler,
		deps.ResumesHandler,
		deps.JobsHandler,
		deps.MatchingHandler,
		deps.ApplicationsHandler,
		deps.JDIHandler,
		deps.WizardHandler,
		deps.DashboardHandler,
	)

	pages.RegisterRoutes(r)
	return r
}

// metricsGuard requires the bearer token when one is configured. Production
// only serves metrics behind a token.
func metricsGuard(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "metrics token required", nil)
			return
		}
		c.Next()
	}
}

type registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// mount registers each handler that was wired. Typed nil pointers are
// skipped too.
func mount(rg *gin.RouterGroup, handlers ...registrar) {
	for _, h := range handlers {
		if h == nil || reflect.ValueOf(h).IsNil() {
			continue
		}
		h.RegisterRoutes(rg)
	}
}

// DefaultRateLimits returns the per-principal token buckets, in requests
// per second.
func DefaultRateLimits() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		rateGroupAuth:   {Rate: 0.2, Burst: 10},
		rateGroupUpload: {Rate: 0.1, Burst: 5},
		rateGroupScan:   {Rate: 1.0 / 30, Burst: 2},
		rateGroupAPI:    {Rate: 10, Burst: 40},
	}
}

func rateGroupFor(c *gin.Context) string {
	path := c.Request.URL.Path
	switch {
	case strings.HasPrefix(path, "/api/auth/") && c.Request.Method == http.MethodPost && !strings.HasSuffix(path, "/logout"):
		return rateGroupAuth
	case path == "/api/resumes" && c.Request.Method == http.MethodPost:
		return rateGroupUpload
	case path == "/api/jdi/run":
		return rateGroupScan
	default:
		return rateGroupAPI
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
