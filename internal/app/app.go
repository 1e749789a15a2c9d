package app

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quickai/server/internal/infra/config"
	"github.com/quickai/server/internal/infra/ratelimit"
	"github.com/quickai/server/internal/module/account"
	"github.com/quickai/server/internal/module/auth"
	"github.com/quickai/server/internal/module/billing"
	"github.com/quickai/server/internal/module/creation"
	"github.com/quickai/server/internal/module/health"
	"github.com/quickai/server/internal/module/pipeline"
	"github.com/quickai/server/internal/shared/database"
	"github.com/quickai/server/internal/utils/metrics"
	"github.com/quickai/server/internal/utils/middleware"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	Redis       goredis.UniversalClient
	Metrics     *metrics.Metrics
	JWTManager  *auth.JWTManager
	RateLimiter *ratelimit.Limiter

	CreationHandler *creation.Handler
	AccountService  *account.Service
	AccountHandler  *account.Handler
	PipelineHandler *pipeline.Handler
	BillingHandler  *billing.Handler
	HealthChecker   *health.Checker
}

// App represents the application.
type App struct {
	deps    *Dependencies
	router  *gin.Engine
	cleanup func()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithDependencies(deps, cleanup), nil
}

// NewWithDependencies builds the application around prepared dependencies.
func NewWithDependencies(deps *Dependencies, cleanup func()) *App {
	if cleanup == nil {
		cleanup = func() {}
	}
	a := &App{deps: deps, cleanup: cleanup}
	a.setupRouter()
	a.registerRoutes()
	return a
}

// setupRouter configures the Gin router with global middleware.
func (a *App) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(a.deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.deps.Logger))
	if a.deps.Metrics != nil {
		r.Use(middleware.Metrics(a.deps.Metrics))
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(a.deps.Config.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = a.deps.Config.CORS.AllowOrigins
	}
	r.Use(middleware.CORS(corsCfg))

	a.router = r
}

// registerRoutes registers all module routes.
func (a *App) registerRoutes() {
	r := a.router
	cfg := a.deps.Config

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Server is Live!")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if a.deps.HealthChecker != nil {
		a.deps.HealthChecker.RegisterRoutes(r.Group("/health"))
	}

	api := r.Group("/api")
	api.Use(middleware.BodyLimit(cfg.Server.MaxUploadBytes))

	// Stripe calls the webhook without a bearer token.
	a.deps.BillingHandler.RegisterWebhookRoutes(api.Group("/billing"))

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(a.deps.JWTManager))
	a.deps.BillingHandler.RegisterRoutes(authed.Group("/billing"))

	entitled := authed.Group("")
	entitled.Use(account.Entitlement(a.deps.AccountService, a.deps.Logger.Named("entitlement")))

	ai := entitled.Group("/ai")
	if a.deps.RateLimiter != nil {
		ai.Use(middleware.RateLimitByUser(a.deps.RateLimiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, a.deps.Logger))
	}
	a.deps.PipelineHandler.RegisterRoutes(ai)

	user := entitled.Group("/user")
	a.deps.CreationHandler.RegisterRoutes(user)
	a.deps.AccountHandler.RegisterRoutes(user)
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.deps.Logger
}

// Stop releases the application's resources.
func (a *App) Stop() {
	a.deps.Logger.Info("Stopping application")
	a.cleanup()
}

// Migrate creates or updates the application tables.
func Migrate(db *gorm.DB) error {
	return database.Migrate(db, &creation.Creation{}, &account.Account{})
}
