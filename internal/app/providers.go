package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Modules
	"github.com/quickai/server/internal/module/account"
	"github.com/quickai/server/internal/module/ai/imagegen"
	"github.com/quickai/server/internal/module/ai/llm"
	"github.com/quickai/server/internal/module/auth"
	"github.com/quickai/server/internal/module/billing"
	"github.com/quickai/server/internal/module/creation"
	"github.com/quickai/server/internal/module/document"
	"github.com/quickai/server/internal/module/health"
	"github.com/quickai/server/internal/module/media"
	"github.com/quickai/server/internal/module/pipeline"

	// Infrastructure
	"github.com/quickai/server/internal/infra/breaker"
	"github.com/quickai/server/internal/infra/config"
	"github.com/quickai/server/internal/infra/httpclient"
	"github.com/quickai/server/internal/infra/ratelimit"
	"github.com/quickai/server/internal/shared/cache"
	"github.com/quickai/server/internal/shared/database"
	"github.com/quickai/server/internal/shared/logger"

	// Utils
	"github.com/quickai/server/internal/utils/metrics"
)

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideHTTPClient,
	ProvideMetrics,
	ProvideJWTManager,
	ProvideRateLimiter,
)

// ProvideLogger creates the process logger.
func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return log, func() { _ = log.Sync() }, nil
}

// ProvideDatabase creates a database connection.
func ProvideDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional unless the
// usage counter lives there.
func ProvideRedisClient(cfg *config.Config, log *zap.Logger) (goredis.UniversalClient, func(), error) {
	if cfg.Redis.Address == "" {
		return nil, func() {}, nil
	}
	client, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		if cfg.Quota.CounterBackend == account.CounterRedis {
			return nil, nil, err
		}
		log.Warn("Redis unavailable, continuing without it", zap.Error(err))
		return nil, func() {}, nil
	}
	return client, func() { _ = cache.Close(client) }, nil
}

// ProvideHTTPClient creates the shared outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient)
}

// ProvideMetrics creates the metrics registry.
func ProvideMetrics() *metrics.Metrics {
	return metrics.New("quickai")
}

// ProvideJWTManager creates the bearer token manager.
func ProvideJWTManager(cfg *config.Config) *auth.JWTManager {
	return auth.NewJWTManager(&auth.JWTConfig{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		TokenTTL: cfg.Auth.TokenTTL,
	})
}

// ProvideRateLimiter creates the per-user request limiter. It is nil when
// Redis is unavailable or the limit is disabled.
func ProvideRateLimiter(cfg *config.Config, client goredis.UniversalClient) *ratelimit.Limiter {
	if client == nil || !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(client)
}

// ===== Adapter Providers =====

// AdapterSet provides the third-party service clients.
var AdapterSet = wire.NewSet(
	ProvideLLMClient,
	ProvideImageGenClient,
	ProvideMediaStore,
	document.NewExtractor,
)

// ProvideLLMClient creates the chat-completions client.
func ProvideLLMClient(cfg *config.Config, httpClient *http.Client, m *metrics.Metrics, log *zap.Logger) *llm.Client {
	guard := breaker.New("llm", cfg.Breaker, m, log)
	return llm.NewClient(httpClient, cfg.LLM, guard)
}

// ProvideImageGenClient creates the text-to-image client.
func ProvideImageGenClient(cfg *config.Config, httpClient *http.Client, m *metrics.Metrics, log *zap.Logger) *imagegen.Client {
	guard := breaker.New("imagegen", cfg.Breaker, m, log)
	return imagegen.NewClient(httpClient, cfg.ImageGen, guard)
}

// ProvideMediaStore opens the configured media backend behind a breaker.
func ProvideMediaStore(cfg *config.Config, m *metrics.Metrics, log *zap.Logger) (media.Store, error) {
	store, err := media.NewStoreRegistry().Open(context.Background(), media.BackendType(cfg.Media.Backend), cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Media store ready",
		zap.String("backend", string(store.Type())),
		zap.Bool("transforms", store.SupportsTransform()),
	)
	return media.Guarded(store, breaker.New("media", cfg.Breaker, m, log)), nil
}

// ===== Module Providers =====

// ModuleSet provides services and handlers.
var ModuleSet = wire.NewSet(
	creation.NewRepository,
	ProvideCreationService,
	ProvideCreationHandler,
	account.NewRepository,
	ProvideUsageCounter,
	ProvideAccountService,
	account.NewHandler,
	ProvideRegistry,
	ProvidePipeline,
	ProvidePipelineHandler,
	ProvideBillingService,
	ProvideBillingHandler,
	ProvideHealthChecker,
)

// ProvideCreationService creates the creation service.
func ProvideCreationService(repo creation.Repository, log *zap.Logger) *creation.Service {
	return creation.NewService(repo, log.Named("creation"))
}

// ProvideCreationHandler creates the creation handler.
func ProvideCreationHandler(svc *creation.Service, log *zap.Logger) *creation.Handler {
	return creation.NewHandler(svc, log.Named("creation"))
}

// ProvideUsageCounter selects the free usage counter backend.
func ProvideUsageCounter(cfg *config.Config, repo account.Repository, client goredis.UniversalClient) (account.UsageCounter, error) {
	return account.NewUsageCounter(cfg.Quota.CounterBackend, repo, client)
}

// ProvideAccountService creates the account service.
func ProvideAccountService(cfg *config.Config, repo account.Repository, counter account.UsageCounter, log *zap.Logger) *account.Service {
	return account.NewService(repo, counter, cfg.Quota, log.Named("account"))
}

// ProvideRegistry builds the operation registry from the adapters.
func ProvideRegistry(cfg *config.Config, text *llm.Client, images *imagegen.Client, store media.Store, docs *document.Extractor) *pipeline.Registry {
	return pipeline.NewDefaultRegistry(pipeline.Adapters{
		Text:      text,
		Images:    images,
		Media:     store,
		Documents: docs,
	}, cfg.Quota)
}

// ProvidePipeline creates the request pipeline.
func ProvidePipeline(cfg *config.Config, registry *pipeline.Registry, records *creation.Service, accounts *account.Service, m *metrics.Metrics, log *zap.Logger) *pipeline.Pipeline {
	return pipeline.New(registry, records, accounts, cfg.Quota, m, log.Named("pipeline"))
}

// ProvidePipelineHandler creates the pipeline handler.
func ProvidePipelineHandler(p *pipeline.Pipeline, log *zap.Logger) *pipeline.Handler {
	return pipeline.NewHandler(p, log.Named("pipeline"))
}

// ProvideBillingService creates the billing service.
func ProvideBillingService(cfg *config.Config, accounts *account.Service, log *zap.Logger) *billing.Service {
	var checkout billing.CheckoutCreator
	if cfg.Stripe.SecretKey != "" {
		checkout = billing.NewStripeCheckout(cfg.Stripe.SecretKey)
	}
	return billing.NewService(accounts, checkout, cfg.Stripe, log.Named("billing"))
}

// ProvideBillingHandler creates the billing handler.
func ProvideBillingHandler(svc *billing.Service, log *zap.Logger) *billing.Handler {
	return billing.NewHandler(svc, log.Named("billing"))
}

// ProvideHealthChecker creates the health checker.
func ProvideHealthChecker(cfg *config.Config, db *gorm.DB, client goredis.UniversalClient) (*health.Checker, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	return health.NewChecker(sqlDB, client, cfg.Quota.CounterBackend == account.CounterRedis), nil
}
