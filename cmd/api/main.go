package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/folio-labs/orderform-api/internal/config"
	"github.com/folio-labs/orderform-api/internal/document"
	"github.com/folio-labs/orderform-api/internal/health"
	"github.com/folio-labs/orderform-api/internal/obs"
	"github.com/folio-labs/orderform-api/internal/session"
	"github.com/folio-labs/orderform-api/internal/store"
	"github.com/folio-labs/orderform-api/internal/template"
)

func main() {
	cfg := config.MustLoad()

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "orderform")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", false)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "orderform-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Redis is optional. When it is missing or unreachable the service runs
	// on the in-memory store: edits work, durability is per-process only.
	var kv store.KV = store.NewMemoryStore()
	redisClient := connectRedis(ctx, cfg, logger, metricsEnabled)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		kv = store.NewRedisStore(redisClient, cfg.KeyPrefix, cfg.SessionTTL)
	}

	var domainMetrics *obs.DomainMetrics
	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		domainMetrics = obs.NewDomainMetrics(metricsNamespace, nil)
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	validate := validator.New()

	company := document.Company{
		Name:           cfg.CompanyName,
		Address:        cfg.CompanyAddress,
		Phone:          cfg.CompanyPhone,
		SignatoryName:  cfg.SignatoryName,
		SignatoryTitle: cfg.SignatoryTitle,
	}

	sessionSvc := session.NewService(ctx, session.ServiceConfig{
		Store:      kv,
		Logger:     logger,
		Metrics:    domainMetrics,
		Company:    company,
		ExpiryDays: cfg.QuoteExpiryDays,
	})
	sessionHandler := session.NewHandler(session.HandlerConfig{Service: sessionSvc, Validate: validate})

	templateSvc := template.NewService(template.ServiceConfig{
		Store:   kv,
		Logger:  logger,
		Metrics: domainMetrics,
		Session: sessionSvc,
	})
	templateHandler := template.NewHandler(template.HandlerConfig{Service: templateSvc, Validate: validate})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if mw := rateLimitMiddleware(cfg, redisClient, logger); mw != nil {
		r.Use(mw)
	}

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{redis: redisClient},
		StoreTimeout: envDurationMillis("HEALTH_READY_STORE_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/orderform", func(o chi.Router) {
			o.Get("/", sessionHandler.Form)
			o.Put("/customer", sessionHandler.UpdateCustomer)
			o.Put("/billing", sessionHandler.UpdateBilling)
			o.Post("/billing/same-as-customer", sessionHandler.BillingSameAsCustomer)
			o.Put("/dates", sessionHandler.UpdateDates)
			o.Put("/contract", sessionHandler.UpdateContract)
			o.Put("/plan", sessionHandler.UpdatePlan)
			o.Post("/items/{collection}", sessionHandler.AddItem)
			o.Patch("/items/{collection}/{id}", sessionHandler.UpdateItem)
			o.Post("/items/{collection}/{id}/toggle", sessionHandler.ToggleItem)
			o.Delete("/items/{collection}/{id}", sessionHandler.RemoveItem)
			o.Post("/tiers", sessionHandler.AddTier)
			o.Patch("/tiers/{id}", sessionHandler.UpdateTier)
			o.Delete("/tiers/{id}", sessionHandler.RemoveTier)
			o.Post("/terms/{id}/toggle", sessionHandler.ToggleTerm)
			o.Patch("/terms/{id}", sessionHandler.UpdateTerm)
			o.Post("/clear", sessionHandler.Clear)
			o.Post("/generate", sessionHandler.Generate)
			o.Get("/generate/html", sessionHandler.GenerateHTML)
		})

		v.Route("/templates", func(tr chi.Router) {
			tr.Get("/", templateHandler.List)
			tr.Post("/", templateHandler.Save)
			tr.Post("/{id}/apply", templateHandler.Apply)
			tr.Delete("/{id}", templateHandler.Delete)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}
}

func connectRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger, metricsEnabled bool) *redis.Client {
	if cfg.RedisURL == "" {
		logger.Warn().Msg("redis not configured, using in-memory store")
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid redis url, using in-memory store")
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, using in-memory store")
		_ = client.Close()
		return nil
	}
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	return client
}

func rateLimitMiddleware(cfg *config.Config, redisClient *redis.Client, logger zerolog.Logger) func(http.Handler) http.Handler {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Warn().Err(err).Str("rate", cfg.RateLimit).Msg("invalid rate limit, limiter disabled")
		return nil
	}
	var lstore limiter.Store
	if redisClient != nil {
		lstore, err = limiterredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{
			Prefix: cfg.KeyPrefix + ":ratelimit",
		})
		if err != nil {
			logger.Warn().Err(err).Msg("redis limiter store failed, falling back to memory")
			lstore = limitermemory.NewStore()
		}
	} else {
		lstore = limitermemory.NewStore()
	}
	return limiterstdlib.NewMiddleware(limiter.New(lstore, rate)).Handler
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	redis *redis.Client
}

func (c readinessChecker) PingStore(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Millisecond
		}
	}
	return time.Duration(fallback) * time.Millisecond
}
