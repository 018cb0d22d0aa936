package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
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
	limiter "github.com/ulule/limiter/v3"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandoportifolio33/cotacao-api/internal/cashbook"
	"github.com/nandoportifolio33/cotacao-api/internal/catalog"
	"github.com/nandoportifolio33/cotacao-api/internal/client"
	"github.com/nandoportifolio33/cotacao-api/internal/common"
	"github.com/nandoportifolio33/cotacao-api/internal/config"
	"github.com/nandoportifolio33/cotacao-api/internal/db"
	"github.com/nandoportifolio33/cotacao-api/internal/health"
	"github.com/nandoportifolio33/cotacao-api/internal/lock"
	"github.com/nandoportifolio33/cotacao-api/internal/obs"
	"github.com/nandoportifolio33/cotacao-api/internal/payable"
	"github.com/nandoportifolio33/cotacao-api/internal/quote"
	"github.com/nandoportifolio33/cotacao-api/internal/ratelimit"
	"github.com/nandoportifolio33/cotacao-api/internal/report"
	"github.com/nandoportifolio33/cotacao-api/internal/representative"
	"github.com/nandoportifolio33/cotacao-api/internal/security"
	"github.com/nandoportifolio33/cotacao-api/internal/staff"
	"github.com/nandoportifolio33/cotacao-api/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "cotacao")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "cotacao-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				ctx := context.Background()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
		logger.Info().Msg("migrations applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "cotacao-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimitSpec)
	if err != nil {
		logger.Fatal().Err(err).Str("spec", cfg.RateLimitSpec).Msg("parse rate limit")
	}
	limiterStore, err := limiterredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: "cotacao:ratelimit"})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limit store")
	}
	globalLimiter := limiterstdlib.NewMiddleware(limiter.New(limiterStore, rate))

	importLimiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "cotacao:import:"},
		Config: ratelimit.Config{
			Key:    common.ClientIP,
			Window: time.Minute,
			Max:    envInt("IMPORT_RATE_LIMIT_PER_MINUTE", 10),
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("import rate limiter")
		},
	}

	importLock := lock.Locker{R: redisClient}

	repStore := &representative.PGStore{Pool: pool}
	repSvc := &representative.Service{Store: repStore}
	repHandler := &representative.Handler{Svc: repSvc}

	quoteSvc := &quote.Service{Store: &quote.PGStore{Pool: pool}, Validate: validator.New()}
	quoteHandler := &quote.Handler{Svc: quoteSvc, Reps: repSvc}

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{
		Store:        &catalog.PGStore{Pool: pool},
		Cache:        catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		DefaultPage:  cfg.CatalogDefaultPage,
		DefaultLimit: cfg.CatalogDefaultLimit,
		MaxLimit:     cfg.CatalogMaxLimit,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: catalogSvc})

	clientSvc := &client.Service{Store: &client.PGStore{Pool: pool}}
	clientHandler := &client.Handler{Svc: clientSvc}

	cashbookSvc := &cashbook.Service{
		Store:       &cashbook.PGStore{Pool: pool},
		Redis:       redisClient,
		OverviewTTL: cfg.CashbookOverviewTTL,
	}
	cashbookHandler := &cashbook.Handler{Svc: cashbookSvc}

	payableSvc := &payable.Service{Store: &payable.PGStore{Pool: pool}}
	payableHandler := &payable.Handler{Svc: payableSvc}

	staffSvc := &staff.Service{Store: &staff.PGStore{Pool: pool}}
	staffHandler := &staff.Handler{Svc: staffSvc}

	userSvc := &user.Service{Store: &user.PGStore{Pool: pool}}
	userHandler := &user.Handler{Svc: userSvc}

	reportHandler := &report.Handler{Quotes: quoteSvc, Reps: repSvc}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

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
	r.Use(security.Headers{Enable: true}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	pprofEnabled := envBool("OBS_ENABLE_PPROF", true)
	if pprofEnabled {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{db: pool, redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(globalLimiter.Handler)
		v.Use(security.BodyLimit{Max: 25 << 20}.Middleware)

		v.Route("/quotes", func(q chi.Router) {
			q.Get("/", quoteHandler.List)
			q.Delete("/", quoteHandler.Clear)
			q.With(idem.Middleware).Post("/", quoteHandler.Create)
			q.Get("/comparison", quoteHandler.Comparison)
			q.Get("/summary", quoteHandler.Summary)
			q.Patch("/{id}", quoteHandler.Update)
			q.Delete("/{id}", quoteHandler.Delete)
			q.Get("/{id}/duplicate", quoteHandler.Duplicate)
		})

		v.Route("/products", func(p chi.Router) {
			p.Get("/", catalogHandler.List)
			p.Post("/", catalogHandler.Create)
			p.With(importLimiter.Middleware).
				Post("/import", withLock(importLock, "cotacao:lock:import:products", catalogHandler.Import))
			p.Get("/{id}", catalogHandler.Get)
			p.Put("/{id}", catalogHandler.Update)
			p.Delete("/{id}", catalogHandler.Delete)
		})

		v.Route("/clients", func(c chi.Router) {
			c.Get("/", clientHandler.List)
			c.Post("/", clientHandler.Create)
			c.With(importLimiter.Middleware).
				Post("/import", withLock(importLock, "cotacao:lock:import:clients", clientHandler.Import))
			c.Get("/{id}", clientHandler.Get)
			c.Put("/{id}", clientHandler.Update)
			c.Delete("/{id}", clientHandler.Delete)
			c.Get("/{id}/dunning-message", clientHandler.DunningMessage)
		})

		v.Route("/representatives", func(rep chi.Router) {
			rep.Get("/", repHandler.List)
			rep.Post("/", repHandler.Create)
			rep.Get("/categories", repHandler.Categories)
			rep.Get("/{id}", repHandler.Get)
			rep.Put("/{id}", repHandler.Update)
			rep.Delete("/{id}", repHandler.Delete)
			rep.Post("/{id}/purchase-message", quoteHandler.PurchaseMessage)
			rep.Get("/{id}/purchase-order.pdf", reportHandler.PurchaseOrderPDF)
		})

		v.Route("/cashbook", func(c chi.Router) {
			c.With(idem.Middleware).Post("/closings", cashbookHandler.Create)
			c.Get("/closings", cashbookHandler.History)
			c.Get("/overview", cashbookHandler.Overview)
		})

		v.Route("/payables", func(p chi.Router) {
			p.Get("/", payableHandler.List)
			p.Post("/", payableHandler.Create)
			p.Get("/fornecedores", payableHandler.Fornecedores)
			p.Get("/categorias", payableHandler.Categorias)
			p.Get("/{id}", payableHandler.Get)
			p.Put("/{id}", payableHandler.Update)
			p.Delete("/{id}", payableHandler.Delete)
			p.Post("/{id}/pay", payableHandler.MarkPaid)
		})

		v.Route("/staff", func(st chi.Router) {
			st.Get("/", staffHandler.List)
			st.Post("/", staffHandler.Create)
			st.Get("/{id}", staffHandler.Get)
			st.Put("/{id}", staffHandler.Update)
			st.Delete("/{id}", staffHandler.Delete)
		})

		v.Route("/users", func(u chi.Router) {
			u.Get("/", userHandler.List)
			u.Post("/", userHandler.Create)
			u.Get("/{id}", userHandler.Get)
			u.Put("/{id}", userHandler.Update)
			u.Delete("/{id}", userHandler.Delete)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	health.SetReady(false)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
	logger.Info().Msg("server stopped")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

// withLock serialises an endpoint behind a Redis lock so concurrent spreadsheet
// imports cannot interleave their batch inserts.
func withLock(l lock.Locker, key string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := l.WithLock(r.Context(), key, 2*time.Minute, func(ctx context.Context) error {
			next.ServeHTTP(w, r.WithContext(ctx))
			return nil
		})
		if err != nil {
			common.JSONError(w, http.StatusServiceUnavailable, "IMPORT_BUSY", "another import is in progress", nil)
		}
	}
}

type readinessChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(ctx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
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

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/block", pprof.Handler("block"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	mux.Handle("/threadcreate", pprof.Handler("threadcreate"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
