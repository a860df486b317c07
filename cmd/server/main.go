package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"wellness-ai-agent/internal/agent"
	"wellness-ai-agent/internal/config"
	"wellness-ai-agent/internal/diagnosis"
	"wellness-ai-agent/internal/report"
	"wellness-ai-agent/internal/wellness"
	"wellness-ai-agent/pkg/logx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}
	logx.Init(cfg.Environment)

	// 1. Model Gateway. A missing key is not fatal: endpoints that need it
	// answer 503 until it is configured.
	var ai *agent.Client
	if cfg.GeminiAPIKey == "" {
		logx.Error().Msg("CRITICAL: GEMINI_API_KEY not set")
	} else {
		pacer := agent.NewPacer(cfg.GeminiInterval)
		ai, err = agent.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, pacer)
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to initialise gemini client")
		}
		logx.Info().Str("model", cfg.GeminiModel).Msg("GEMINI_API_KEY loaded successfully")
	}

	// 2. Session store.
	store, cleanup := buildStore(ctx, cfg)
	defer cleanup()

	// 3. Services and handlers.
	var diagGen diagnosis.Generator
	var wellGen wellness.Generator
	if ai != nil {
		diagGen = ai
		wellGen = ai
	}
	diagnosisSvc := diagnosis.NewService(store, diagGen)
	diagnosisHandler := diagnosis.NewHandler(diagnosisSvc, report.NewRenderer())
	wellnessSvc := wellness.NewService(wellGen)
	wellnessHandler := wellness.NewHandler(wellnessSvc)

	// 4. Router.
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	diagnosis.RegisterRoutes(r, diagnosisHandler)
	wellness.RegisterRoutes(r, wellnessHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logx.Info().Str("port", cfg.Port).Msg("starting Women's Wellness API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logx.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (diagnosis.Store, func()) {
	if cfg.SessionBackend == "redis" && cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logx.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		opts.ReadTimeout = time.Duration(cfg.Redis.ReadTimeout) * time.Second
		opts.WriteTimeout = time.Duration(cfg.Redis.WriteTimeout) * time.Second
		opts.DialTimeout = time.Duration(cfg.Redis.DialTimeout) * time.Second

		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logx.Fatal().Err(err).Msg("failed to connect to redis")
		}
		logx.Info().Msg("using redis session store")
		return diagnosis.NewRedisStore(client, cfg.SessionTTL), func() { client.Close() }
	}

	store := diagnosis.NewMemoryStore(cfg.SessionTTL)
	go store.Run(ctx, cfg.SessionSweep)
	return store, func() {}
}

// corsMiddleware allows the dev frontends to call the API from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
