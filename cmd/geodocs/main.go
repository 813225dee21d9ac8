package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geodocs/internal/config"
	"github.com/kailas-cloud/geodocs/internal/db"
	dbRedis "github.com/kailas-cloud/geodocs/internal/db/redis"
	logpkg "github.com/kailas-cloud/geodocs/internal/logger"
	"github.com/kailas-cloud/geodocs/internal/metrics"
	documentrepo "github.com/kailas-cloud/geodocs/internal/repository/document"
	searchrepo "github.com/kailas-cloud/geodocs/internal/repository/search"
	chiTransport "github.com/kailas-cloud/geodocs/internal/transport/chi"
	documentuc "github.com/kailas-cloud/geodocs/internal/usecase/document"
	healthuc "github.com/kailas-cloud/geodocs/internal/usecase/health"
	searchuc "github.com/kailas-cloud/geodocs/internal/usecase/search"
	"github.com/kailas-cloud/geodocs/internal/version"
)

func main() {
	reindex := flag.Bool("reindex", false, "drop and recreate the document index on startup")
	flag.Parse()

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting geodocs API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Provision the document index. An existing index is left untouched
	// unless -reindex was given, and a provisioning failure does not stop
	// the server: writes and reads by id still work without the index.
	if *reindex {
		if err := store.DropIndex(ctx, documentrepo.IndexName()); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			logger.Error("Failed to drop document index", zap.Error(err))
		} else {
			logger.Info("Document index dropped", zap.String("index", documentrepo.IndexName()))
		}
	}
	exists, err := store.IndexExists(ctx, documentrepo.IndexName())
	if err != nil {
		logger.Error("Failed to check document index", zap.Error(err))
	}
	if exists {
		logger.Info("Document index already exists", zap.String("index", documentrepo.IndexName()))
	} else if err := store.CreateIndex(ctx, documentrepo.Index()); err != nil && !errors.Is(err, db.ErrIndexExists) {
		logger.Error("Failed to create document index", zap.Error(err))
	} else {
		logger.Info("Document index created", zap.String("index", documentrepo.IndexName()))
	}

	// Create repositories
	docRepo := documentrepo.New(store)
	searchRepo := searchrepo.New(store)

	// Create use case services
	docSvc := documentuc.New(docRepo)
	searchSvc := searchuc.New(searchRepo)
	healthSvc := healthuc.New(store)

	// Create chi server
	server := chiTransport.NewServer(docSvc, searchSvc, healthSvc, logger).
		WithPagination(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
