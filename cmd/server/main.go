package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"docverify/internal/config"
	"docverify/internal/db"
	googlevision "docverify/internal/google-vision"
	"docverify/internal/handlers"
	"docverify/internal/logger"
	"docverify/internal/metrics"
	"docverify/internal/ocr"
	"docverify/internal/router"
	"docverify/internal/verification"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "docverify:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	recognizer, err := newRecognizer(cfg)
	if err != nil {
		return err
	}
	recognizer = ocr.NewPDF(recognizer)

	redisClient, err := ocr.NewRedisClient(ctx, cfg.Cache.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		recognizer = ocr.NewCached(recognizer, ocr.NewRedisStore(redisClient), cfg.Cache.TTL, log)
		log.Info("ocr cache enabled", "ttl", cfg.Cache.TTL.String())
	}

	svc := verification.New(recognizer,
		verification.WithTimeout(cfg.OCR.Timeout),
		verification.WithLogger(log),
		verification.WithMetrics(metrics.New(reg)),
	)

	deps := handlers.Deps{
		Verifier:       svc,
		Logger:         log,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	if cfg.DatabaseURL != "" {
		gdb, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		deps.Store = db.NewRecordStore(gdb)
		log.Info("verification audit store enabled")
	}
	if cfg.Share.TokenSecret != "" {
		links, err := handlers.NewShareLinks(cfg.Share.TokenSecret, cfg.Share.PublicBaseURL)
		if err != nil {
			return err
		}
		deps.Links = links
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(handlers.New(deps), reg, log, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting docverify", "addr", cfg.HTTPAddr, "ocr_provider", cfg.OCR.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func newRecognizer(cfg config.Config) (ocr.Recognizer, error) {
	switch cfg.OCR.Provider {
	case config.ProviderGemini:
		return ocr.NewGemini(cfg.OCR.GeminiAPIKey, cfg.OCR.GeminiModel)
	default:
		return googlevision.New(cfg.OCR.CredentialsFile), nil
	}
}
