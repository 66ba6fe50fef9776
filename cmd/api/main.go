package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/debt-relief-intake/internal/api/router"
	appconfig "github.com/wolfman30/debt-relief-intake/internal/config"
	"github.com/wolfman30/debt-relief-intake/internal/http/apigw"
	"github.com/wolfman30/debt-relief-intake/internal/notify"
	"github.com/wolfman30/debt-relief-intake/internal/observability/metrics"
	"github.com/wolfman30/debt-relief-intake/internal/submissions"
	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.NewWithSentry(cfg.LogLevel, logging.SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Env,
	})
	defer logging.FlushSentry(2 * time.Second)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	provider := cfg.ResolvedEmailProvider()
	logger.Info("starting debt relief intake API",
		"env", cfg.Env,
		"port", cfg.Port,
		"email_provider", provider,
		"static_dir", cfg.StaticDir,
		"lambda", cfg.LambdaMode,
	)

	handler, err := buildHandler(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to configure email transport", "error", err)
		os.Exit(1)
	}

	if cfg.LambdaMode {
		logger.Info("serving API Gateway events")
		lambda.Start(apigw.Handler(handler))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, handler, cfg.Port, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildHandler wires the email transport, notifier, metrics and routes
// described by cfg.
func buildHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, error) {
	sender, err := newEmailSender(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	notifier := notify.NewService(sender, notify.SubmissionConfig{
		Recipient: cfg.NotifyRecipient(),
		Location:  cfg.Location(),
	}, logger)

	var (
		submissionMetrics *metrics.SubmissionMetrics
		metricsHandler    http.Handler
	)
	if cfg.MetricsEnabled {
		metricsHandler, submissionMetrics = setupSubmissionMetrics()
	}

	return router.New(&router.Config{
		Logger:             logger,
		SubmissionsHandler: submissions.NewHandler(notifier, submissionMetrics, cfg.NotifyTimeout, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:          cfg.StaticDir,
	}), nil
}

func setupSubmissionMetrics() (http.Handler, *metrics.SubmissionMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewSubmissionMetrics(reg)
}

// serve runs the HTTP server until ctx is done, then drains in-flight
// submissions before returning.
func serve(ctx context.Context, handler http.Handler, port string, logger *logging.Logger) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Leave room for a slow mail relay behind the submit endpoint.
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
