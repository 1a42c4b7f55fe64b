package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unirecords/archive-console/internal/bootstrap"
	"github.com/unirecords/archive-console/internal/config"
	"github.com/unirecords/archive-console/internal/observability/logging"
	"github.com/unirecords/archive-console/internal/observability/metrics"
)

const serviceName = "archive-worker"

// extractionMetrics adapts worker metrics to the extraction observer port.
type extractionMetrics struct {
	m *metrics.WorkerMetrics
}

func (e extractionMetrics) ExtractionFallback() {
	e.m.RecordFallback(serviceName)
}

func (e extractionMetrics) ExtractionEntities(count int) {
	e.m.ObserveEntityCount(serviceName, count)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	logger := logging.New(serviceName, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", workerMetrics.Handler())
	metricsServer := &http.Server{
		Addr:        ":" + cfg.WorkerMetricsPort,
		Handler:     metricsMux,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	app.ObserveExtraction(extractionMetrics{m: workerMetrics})

	extractTimeout := time.Duration(cfg.ExtractTimeoutSeconds) * time.Second

	queueLog := logging.Component(logger, "queue")
	queueLog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeExtractionJobs(ctx, func(handlerCtx context.Context, documentID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, extractTimeout)
		defer cancel()

		if doc, lookupErr := app.Repo.GetByID(processCtx, documentID); lookupErr == nil {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(doc.CreatedAt))
		}

		workerMetrics.StartDocument()
		start := time.Now()
		processErr := app.ProcessUC.ProcessByID(processCtx, documentID)
		workerMetrics.FinishDocument(serviceName, time.Since(start), processErr)
		return processErr
	})
	if err != nil {
		queueLog.Error("worker subscribe error", "error", err)
		os.Exit(1)
	}
}
