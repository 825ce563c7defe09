package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bendahara-app/bendahara/internal/app"
	"github.com/bendahara-app/bendahara/internal/auth"
	"github.com/bendahara-app/bendahara/internal/invoice"
	"github.com/bendahara-app/bendahara/internal/monitoring"
	"github.com/bendahara-app/bendahara/internal/observability"
	"github.com/bendahara-app/bendahara/internal/pengeluaran"
	"github.com/bendahara-app/bendahara/internal/platform/cache"
	"github.com/bendahara-app/bendahara/internal/platform/db"
	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/siswa"
	"github.com/bendahara-app/bendahara/internal/tunggakan"
	"github.com/bendahara-app/bendahara/internal/upstream"
	"github.com/bendahara-app/bendahara/internal/view"
	"github.com/bendahara-app/bendahara/jobs"
)

// uploadEnqueuer adapts the asynq client to the invoice service port.
type uploadEnqueuer struct {
	client *jobs.Client
}

func (e uploadEnqueuer) EnqueueUploadLampiran(ctx context.Context, payload jobs.UploadLampiranPayload) error {
	_, err := e.client.EnqueueUploadLampiran(ctx, payload)
	return err
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "bendahara_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	signals := shared.NewSignalStore(redisClient)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	upstreamClient := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamToken, logger)

	authService := auth.NewService(auth.Credential{Email: cfg.AdminEmail, PasswordHash: cfg.AdminPasswordHash})
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("asynq client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()

	identity := invoice.SchoolIdentity{
		Nama:   cfg.SekolahNama,
		Alamat: cfg.SekolahAlamat,
		Kota:   cfg.SekolahKota,
	}
	invoiceService := invoice.NewService(
		upstreamClient,
		invoice.NewRepository(dbpool),
		invoice.NewPDFRenderer(identity),
		uploadEnqueuer{client: jobClient},
		logger,
	)
	invoiceHandler := invoice.NewHandler(logger, invoiceService, templates, csrfManager)

	monitoringService := monitoring.NewService(upstreamClient, signals)
	monitoringHandler := monitoring.NewHandler(logger, monitoringService, upstreamClient, templates, csrfManager)

	tunggakanHandler := tunggakan.NewHandler(logger, upstreamClient, templates, csrfManager)

	receipts := pengeluaran.NewReceiptRenderer(cfg.SekolahNama)
	ledger := pengeluaran.NewRepository(dbpool)
	pengeluaranHandler := pengeluaran.NewHandler(logger, upstreamClient, ledger, receipts, templates, csrfManager)

	siswaHandler := siswa.NewHandler(logger, upstreamClient, signals, templates, csrfManager)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Templates:          templates,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		AuthHandler:        authHandler,
		InvoiceHandler:     invoiceHandler,
		MonitoringHandler:  monitoringHandler,
		TunggakanHandler:   tunggakanHandler,
		PengeluaranHandler: pengeluaranHandler,
		SiswaHandler:       siswaHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
