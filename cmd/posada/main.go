package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/posada-hms/posada/internal/app"
	"github.com/posada-hms/posada/internal/auth"
	"github.com/posada-hms/posada/internal/billing"
	"github.com/posada-hms/posada/internal/guests"
	"github.com/posada-hms/posada/internal/platform/db"
	"github.com/posada-hms/posada/internal/reports"
	"github.com/posada-hms/posada/internal/rooms"
	"github.com/posada-hms/posada/internal/settings"
	"github.com/posada-hms/posada/internal/shared"
	"github.com/posada-hms/posada/internal/shifts"
	"github.com/posada-hms/posada/internal/stays"
)

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

	if err := db.Migrate(ctx, dbpool); err != nil {
		logger.Error("apply schema", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "posada_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)
	roomLocker := shared.NewRoomLocker(redisClient, 30*time.Second)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	settingsRepo := settings.NewRepository(dbpool)
	settingsService := settings.NewService(settingsRepo, auditLogger)
	settingsHandler := settings.NewHandler(logger, settingsService)

	guestsRepo := guests.NewRepository(dbpool)
	guestsService := guests.NewService(guestsRepo, auditLogger)
	guestsHandler := guests.NewHandler(logger, guestsService)

	roomsRepo := rooms.NewRepository(dbpool)
	roomsService := rooms.NewService(roomsRepo, auditLogger)
	roomsHandler := rooms.NewHandler(logger, roomsService)

	staysRepo := stays.NewRepository(dbpool)
	staysService := stays.NewService(staysRepo, settingsService, auditLogger)
	staysHandler := stays.NewHandler(logger, staysService)

	billingRepo := billing.NewRepository(dbpool)
	billingService := billing.NewService(billingRepo, staysService, settingsService, roomLocker, idempotencyStore, auditLogger)
	billingHandler := billing.NewHandler(logger, billingService)

	shiftsRepo := shifts.NewRepository(dbpool)
	shiftsService := shifts.NewService(shiftsRepo, settingsService, auditLogger)
	shiftsHandler := shifts.NewHandler(logger, shiftsService)

	reportsRepo := reports.NewRepository(dbpool)
	reportsHandler := reports.NewHandler(logger, reportsRepo)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		AuthService:     authService,
		AuthHandler:     authHandler,
		SettingsHandler: settingsHandler,
		GuestsHandler:   guestsHandler,
		RoomsHandler:    roomsHandler,
		StaysHandler:    staysHandler,
		BillingHandler:  billingHandler,
		ShiftsHandler:   shiftsHandler,
		ReportsHandler:  reportsHandler,
		Pool:            dbpool,
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
