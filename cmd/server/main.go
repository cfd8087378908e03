package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"advisor-backend/internal/config"
	httpdelivery "advisor-backend/internal/delivery/http"
	"advisor-backend/internal/delivery/websocket"
	"advisor-backend/internal/domain"
	"advisor-backend/internal/infrastructure/binance"
	"advisor-backend/internal/infrastructure/db"
	"advisor-backend/internal/infrastructure/fcm"
	"advisor-backend/internal/infrastructure/yahoo"
	"advisor-backend/internal/repository"
	"advisor-backend/internal/usecase"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Load()

	// Signal store: Postgres when configured, in-memory otherwise.
	var signalRepo domain.SignalRepository
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfigFromEnv())
		if err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("Database connection failed")
		}
		if err := db.Migrate(ctx, pool); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("Migration failed")
		}
		cancel()
		defer pool.Close()
		signalRepo = repository.NewPostgresSignalRepository(pool)
		logger.Info().Msg("Using Postgres signal store")
	} else {
		signalRepo = repository.NewInMemorySignalRepository()
		logger.Warn().Msg("DATABASE_URL not set, signal history is in-memory only")
	}

	providers := map[domain.AssetClass]domain.MarketDataProvider{
		domain.AssetCrypto: binance.NewClient(),
		domain.AssetEquity: yahoo.NewClient(),
	}

	fcmClient, err := fcm.NewClient(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("FCM initialization failed")
	}
	tokenRepo := repository.NewTokenRepository()
	notifier := usecase.NewNotifier(fcmClient, tokenRepo, logger)

	capital := map[domain.AssetClass]float64{
		domain.AssetCrypto: cfg.CryptoCapital,
		domain.AssetEquity: cfg.EquityCapital,
	}
	tracker := usecase.NewTracker(signalRepo, providers, capital, notifier, cfg.TrackerInterval, logger)
	analyzer := usecase.NewAnalyzer(providers, tracker, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go tracker.Run(ctx)

	analysisHandler := httpdelivery.NewAnalysisHandler(analyzer)
	signalHandler := httpdelivery.NewSignalHandler(tracker)
	tokenHandler := httpdelivery.NewTokenHandler(tokenRepo, logger)
	wsHandler := websocket.NewHandler(tracker, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", analysisHandler.Analyze)
	mux.HandleFunc("/api/signals", analysisHandler.Signal)
	mux.HandleFunc("/api/signals/active", signalHandler.Active)
	mux.HandleFunc("/api/signals/resolve", signalHandler.Resolve)
	mux.HandleFunc("/api/signals/history", signalHandler.History)
	mux.HandleFunc("/api/signals/summary", signalHandler.Summary)
	mux.HandleFunc("/api/capital", signalHandler.Capital)
	mux.HandleFunc("/api/tokens/register", tokenHandler.Register)
	mux.HandleFunc("/api/tokens/unregister", tokenHandler.Unregister)
	mux.HandleFunc("/api/tokens/count", tokenHandler.Count)
	mux.HandleFunc("/ws", wsHandler.Handle)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("port", cfg.Port).Msg("Server started")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Server failed")
	}
	logger.Info().Msg("Server stopped")
}
