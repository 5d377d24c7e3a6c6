// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/cache"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/config"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/database"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/handler"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/metrics"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/repository"
	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/service"
	"github.com/Shivanand-hulikatti/hotel-occupancy/pkg/logger"
)

func main() {
	// ── 1. Configuration and logging ──────────────────────────────────────
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}
	log := logger.NewLogger(cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	log.Info("Starting hotel occupancy service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 2. Connect to PostgreSQL and bootstrap the schema ─────────────────
	pool, err := database.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	defer pool.Close()

	startDate := model.TruncateDate(time.Now())
	if cfg.StartDate != "" {
		if startDate, err = model.ParseDate(cfg.StartDate); err != nil {
			log.Fatal("Invalid HOTEL_START_DATE", "error", err)
		}
	}
	if err := database.Migrate(ctx, pool, startDate); err != nil {
		log.Fatal("Failed to migrate schema", "error", err)
	}

	// ── 3. Optional room listing cache ────────────────────────────────────
	var roomCache service.RoomCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// The cache is best effort; listings fall back to Postgres.
			log.Warn("Redis unreachable, room cache degraded", "addr", cfg.Redis.Addr, "error", err)
		}
		roomCache = cache.NewRoomCache(rdb, cfg.Redis.TTL)
		log.Info("Room listing cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	// ── 4. Wire up layers ─────────────────────────────────────────────────
	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)
	hotelSvc := service.NewHotelService(
		repository.NewRoomRepository(pool),
		repository.NewBookingRepository(pool),
		repository.NewHistoryRepository(pool),
		repository.NewClockRepository(pool),
		roomCache,
		m,
		log,
	)
	hotelHandler := handler.NewHotelHandler(hotelSvc)

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler.NewRouter(hotelHandler, log, promhttp.Handler()),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Received signal", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
	log.Info("Server stopped")
}
