package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/storefront/internal/auth"
	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	"github.com/rogerio-castellano/storefront/internal/config"
	"github.com/rogerio-castellano/storefront/internal/db"
	"github.com/rogerio-castellano/storefront/internal/events"
	api "github.com/rogerio-castellano/storefront/internal/http"
	"github.com/rogerio-castellano/storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront/internal/logger"
	"github.com/rogerio-castellano/storefront/internal/redissvc"
	"github.com/rogerio-castellano/storefront/internal/repo"
	"github.com/rogerio-castellano/storefront/internal/upstream"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// @title Storefront API
// @version 1.0
// @description Paginated product catalog and per-session shopping carts.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slot, closeSlot, err := openCartSlot(cfg, log)
	if err != nil {
		log.Fatal("could not open cart storage", zap.String("backend", cfg.CartBackend), zap.Error(err))
	}
	defer closeSlot()

	client := upstream.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout, upstream.WithLogger(log))
	handlers.SetCatalog(catalog.NewEngine(client, log))

	registry := cart.NewRegistry(slot, log)
	handlers.SetCartRegistry(registry)
	go registry.StartSweepLoop(time.Minute, 30*time.Minute)

	stopPublisher := func() {}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewCartPublisher(cfg.KafkaTopic, log, cfg.KafkaBrokers...)
		registry.OnChange(publisher.Publish)

		// outlives the signal context so events from drained requests still go out
		pubCtx, cancelPub := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			publisher.Run(pubCtx)
			close(done)
		}()
		stopPublisher = func() {
			cancelPub()
			<-done
			publisher.Close()
		}
		log.Info("publishing cart events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	auth.Configure(cfg.JWTSecret, cfg.TokenTTL)
	rl.Configure(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rl.StartVisitorCleanupLoop()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(api.NewRouter(), "storefront"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.HTTPAddr), zap.String("cart_backend", cfg.CartBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	stopPublisher()
}

// openCartSlot connects with a background context: storage must keep working
// while in-flight requests drain after the shutdown signal.
func openCartSlot(cfg config.Config, log *zap.Logger) (repo.CartSlotRepository, func(), error) {
	switch cfg.CartBackend {
	case "redis":
		rs, err := redissvc.Connect(context.Background(), cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewRedisCartSlotRepository(rs, cfg.CartTTL), func() { rs.Close() }, nil

	case "postgres":
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		slot := repo.NewPostgresCartSlotRepository(database)
		if err := slot.EnsureSchema(); err != nil {
			database.Close()
			return nil, nil, err
		}
		return slot, func() { database.Close() }, nil

	default:
		log.Warn("carts are kept in memory and lost on restart")
		return repo.NewInMemoryCartSlotRepository(), func() {}, nil
	}
}
