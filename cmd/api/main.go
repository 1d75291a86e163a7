package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	rediscache "github.com/srgjo27/villa_booking/internal/adapter/cache/redis"
	mongocatalog "github.com/srgjo27/villa_booking/internal/adapter/catalog/mongo"
	"github.com/srgjo27/villa_booking/internal/adapter/handler"
	"github.com/srgjo27/villa_booking/internal/adapter/payment/razorpay"
	"github.com/srgjo27/villa_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/villa_booking/internal/adapter/repository/postgres"
	"github.com/srgjo27/villa_booking/internal/core/domain"
	"github.com/srgjo27/villa_booking/internal/core/ports"
	"github.com/srgjo27/villa_booking/internal/core/services"
	"github.com/srgjo27/villa_booking/internal/platform/config"
	"github.com/srgjo27/villa_booking/internal/platform/database"
	"github.com/srgjo27/villa_booking/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server exited with error", zap.Error(err))
	}

	zl.Info("server exiting")
}

func run(cfg config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.StoreBackend == "postgres" {
		var err error
		db, err = database.NewPostgresDB(database.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			MaxConns: cfg.DBMaxConns,
		}, zl)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	store, err := newStore(cfg, db)
	if err != nil {
		return err
	}

	rooms, cleanup, err := newCatalog(ctx, cfg, db, zl)
	if err != nil {
		return err
	}
	defer cleanup()

	zl.Info("connecting to redis", zap.String("addr", cfg.RedisAddr()))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	var cache ports.CalendarCache
	if err := redisClient.Ping(ctx).Err(); err != nil {
		zl.Warn("redis unavailable, serving calendars without cache", zap.Error(err))
	} else {
		cache = rediscache.NewCalendarCache(redisClient, cfg.CalendarCacheTTL)
	}

	gateway := razorpay.NewClient(razorpay.Config{
		BaseURL:   cfg.RazorpayBaseURL,
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
	}, zl)

	reservationService := services.NewReservationService(
		rooms,
		store,
		gateway,
		cache,
		services.NewSignatureVerifier(cfg.RazorpayKeySecret),
		services.Config{
			HoldTTL:          cfg.HoldTTL,
			Currency:         cfg.Currency,
			SweepInterval:    cfg.SweepInterval,
			SweepBatchSize:   cfg.SweepBatchSize,
			PaidConfirmGrace: cfg.PaidConfirmGrace,
		},
		zl,
	)

	router := handler.NewRouter(
		handler.NewRoomHandler(reservationService, zl),
		handler.NewReservationHandler(reservationService, services.NewSignatureVerifier(cfg.RazorpayWebhookSecret), cfg.RazorpayKeyID, zl),
		handler.NewAuthenticator(cfg.JWTSecret),
		cfg.Env,
		zl,
	)

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		reservationService.RunBackgroundCleanup(gctx)
		return nil
	})

	g.Go(func() error {
		zl.Info("server starting", zap.String("addr", server.Addr), zap.String("store", cfg.StoreBackend), zap.String("catalog", cfg.CatalogBackend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server startup failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newStore(cfg config.Config, db *sql.DB) (ports.ReservationStore, error) {
	switch cfg.StoreBackend {
	case "postgres":
		return postgres.NewReservationRepository(db), nil
	case "memory":
		return memory.NewReservationRepository(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func newCatalog(ctx context.Context, cfg config.Config, db *sql.DB, zl *zap.Logger) (ports.RoomCatalog, func(), error) {
	noop := func() {}

	switch cfg.CatalogBackend {
	case "postgres":
		return postgres.NewRoomRepository(db), noop, nil
	case "mongo":
		client, err := database.NewMongoClient(ctx, cfg.MongoURL, zl)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				zl.Warn("mongo disconnect failed", zap.Error(err))
			}
		}
		return mongocatalog.NewRoomCatalog(client.Database(cfg.MongoDatabase)), cleanup, nil
	case "memory":
		catalog := memory.NewRoomCatalog()
		for _, seed := range cfg.Rooms {
			id, err := uuid.Parse(seed.ID)
			if err != nil {
				return nil, noop, fmt.Errorf("room seed %q: %w", seed.Name, err)
			}
			catalog.Put(domain.Room{
				ID:            id,
				Name:          seed.Name,
				PricePerNight: seed.PricePerNight,
				PriceWithMeal: seed.PriceWithMeal,
				MaxGuests:     seed.MaxGuests,
				Accommodation: seed.Accommodation,
			})
		}
		zl.Info("in-memory catalog seeded", zap.Int("rooms", len(cfg.Rooms)))
		return catalog, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown catalog backend %q", cfg.CatalogBackend)
}
