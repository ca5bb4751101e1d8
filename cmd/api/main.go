package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/adapters/cache"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/adapters/database"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/adapters/providers/places"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/api/handlers"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/api/routes"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/application/services"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/providers"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/clients/postgres"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/clients/redis"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	"github.com/EatWhereLa/eat-where-la-backend-server/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment, cfg.Server.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	codec, err := database.NewRowCodec(cfg.Database.TimestampFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid timestamp format")
	}

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, pgClient.Accessor(), codec); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure database schema")
		}
	}

	// Redis is optional; without it lookups go straight to PostgreSQL
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Continuing without Redis cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
		}
	}

	// Repositories
	accessor := pgClient.Accessor()
	restaurantRepo := database.NewRestaurantAdapter(accessor, codec, metrics)
	if cacheProvider != nil {
		restaurantRepo = database.NewCachedRestaurantAdapter(restaurantRepo, cacheProvider, metrics)
	}
	bookmarkRepo := database.NewBookmarkAdapter(accessor, codec, metrics)
	reviewRepo := database.NewReviewAdapter(accessor, codec, metrics)
	reservationRepo := database.NewReservationAdapter(accessor, codec, metrics)
	voteRepo := database.NewVoteAdapter(accessor, codec, metrics)

	// Services
	placesClient := places.NewGooglePlacesClient(&cfg.Places, cacheProvider)
	placeSearchService := services.NewPlaceSearchService(placesClient, services.NewPlaceNormalizer(metrics), restaurantRepo)
	reviewService := services.NewReviewService(reviewRepo)
	reservationService := services.NewReservationService(reservationRepo)
	voteService := services.NewVoteService(voteRepo)

	router := routes.NewRouter(
		handlers.NewPlacesHandler(placeSearchService),
		handlers.NewRestaurantHandler(restaurantRepo),
		handlers.NewBookmarkHandler(bookmarkRepo),
		handlers.NewReviewHandler(reviewService),
		handlers.NewReservationHandler(reservationService),
		handlers.NewVoteHandler(voteService),
		cfg.Server.AllowedOrigins,
		metrics,
	)

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
