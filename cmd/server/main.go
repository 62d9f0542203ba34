package main // Entry point package

import (
	"context" // Context for startup deadlines
	"log"     // Logging library
	"time"    // Timeouts

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/moviebase/movie-recommendation/internal/config"
	"github.com/moviebase/movie-recommendation/internal/database"
	"github.com/moviebase/movie-recommendation/internal/handler"
	"github.com/moviebase/movie-recommendation/internal/middleware"
	"github.com/moviebase/movie-recommendation/internal/queue"
	"github.com/moviebase/movie-recommendation/internal/repository"
	"github.com/moviebase/movie-recommendation/internal/router"
	queue_publisher "github.com/moviebase/movie-recommendation/internal/service"
)

func main() {
	_ = godotenv.Load() // Load .env if present; real env vars win

	cfg := config.Load() // Load environment config

	// Open the MySQL pool and make sure the schema exists before
	// accepting traffic.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("ensure schema: %v", err)
	}
	cancel()

	// Redis backs the response cache and the rate limiter. A nil
	// client disables both; the API still works without Redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	// Background consumer that appends rating events to logs/ratings.log.
	// Runs until the process exits; broker outages trigger reconnects.
	go func() {
		if err := queue.StartRatingConsumer(); err != nil {
			log.Printf("rating consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	h := router.Handlers{
		Auth:            handler.NewAuthHandler(cfg, repository.NewUserRepo(db)),
		Movies:          handler.NewMovieHandler(repository.NewMovieRepo(db)),
		Ratings:         handler.NewRatingHandler(repository.NewRatingRepo(db), queue_publisher.AMQPPublisher{}),
		Watchlists:      handler.NewWatchlistHandler(repository.NewWatchlistRepo(db)),
		Recommendations: handler.NewRecommendationHandler(repository.NewRecommendationRepo(db)),
		Admin:           handler.NewAdminHandler(repository.NewAdminRepo(db)),
	}

	router.RegisterRoutes(e)                       // Health check
	router.RegisterAPI(e, h, cfg.JWTSecret, cache) // Full API under /api

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
