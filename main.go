package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"recipe-share/config"
	"recipe-share/database"
	"recipe-share/handlers"
	"recipe-share/logging"
	"recipe-share/middleware"
	"recipe-share/repositories"
	"recipe-share/routes"
	"recipe-share/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logging.Info().Msg("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	config.SetJWT(cfg.JWT)

	// Initialize database
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	recipeRepo := repositories.NewRecipeRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)
	favouriteRepo := repositories.NewFavouriteRepository(db)
	followRepo := repositories.NewFollowRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	logRepo := repositories.NewAdminLogRepository(db)

	// Initialize services
	auditService := services.NewAuditService(logRepo)
	authService := services.NewAuthService(userRepo, auditService)
	recipeService := services.NewRecipeService(recipeRepo, ratingRepo, favouriteRepo, tagRepo, auditService)
	ratingService := services.NewRatingService(recipeRepo, ratingRepo)
	favouriteService := services.NewFavouriteService(recipeRepo, favouriteRepo)
	userService := services.NewUserService(userRepo, recipeRepo, ratingRepo, followRepo, auditService)
	tagService := services.NewTagService(tagRepo)

	if err := authService.EnsureAdmin(context.Background(), cfg.Admin); err != nil {
		logging.Fatal().Err(err).Msg("failed to bootstrap admin user")
	}

	// Setup router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(cfg.Server.CORSOrigins),
	)

	var authLimiter *middleware.RateLimiter
	if cfg.Server.AuthRateLimit > 0 {
		authLimiter = middleware.NewRateLimiter(cfg.Server.AuthRateLimit)
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				authLimiter.Cleanup(time.Hour)
			}
		}()
	}

	routes.Setup(router, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Recipe:    handlers.NewRecipeHandler(recipeService),
		Rating:    handlers.NewRatingHandler(ratingService),
		Favourite: handlers.NewFavouriteHandler(favouriteService),
		User:      handlers.NewUserHandler(userService),
		Admin:     handlers.NewAdminHandler(userService, recipeService, auditService),
		Tag:       handlers.NewTagHandler(tagService),
	}, userRepo, authLimiter)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Int("port", cfg.Server.Port).Str("mode", cfg.Server.Mode).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
