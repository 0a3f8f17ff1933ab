package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/cocktailgram/backend/config"
	"github.com/cocktailgram/backend/internal/api"
	"github.com/cocktailgram/backend/internal/database"
	"github.com/cocktailgram/backend/internal/middleware"
	"github.com/cocktailgram/backend/internal/router"
	"github.com/cocktailgram/backend/internal/server"
	"github.com/cocktailgram/backend/internal/service"
)

func main() {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("AUTO_MIGRATE") == "true" {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Redis is optional. Without it the API runs unthrottled.
	var limiters router.Limiters
	if cfg.RedisHost != "" || cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Redis unavailable, rate limiting disabled: %v", err)
		} else {
			limiters.Auth = middleware.NewAuthRateLimiter(redisClient)
			limiters.RecipeWrite = middleware.NewRecipeWriteRateLimiter(redisClient)
		}
	}

	ctx := context.Background()

	var imageStorage service.ImageStorage
	var mediaDir string
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to configure S3: %v", err)
		}
		if err := s3Config.SetupBucketPolicy(ctx); err != nil {
			// Pre-provisioned buckets often deny policy writes.
			log.Printf("Could not apply bucket policy: %v", err)
		}
		imageStorage = service.NewS3ImageStorage(s3Config)
	} else {
		mediaDir = "media"
		local, err := service.NewLocalImageStorage(mediaDir, "/media")
		if err != nil {
			log.Fatalf("Failed to configure image storage: %v", err)
		}
		imageStorage = local
		log.Println("No S3 bucket configured, storing images locally")
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	shoppingListService := service.NewShoppingListService(db)

	handlers := router.Handlers{
		Auth:       api.NewAuthHandler(authService),
		User:       api.NewUserHandler(userService, authService),
		Tag:        api.NewTagHandler(db),
		Ingredient: api.NewIngredientHandler(db),
		Recipe:     api.NewRecipeHandler(recipeService, shoppingListService, imageStorage),
	}

	engine := router.SetupRouter(db, handlers, authService, limiters)
	if mediaDir != "" {
		engine.Static("/media", mediaDir)
	}

	srv := server.New(engine, cfg.ServerHost, cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
