package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cocktailgram/backend/internal/api"
	"github.com/cocktailgram/backend/internal/database"
	"github.com/cocktailgram/backend/internal/middleware"
	"github.com/cocktailgram/backend/internal/service"
)

// Handlers bundles the route handlers mounted by SetupRouter.
type Handlers struct {
	Auth       *api.AuthHandler
	User       *api.UserHandler
	Tag        *api.TagHandler
	Ingredient *api.IngredientHandler
	Recipe     *api.RecipeHandler
}

// Limiters carries the optional rate limiters. A nil limiter leaves
// the corresponding routes unthrottled, which is how the server runs
// when Redis is not configured.
type Limiters struct {
	Auth        *middleware.RateLimiter
	RecipeWrite *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(db *gorm.DB, handlers Handlers, authService *service.AuthService, limiters Limiters) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	var authLimit []gin.HandlerFunc
	if limiters.Auth != nil {
		authLimit = append(authLimit, limiters.Auth.RateLimitMiddleware())
	}
	var writeLimit []gin.HandlerFunc
	if limiters.RecipeWrite != nil {
		writeLimit = append(writeLimit, limiters.RecipeWrite.RateLimitMiddleware())
	}

	handlers.Auth.RegisterRoutes(v1, authLimit...)
	handlers.User.RegisterRoutes(v1)
	handlers.Tag.RegisterRoutes(v1)
	handlers.Ingredient.RegisterRoutes(v1)
	handlers.Recipe.RegisterRoutes(v1,
		middleware.OptionalAuthMiddleware(authService),
		middleware.AuthMiddleware(authService),
		writeLimit...,
	)

	return router
}
