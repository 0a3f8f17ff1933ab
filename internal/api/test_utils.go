package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cocktailgram/backend/internal/middleware"
	"github.com/cocktailgram/backend/internal/models"
	"github.com/cocktailgram/backend/internal/service"
	"github.com/cocktailgram/backend/internal/types"
)

// memoryImageStorage keeps uploads in memory and hands back fake URLs so
// handler tests never touch S3.
type memoryImageStorage struct {
	uploads int
}

func (s *memoryImageStorage) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	s.uploads++
	return fmt.Sprintf("https://img.test/%s.png", uuid.New()), nil
}

// SetupTestDB opens an isolated in-memory database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.FavoriteRecipe{},
		&models.ShoppingCartRecipe{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// setupTestRouter wires the full route surface against the given database,
// mirroring the production router minus CORS and rate limiting.
func setupTestRouter(t *testing.T, db *gorm.DB) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := service.NewAuthService(db, "test-secret")
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	shoppingListService := service.NewShoppingListService(db)

	router := gin.New()
	v1 := router.Group("/api/v1")

	NewAuthHandler(authService).RegisterRoutes(v1)
	NewUserHandler(userService, authService).RegisterRoutes(v1)
	NewTagHandler(db).RegisterRoutes(v1)
	NewIngredientHandler(db).RegisterRoutes(v1)
	NewRecipeHandler(recipeService, shoppingListService, &memoryImageStorage{}).RegisterRoutes(v1,
		middleware.OptionalAuthMiddleware(authService),
		middleware.AuthMiddleware(authService),
	)

	return router, authService
}

// CreateTestUserAndToken registers a user through the auth service and
// returns the stored record with a valid token.
func CreateTestUserAndToken(t *testing.T, authService *service.AuthService, username string) (*models.User, string) {
	t.Helper()

	user, token, err := authService.Register(&types.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user, token
}

func createTestTag(t *testing.T, db *gorm.DB, name, slug, color string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug, Color: color}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ingredient
}

// testImage is a 1x1 PNG as a base64 data-URI.
const testImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

// performRequest issues a JSON request against the test router. A non-nil
// body is marshalled; an empty token leaves the request anonymous.
func performRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
