package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/cocktailgram/backend/internal/models"
)

// AutoMigrate creates or updates the schema from the model definitions.
// Production deployments apply the SQL files under migrations/ via
// cmd/migrate instead; this path serves SQLite-backed tests and local
// development.
func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		log.Printf("Using GORM auto-migration for SQLite")
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.FavoriteRecipe{},
		&models.ShoppingCartRecipe{},
	)
}
