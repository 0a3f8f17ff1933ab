package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cocktailgram/backend/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.FavoriteRecipe{},
		&models.ShoppingCartRecipe{},
	))
	return db
}

func TestShoppingListAggregation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	flour := &models.Ingredient{Name: "flour", MeasurementUnit: "g"}
	sugar := &models.Ingredient{Name: "sugar", MeasurementUnit: "g"}
	milk := &models.Ingredient{Name: "milk", MeasurementUnit: "ml"}
	require.NoError(t, db.Create(&[]*models.Ingredient{flour, sugar, milk}).Error)

	makeRecipe := func(name string, entries map[*models.Ingredient]int) *models.Recipe {
		recipe := &models.Recipe{
			AuthorID:    user.ID,
			Name:        name,
			ImageURL:    "https://img.test/x.png",
			Description: "test",
			CookingTime: 10,
		}
		require.NoError(t, db.Create(recipe).Error)
		for ingredient, amount := range entries {
			require.NoError(t, db.Create(&models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: ingredient.ID,
				Amount:       amount,
			}).Error)
		}
		return recipe
	}

	pancakes := makeRecipe("Pancakes", map[*models.Ingredient]int{flour: 200, milk: 300})
	cake := makeRecipe("Cake", map[*models.Ingredient]int{flour: 300, sugar: 150})
	// Not in the cart, must not contribute.
	makeRecipe("Waffles", map[*models.Ingredient]int{flour: 999})

	for _, recipe := range []*models.Recipe{pancakes, cake} {
		require.NoError(t, db.Create(&models.ShoppingCartRecipe{UserID: user.ID, RecipeID: recipe.ID}).Error)
	}

	svc := NewShoppingListService(db)
	items, err := svc.Aggregate(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Sorted by ingredient name, amounts summed across recipes.
	assert.Equal(t, "flour", items[0].Name)
	assert.Equal(t, 500, items[0].Total)
	assert.Equal(t, "milk", items[1].Name)
	assert.Equal(t, 300, items[1].Total)
	assert.Equal(t, "sugar", items[2].Name)
	assert.Equal(t, 150, items[2].Total)

	t.Run("pdf output", func(t *testing.T) {
		pdf, err := svc.RenderPDF(items)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
		assert.Greater(t, len(pdf), 500)
	})

	t.Run("empty cart renders an empty list", func(t *testing.T) {
		other := &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
		require.NoError(t, db.Create(other).Error)

		items, err := svc.Aggregate(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, items)

		pdf, err := svc.RenderPDF(items)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
	})
}
