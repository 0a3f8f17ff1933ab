package types

import (
	"github.com/google/uuid"

	"github.com/cocktailgram/backend/internal/models"
)

// UserResponse is the read shape of a user. IsSubscribed is computed
// relative to the requesting caller and is false for anonymous callers.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func NewUserResponse(user *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		IsSubscribed: isSubscribed,
	}
}

// TagResponse is the read shape of a tag.
type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Color string    `json:"color"`
}

func NewTagResponse(tag *models.Tag) TagResponse {
	return TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug, Color: tag.Color}
}

// IngredientResponse is the read shape of an ingredient master record.
type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

func NewIngredientResponse(ing *models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}
}

// RecipeIngredientResponse is one ingredient entry inside a recipe read
// shape: the master data plus the amount used by this recipe.
type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeFlags holds the per-caller computed fields of a recipe read shape.
type RecipeFlags struct {
	Favorited        bool
	InShoppingCart   bool
	AuthorSubscribed bool
}

// RecipeResponse is the full read shape of a recipe with embedded tag,
// author and ingredient objects.
type RecipeResponse struct {
	ID          uuid.UUID                  `json:"id"`
	Tags        []TagResponse              `json:"tags"`
	Author      UserResponse               `json:"author"`
	Ingredients []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited bool                       `json:"is_favorited"`
	InCart      bool                       `json:"is_in_shopping_cart"`
	Name        string                     `json:"name"`
	Image       string                     `json:"image"`
	Description string                     `json:"text"`
	CookingTime int                        `json:"cooking_time"`
}

// NewRecipeResponse renders a recipe whose Tags, Ingredients (with
// Ingredient preloaded) and Author associations are populated.
func NewRecipeResponse(recipe *models.Recipe, flags RecipeFlags) RecipeResponse {
	tags := make([]TagResponse, len(recipe.Tags))
	for i := range recipe.Tags {
		tags[i] = NewTagResponse(&recipe.Tags[i])
	}
	ingredients := make([]RecipeIngredientResponse, len(recipe.Ingredients))
	for i := range recipe.Ingredients {
		entry := &recipe.Ingredients[i]
		ingredients[i] = RecipeIngredientResponse{
			ID:              entry.IngredientID,
			Name:            entry.Ingredient.Name,
			MeasurementUnit: entry.Ingredient.MeasurementUnit,
			Amount:          entry.Amount,
		}
	}
	return RecipeResponse{
		ID:          recipe.ID,
		Tags:        tags,
		Author:      NewUserResponse(&recipe.Author, flags.AuthorSubscribed),
		Ingredients: ingredients,
		IsFavorited: flags.Favorited,
		InCart:      flags.InShoppingCart,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		Description: recipe.Description,
		CookingTime: recipe.CookingTime,
	}
}

// ShortRecipeResponse is the compact recipe shape used by favorite/cart
// confirmations and subscription listings.
type ShortRecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func NewShortRecipeResponse(recipe *models.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

// SubscriptionResponse is the read shape of a followed author: user fields
// plus the author's recipe count and an optionally truncated recipe list.
type SubscriptionResponse struct {
	UserResponse
	RecipesCount int64                 `json:"recipes_count"`
	Recipes      []ShortRecipeResponse `json:"recipes"`
}

// AuthResponse carries the issued token together with the account's read
// shape.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
