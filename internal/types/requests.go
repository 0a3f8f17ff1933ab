package types

import "github.com/google/uuid"

// RegisterRequest represents the request body for account creation
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email,max=254"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for login; email is the login
// identifier.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientAmount is one (ingredient id, amount) pair in a recipe write.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipeRequest represents the write shape of a recipe. Tags are referenced
// by id, ingredients as (id, amount) pairs, and the image arrives as a
// base64 data-URI string. The author never comes from the payload.
type RecipeRequest struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Description string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time"`
	Image       string             `json:"image"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// Validate applies the write-shape rules shared by create and update.
// requireImage distinguishes create (image mandatory) from update (absent
// image keeps the stored one).
func (r *RecipeRequest) Validate(requireImage bool) string {
	if r.CookingTime < 1 {
		return "cooking time must be at least 1"
	}
	if len(r.Description) > 500 {
		return "description must be at most 500 characters"
	}
	if requireImage && r.Image == "" {
		return "image is required"
	}
	if len(r.Tags) == 0 {
		return "at least one tag is required"
	}
	seenTags := make(map[uuid.UUID]bool, len(r.Tags))
	for _, id := range r.Tags {
		if seenTags[id] {
			return "tags cannot repeat"
		}
		seenTags[id] = true
	}
	if len(r.Ingredients) == 0 {
		return "at least one ingredient is required"
	}
	seenIngredients := make(map[uuid.UUID]bool, len(r.Ingredients))
	for _, item := range r.Ingredients {
		if seenIngredients[item.ID] {
			return "ingredients cannot repeat"
		}
		seenIngredients[item.ID] = true
		if item.Amount < 1 {
			return "ingredient amount must be at least 1"
		}
	}
	return ""
}
