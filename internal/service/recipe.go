package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cocktailgram/backend/internal/models"
	"github.com/cocktailgram/backend/internal/types"
)

var (
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrNotRecipeAuthor   = errors.New("only the author can modify this recipe")
	ErrUnknownTag        = errors.New("unknown tag")
	ErrUnknownIngredient = errors.New("unknown ingredient")
	ErrAlreadyFavorited  = errors.New("recipe is already in favorites")
	ErrNotFavorited      = errors.New("recipe is not in favorites")
	ErrAlreadyInCart     = errors.New("recipe is already in the shopping cart")
	ErrNotInCart         = errors.New("recipe is not in the shopping cart")
)

// RecipeFilter is the set of independent list predicates, ANDed together.
type RecipeFilter struct {
	Author      *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Page        int
	Limit       int
}

// RecipeService handles recipe CRUD, the favorite/cart associations and the
// per-caller read shapes.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Get retrieves a recipe with its associations loaded.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List applies the filter predicates and returns a page of recipes, newest
// first, with the total matching count.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.Author != nil {
		q = q.Where("recipes.author_id = ?", *filter.Author)
	}
	if len(filter.TagSlugs) > 0 {
		// OR across slugs, AND with the other predicates
		q = q.Where("recipes.id IN (?)", s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.FavoritedBy != nil {
		q = q.Where("recipes.id IN (?)", s.db.Table("favorite_recipes").
			Select("favorite_recipes.recipe_id").
			Where("favorite_recipes.user_id = ?", *filter.FavoritedBy))
	}
	if filter.InCartOf != nil {
		q = q.Where("recipes.id IN (?)", s.db.Table("shopping_cart_recipes").
			Select("shopping_cart_recipes.recipe_id").
			Where("shopping_cart_recipes.user_id = ?", *filter.InCartOf))
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := q.
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

// Create persists a recipe and its tag and ingredient associations in a
// single transaction; a failure leaves no partial associations behind.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest, imageURL string) (*models.Recipe, error) {
	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Description: req.Description,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, req.Ingredients); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Append(tags); err != nil {
			return err
		}
		return insertIngredients(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Update rewrites the recipe's scalar fields and fully replaces its tag and
// ingredient associations in one transaction. Only the author may update.
// An empty imageURL keeps the stored image.
func (s *RecipeService) Update(ctx context.Context, callerID, recipeID uuid.UUID, req *types.RecipeRequest, imageURL string) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		if recipe.AuthorID != callerID {
			return ErrNotRecipeAuthor
		}

		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, req.Ingredients); err != nil {
			return err
		}

		recipe.Name = req.Name
		recipe.Description = req.Description
		recipe.CookingTime = req.CookingTime
		if imageURL != "" {
			recipe.ImageURL = imageURL
		}
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}

		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return insertIngredients(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

// Delete removes a recipe together with its association rows.
func (s *RecipeService) Delete(ctx context.Context, callerID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		if recipe.AuthorID != callerID {
			return ErrNotRecipeAuthor
		}

		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		for _, assoc := range []interface{}{
			&models.RecipeIngredient{}, &models.FavoriteRecipe{}, &models.ShoppingCartRecipe{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(assoc).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&recipe).Error
	})
}

// Favorite adds the (user, recipe) favorite row. The unique constraint is
// the duplicate guard.
func (s *RecipeService) Favorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	fav := models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}
	return recipe, nil
}

// Unfavorite removes the favorite row; removing an absent row is a client
// error.
func (s *RecipeService) Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.FavoriteRecipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFavorited
	}
	return nil
}

// AddToCart adds the (user, recipe) shopping-cart row.
func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	entry := models.ShoppingCartRecipe{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInCart
		}
		return nil, err
	}
	return recipe, nil
}

// RemoveFromCart removes the shopping-cart row.
func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCartRecipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotInCart
	}
	return nil
}

// Render builds the read shape of one recipe relative to the caller.
func (s *RecipeService) Render(ctx context.Context, recipe *models.Recipe, callerID *uuid.UUID) (*types.RecipeResponse, error) {
	flags, err := s.flags(ctx, recipe, callerID)
	if err != nil {
		return nil, err
	}
	resp := types.NewRecipeResponse(recipe, flags)
	return &resp, nil
}

// RenderList builds read shapes for a page of recipes relative to the
// caller.
func (s *RecipeService) RenderList(ctx context.Context, recipes []models.Recipe, callerID *uuid.UUID) ([]types.RecipeResponse, error) {
	results := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := s.Render(ctx, &recipes[i], callerID)
		if err != nil {
			return nil, err
		}
		results = append(results, *resp)
	}
	return results, nil
}

func (s *RecipeService) flags(ctx context.Context, recipe *models.Recipe, callerID *uuid.UUID) (types.RecipeFlags, error) {
	var flags types.RecipeFlags
	if callerID == nil {
		return flags, nil
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.FavoriteRecipe{}).
		Where("user_id = ? AND recipe_id = ?", *callerID, recipe.ID).
		Count(&count).Error
	if err != nil {
		return flags, err
	}
	flags.Favorited = count > 0

	err = s.db.WithContext(ctx).Model(&models.ShoppingCartRecipe{}).
		Where("user_id = ? AND recipe_id = ?", *callerID, recipe.ID).
		Count(&count).Error
	if err != nil {
		return flags, err
	}
	flags.InShoppingCart = count > 0

	err = s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", *callerID, recipe.AuthorID).
		Count(&count).Error
	if err != nil {
		return flags, err
	}
	flags.AuthorSubscribed = count > 0

	return flags, nil
}

func resolveTags(tx *gorm.DB, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrUnknownTag
	}
	return tags, nil
}

func checkIngredientsExist(tx *gorm.DB, items []types.IngredientAmount) error {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrUnknownIngredient
	}
	return nil
}

func insertIngredients(tx *gorm.DB, recipeID uuid.UUID, items []types.IngredientAmount) error {
	rows := make([]models.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		}
	}
	return tx.Create(&rows).Error
}
