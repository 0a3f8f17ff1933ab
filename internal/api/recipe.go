package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cocktailgram/backend/internal/models"
	"github.com/cocktailgram/backend/internal/service"
	"github.com/cocktailgram/backend/internal/types"
)

// RecipeHandler handles the recipe surface: CRUD, favorites, the
// shopping cart and the aggregated shopping list download.
type RecipeHandler struct {
	recipeService       *service.RecipeService
	shoppingListService *service.ShoppingListService
	imageStorage        service.ImageStorage
}

func NewRecipeHandler(recipeService *service.RecipeService, shoppingListService *service.ShoppingListService, imageStorage service.ImageStorage) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		shoppingListService: shoppingListService,
		imageStorage:        imageStorage,
	}
}

// RegisterRoutes mounts the recipe routes. optionalAuth resolves the
// caller when a token is present but lets anonymous reads through;
// auth and writeLimit guard the mutating endpoints.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, optionalAuth, auth gin.HandlerFunc, writeLimit ...gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.GET("/download_shopping_cart", auth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)

		write := recipes.Group("", auth)
		write.Use(writeLimit...)
		{
			write.POST("", h.CreateRecipe)
			write.PATCH("/:id", h.UpdateRecipe)
			write.DELETE("/:id", h.DeleteRecipe)
			write.POST("/:id/favorite", h.Favorite)
			write.DELETE("/:id/favorite", h.Unfavorite)
			write.POST("/:id/shopping_cart", h.AddToCart)
			write.DELETE("/:id/shopping_cart", h.RemoveFromCart)
		}
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	caller := optionalCallerID(c)
	page, limit := pageParams(c)

	filter := service.RecipeFilter{Page: page, Limit: limit}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.Author = &id
	}
	if slugs := c.QueryArray("tags"); len(slugs) > 0 {
		filter.TagSlugs = slugs
	}
	// Relational filters only apply for authenticated callers.
	if caller != nil {
		if c.Query("is_favorited") == "1" {
			filter.FavoritedBy = caller
		}
		if c.Query("is_in_shopping_cart") == "1" {
			filter.InCartOf = caller
		}
	}

	recipes, total, err := h.recipeService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	results, err := h.recipeService.RenderList(c.Request.Context(), recipes, caller)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": total, "results": results})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	resp, err := h.recipeService.Render(c.Request.Context(), recipe, optionalCallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.Validate(true); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	imageURL, ok := h.uploadImage(c, req.Image)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, &req, imageURL)
	if err != nil {
		h.writeRecipeError(c, err)
		return
	}

	resp, err := h.recipeService.Render(c.Request.Context(), recipe, &userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.Validate(false); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	// An omitted image keeps the stored one.
	imageURL := ""
	if req.Image != "" {
		imageURL, ok = h.uploadImage(c, req.Image)
		if !ok {
			return
		}
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), userID, recipeID, &req, imageURL)
	if err != nil {
		h.writeRecipeError(c, err)
		return
	}

	resp, err := h.recipeService.Render(c.Request.Context(), recipe, &userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), userID, recipeID); err != nil {
		h.writeRecipeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addRelation(c, h.recipeService.Favorite)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeRelation(c, h.recipeService.Unfavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.recipeService.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.recipeService.RemoveFromCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	items, err := h.shoppingListService.Aggregate(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build shopping list"})
		return
	}

	pdf, err := h.shoppingListService.RenderPDF(items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build shopping list"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_cart.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// addRelation handles the shared shape of POST /favorite and
// POST /shopping_cart: 201 with the short recipe payload on success.
func (h *RecipeHandler) addRelation(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := add(c.Request.Context(), userID, recipeID)
	if err != nil {
		h.writeRecipeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewShortRecipeResponse(recipe))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := remove(c.Request.Context(), userID, recipeID); err != nil {
		h.writeRecipeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) uploadImage(c *gin.Context, dataURI string) (string, bool) {
	data, contentType, err := service.DecodeDataURI(dataURI)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
		return "", false
	}
	url, err := h.imageStorage.UploadImage(c.Request.Context(), data, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return "", false
	}
	return url, true
}

func (h *RecipeHandler) writeRecipeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	case errors.Is(err, service.ErrNotRecipeAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author can modify a recipe"})
	case errors.Is(err, service.ErrUnknownTag):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tag"})
	case errors.Is(err, service.ErrUnknownIngredient):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown ingredient"})
	case errors.Is(err, service.ErrAlreadyFavorited):
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe is already favorited"})
	case errors.Is(err, service.ErrNotFavorited):
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe is not favorited"})
	case errors.Is(err, service.ErrAlreadyInCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe is already in the shopping cart"})
	case errors.Is(err, service.ErrNotInCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe is not in the shopping cart"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
