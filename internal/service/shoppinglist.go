package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

// ShoppingListItem is one aggregated line of the exported list: the same
// ingredient across all cart recipes collapsed into a single total.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}

// ShoppingListService aggregates a user's cart and renders it as a PDF.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate groups the caller's cart contents by (ingredient name,
// measurement unit) and sums the amounts.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_recipes ON shopping_cart_recipes.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_recipes.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// PDF layout constants: fixed 20pt font, 30pt line advance, new page when
// the column runs past the bottom margin.
const (
	pdfFontSize   = 20.0
	pdfLeftMargin = 50.0
	pdfTopMargin  = 42.0
	pdfLineStep   = 30.0
	pdfPageBottom = 812.0
)

// RenderPDF lays the aggregated list out as a multi-page PDF document.
func (s *ShoppingListService) RenderPDF(items []ShoppingListItem) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.AddPage()

	y := pdfTopMargin
	pdf.Text(pdfLeftMargin, y, "Shopping list:")
	y += pdfLineStep

	for _, item := range items {
		pdf.Text(pdfLeftMargin, y, fmt.Sprintf("%s - %d %s", item.Name, item.Total, item.MeasurementUnit))
		y += pdfLineStep
		if y > pdfPageBottom {
			pdf.AddPage()
			y = pdfTopMargin
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render shopping list: %w", err)
	}
	return buf.Bytes(), nil
}
