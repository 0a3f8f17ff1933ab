package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/cocktailgram/backend/config"
	"github.com/cocktailgram/backend/internal/database"
	"github.com/cocktailgram/backend/internal/models"
)

// Loads the ingredient catalog from a two-column CSV (name, measurement
// unit). Rows that already exist are skipped.
func main() {
	path := flag.String("file", "data/ingredients.csv", "Path to the ingredients CSV file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *path, err)
	}
	defer f.Close()

	ingredients, err := readIngredients(f)
	if err != nil {
		log.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(ingredients) == 0 {
		log.Fatal("No ingredients found in CSV")
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&ingredients, 500)
	if result.Error != nil {
		log.Fatalf("Failed to import ingredients: %v", result.Error)
	}

	fmt.Printf("Imported %d of %d ingredients\n", result.RowsAffected, len(ingredients))
}

// readIngredients parses two-column (name, unit) records, skipping rows
// with a blank field.
func readIngredients(r io.Reader) ([]models.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	var ingredients []models.Ingredient
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		name := strings.TrimSpace(record[0])
		unit := strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			continue
		}
		ingredients = append(ingredients, models.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return ingredients, nil
}
