package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newIngredientsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "ingredients <file.csv>",
		Short: "Import ingredients from rows of name,measurement_unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients, err := readFile(args[0], readIngredients)
			if err != nil {
				return err
			}
			return withCatalog(v, func(ctx context.Context, catalog *services.CatalogService) error {
				inserted, err := catalog.ImportIngredients(ctx, ingredients)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d ingredients from %s\n", inserted, len(ingredients), args[0])
				return nil
			})
		},
	}
}

func newTagsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <file.csv>",
		Short: "Import tags from rows of name,slug,color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := readFile(args[0], readTags)
			if err != nil {
				return err
			}
			return withCatalog(v, func(ctx context.Context, catalog *services.CatalogService) error {
				inserted, err := catalog.ImportTags(ctx, tags)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d tags from %s\n", inserted, len(tags), args[0])
				return nil
			})
		},
	}
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// readIngredients parses name,measurement_unit rows. A header row naming
// those columns is skipped.
func readIngredients(r io.Reader) ([]models.Ingredient, error) {
	records, err := readRecords(r, 2, "name")
	if err != nil {
		return nil, err
	}
	ingredients := make([]models.Ingredient, len(records))
	for i, rec := range records {
		ingredients[i] = models.Ingredient{Name: rec[0], MeasurementUnit: rec[1]}
	}
	return ingredients, nil
}

// readTags parses name,slug,color rows.
func readTags(r io.Reader) ([]models.Tag, error) {
	records, err := readRecords(r, 3, "name")
	if err != nil {
		return nil, err
	}
	tags := make([]models.Tag, len(records))
	for i, rec := range records {
		tags[i] = models.Tag{Name: rec[0], Slug: rec[1], Color: rec[2]}
	}
	return tags, nil
}

func readRecords(r io.Reader, fields int, header string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = fields
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) > 0 && strings.EqualFold(strings.TrimSpace(records[0][0]), header) {
		records = records[1:]
	}
	for _, rec := range records {
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
	}
	return records, nil
}
