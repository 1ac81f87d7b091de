package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodgram/internal/database"
	"foodgram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIngredients(t *testing.T) {
	rows, err := readIngredients(strings.NewReader("name,measurement_unit\nflour, g\n\"salt, sea\",pinch\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "salt, sea", MeasurementUnit: "pinch"},
	}, rows)

	rows, err = readIngredients(strings.NewReader("egg,pcs\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = readIngredients(strings.NewReader("flour,g,extra\n"))
	assert.Error(t, err)
}

func TestReadTags(t *testing.T) {
	rows, err := readTags(strings.NewReader("Breakfast,breakfast,#E26C2D\nLunch,lunch,#49B64E\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.Tag{Name: "Lunch", Slug: "lunch", Color: "#49B64E"}, rows[1])
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestImportCommands(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "foodgram.db")
	ingredients := filepath.Join(dir, "ingredients.csv")
	tags := filepath.Join(dir, "tags.csv")
	require.NoError(t, os.WriteFile(ingredients, []byte("flour,g\nsugar,g\nflour,g\n"), 0o644))
	require.NoError(t, os.WriteFile(tags, []byte("name,slug,color\nBreakfast,breakfast,#E26C2D\n"), 0o644))

	out, err := run(t, "--driver", "sqlite", "--dsn", dsn, "--log-level", "disabled", "ingredients", ingredients)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 of 3 ingredients")

	// Importing again adds nothing.
	out, err = run(t, "--driver", "sqlite", "--dsn", dsn, "--log-level", "disabled", "ingredients", ingredients)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 of 3 ingredients")

	out, err = run(t, "--driver", "sqlite", "--dsn", dsn, "--log-level", "disabled", "tags", tags)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 of 1 tags")

	db, err := database.Open(database.Config{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	_, err = run(t, "--driver", "sqlite", "--dsn", dsn, "ingredients", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	_, err = run(t, "ingredients")
	assert.Error(t, err)
}
