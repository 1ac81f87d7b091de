package main

import (
	"context"
	"fmt"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"
	"foodgram/internal/repositories"
	"foodgram/internal/services"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"driver":    "DATABASE_DRIVER",
	"dsn":       "DATABASE_DSN",
	"log-level": "LOG_LEVEL",
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "loaddata",
		Short:         "loaddata imports catalog data into the foodgram database",
		Long:          "loaddata reads ingredients or tags from CSV files and inserts the rows that are not in the database yet.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd.Flags(), v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("driver", "", "Database driver: postgres or sqlite (default from DATABASE_DRIVER)")
	flags.String("dsn", "", "Database connection string (default from DATABASE_DSN)")
	flags.String("log-level", "", "Log level (default from LOG_LEVEL)")

	rootCmd.AddCommand(newIngredientsCmd(v), newTagsCmd(v))
	return rootCmd
}

// bindFlags layers explicitly set flags over defaults and the environment.
func bindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	config.SetDefaults(v)
	v.AutomaticEnv()

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil || !f.Changed {
			return
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

// withCatalog opens the configured database and runs fn with a catalog
// service on top of it.
func withCatalog(v *viper.Viper, fn func(ctx context.Context, catalog *services.CatalogService) error) error {
	cfg := config.FromViper(v)
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})

	db, err := database.Open(database.Config{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseDSN})
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	catalog, err := services.NewCatalogService(repositories.NewGORMCatalogRepository(db), cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
	if err != nil {
		return fmt.Errorf("failed to create catalog service: %w", err)
	}
	return fn(context.Background(), catalog)
}
