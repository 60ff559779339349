// Command recipe-api runs the recipe book HTTP API and its admin tasks.
//
// @title                       Recipe API
// @version                     1.0
// @description                 Recipe book backend: accounts, tags, ingredients and recipes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/recipeapp/recipe-api/internal/infrastructure/config"
	"github.com/recipeapp/recipe-api/pkg/logger"
)

var (
	envFile string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "recipe-api",
	Short: "Recipe book API server",
	Long: `recipe-api serves the recipe book REST API backed by MongoDB and Redis.

Configuration is read from the environment. An optional .env file is loaded
first; variables already set in the environment take precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return err
		}

		log = logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.IsDevelopment(),
			Service: "recipe-api",
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, createSuperuserCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
