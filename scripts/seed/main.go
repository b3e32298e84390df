// Seeds a Great Awareness database with fixtures or fake demo activity.
//
// Usage:
//
//	go run ./scripts/seed milestones
//	go run ./scripts/seed fixtures --file scripts/seed/fixtures.yaml
//	go run ./scripts/seed demo --users 20 --questions 40
package main

import (
	"fmt"
	"great_awareness_backend/internal/config"
	"great_awareness_backend/pkg/database"
	"great_awareness_backend/pkg/logger"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir string
	seeder    *Seeder
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "seed - load fixtures and demo data into the Great Awareness database",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.InitLogger(cfg)

		// seeding always runs against an up to date schema
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, true)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		seeder = NewSeeder(db, cfg)
		return nil
	},
	SilenceUsage: true,
}

var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "Create the default recovery milestones",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := seeder.Milestones(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("milestones created: %d\n", created)
		return nil
	},
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Load accounts, posts and questions from a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		f, err := LoadFixtures(file)
		if err != nil {
			return err
		}
		sum, err := seeder.Fixtures(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Println(sum)
		return nil
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate fake users, questions and engagement",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts DemoOptions
		opts.Users, _ = cmd.Flags().GetInt("users")
		opts.Questions, _ = cmd.Flags().GetInt("questions")
		opts.Seed, _ = cmd.Flags().GetInt64("seed")

		sum, err := seeder.Demo(cmd.Context(), opts)
		if err != nil {
			return err
		}
		fmt.Println(sum)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory holding config.yaml")

	fixturesCmd.Flags().String("file", "scripts/seed/fixtures.yaml", "fixtures file")

	demoCmd.Flags().Int("users", 20, "number of demo users")
	demoCmd.Flags().Int("questions", 40, "number of demo questions")
	demoCmd.Flags().Int64("seed", 0, "random seed, 0 picks one")

	rootCmd.AddCommand(milestonesCmd, fixturesCmd, demoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Log.Error("seed failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
