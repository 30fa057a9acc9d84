package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath   string
	catalogName  string
	projectName  string
	verbose      bool
	serveMetrics bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "factoryplanner",
		Short: "Factory planner - solve production networks and estimate costs",
		Long: `Factory planner keeps a catalog of goods, recipes and machines together with
projects made of production pages, and solves each page as a linear program.

Examples:
  factoryplanner catalog import base.json --catalog base
  factoryplanner page import smelting.json --catalog base --project main
  factoryplanner solve smelting --catalog base --project main
  factoryplanner costs --catalog base --top 10
  factoryplanner config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogName, "catalog", "",
		"Catalog name (default: planner.catalog from config)")
	rootCmd.PersistentFlags().StringVar(&projectName, "project", "",
		"Project name (default: planner.project from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&serveMetrics, "metrics", false,
		"Expose Prometheus metrics while the command runs")

	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewPageCommand())
	rootCmd.AddCommand(NewProjectCommand())
	rootCmd.AddCommand(NewSolveCommand())
	rootCmd.AddCommand(NewCostsCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
