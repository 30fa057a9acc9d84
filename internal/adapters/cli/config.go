package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factoryplanner-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect factory planner configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (FP_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Example:
  factoryplanner config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			fmt.Println("Factory Planner Configuration")
			fmt.Println("=============================")

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			default:
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
				fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)
			}

			fmt.Println("\nSolver:")
			fmt.Printf("  Tolerance:        %g\n", cfg.Solver.Tolerance)
			fmt.Printf("  Attempts:         %d\n", cfg.Solver.Attempts)
			if cfg.Solver.Seed != 0 {
				fmt.Printf("  Seed:             %d\n", cfg.Solver.Seed)
			}

			fmt.Println("\nCosting:")
			fmt.Printf("  Refresh Interval: %s (burst: %d)\n", cfg.Costing.RefreshInterval, cfg.Costing.Burst)
			fmt.Printf("  Top Items:        %d\n", cfg.Costing.Top)

			fmt.Println("\nPlanner:")
			fmt.Printf("  Catalog:          %s\n", orNotSet(cfg.Planner.Catalog))
			fmt.Printf("  Project:          %s\n", orNotSet(cfg.Planner.Project))

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Printf("  Endpoint:         %s%s\n", cfg.Metrics.Addr, cfg.Metrics.Path)

			return nil
		},
	}
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User == nil {
		return raw
	}
	if _, hasPassword := parsed.User.Password(); hasPassword {
		parsed.User = url.UserPassword(parsed.User.Username(), "****")
	}
	return parsed.String()
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
