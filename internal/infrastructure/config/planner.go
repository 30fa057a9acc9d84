package config

import "time"

// SolverConfig tunes the simplex used by both the production solver and the cost estimator
type SolverConfig struct {
	// Tolerance below which reduced costs and ratios count as zero
	Tolerance float64 `mapstructure:"tolerance" validate:"gt=0,lt=0.01"`

	// Attempts is how many random seeds are tried before giving up
	Attempts int `mapstructure:"attempts" validate:"min=1,max=16"`

	// Seed makes the retry sequence reproducible; 0 picks one per run
	Seed uint64 `mapstructure:"seed"`
}

// CostingConfig controls how often the background cost analysis is recomputed
type CostingConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval" validate:"min=0"`
	Burst           int           `mapstructure:"burst" validate:"min=1"`

	// Top limits the important items printed by the costs command
	Top int `mapstructure:"top" validate:"min=1"`
}

// PlannerConfig names the catalog and project used when the CLI gets none
type PlannerConfig struct {
	Catalog string `mapstructure:"catalog"`
	Project string `mapstructure:"project"`
}
