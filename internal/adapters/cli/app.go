package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/factoryplanner-go/internal/adapters/lp"
	"github.com/andrescamacho/factoryplanner-go/internal/adapters/metrics"
	"github.com/andrescamacho/factoryplanner-go/internal/adapters/persistence"
	"github.com/andrescamacho/factoryplanner-go/internal/application/common"
	costingServices "github.com/andrescamacho/factoryplanner-go/internal/application/costing/services"
	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
	productionServices "github.com/andrescamacho/factoryplanner-go/internal/application/production/services"
	"github.com/andrescamacho/factoryplanner-go/internal/application/setup"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
	"github.com/andrescamacho/factoryplanner-go/internal/infrastructure/config"
	"github.com/andrescamacho/factoryplanner-go/internal/infrastructure/database"
)

// app is the wiring shared by every command: config, database and a mediator
// with all handlers registered
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	mediator mediator.Mediator
	logger   common.Logger
	metrics  *metrics.Server
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	a := &app{cfg: cfg, db: db}
	if err := a.setupMetrics(); err != nil {
		database.Close(db)
		return nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	output := os.Stderr
	if cfg.Logging.Output == "stdout" {
		output = os.Stdout
	}
	a.logger = common.NewStdLogger(log.New(output, "", log.LstdFlags), level)

	clock := shared.NewRealClock()
	solverOptions := []lp.Option{
		lp.WithTolerance(cfg.Solver.Tolerance),
		lp.WithAttempts(cfg.Solver.Attempts),
	}
	if cfg.Solver.Seed != 0 {
		solverOptions = append(solverOptions, lp.WithSeed(cfg.Solver.Seed))
	}

	estimator := costingServices.NewCostEstimator(clock, solverOptions...)
	refresher := costingServices.NewCostRefresher(estimator, cfg.Costing.RefreshInterval, cfg.Costing.Burst)
	solver := productionServices.NewNetworkSolver(estimator, clock, solverOptions...)

	registry := setup.NewHandlerRegistry(
		persistence.NewGormCatalogRepository(db, clock),
		persistence.NewGormProjectRepository(db, clock),
		persistence.NewGormCostSnapshotRepository(db),
		estimator,
		refresher,
		solver,
	)
	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}
	if metrics.IsEnabled() {
		collector := metrics.NewCommandMetricsCollector()
		if err := collector.Register(); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to register command metrics: %w", err)
		}
		m.Use(metrics.PrometheusMiddleware(collector))
	}
	a.mediator = m

	return a, nil
}

func (a *app) setupMetrics() error {
	if !serveMetrics && !a.cfg.Metrics.Enabled {
		return nil
	}
	metrics.InitRegistry()
	collector := metrics.NewSolverMetricsCollector()
	if err := collector.Register(); err != nil {
		return fmt.Errorf("failed to register solver metrics: %w", err)
	}
	metrics.SetGlobalSolverCollector(collector)

	server, err := metrics.NewServer(a.cfg.Metrics.Addr, a.cfg.Metrics.Path)
	if err != nil {
		return err
	}
	server.Start()
	a.metrics = server
	return nil
}

// context returns a background context carrying the configured logger
func (a *app) context() context.Context {
	return common.WithLogger(context.Background(), a.logger)
}

// catalog resolves the catalog name from the flag or the config
func (a *app) catalog() (string, error) {
	name := catalogName
	if name == "" {
		name = a.cfg.Planner.Catalog
	}
	if name == "" {
		return "", fmt.Errorf("--catalog flag is required (or set planner.catalog)")
	}
	return name, nil
}

// project resolves the project name from the flag or the config
func (a *app) project() (string, error) {
	name := projectName
	if name == "" {
		name = a.cfg.Planner.Project
	}
	if name == "" {
		return "", fmt.Errorf("--project flag is required (or set planner.project)")
	}
	return name, nil
}

func (a *app) close() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.metrics.Shutdown(ctx); err != nil {
			log.Printf("Warning: failed to stop metrics server: %v", err)
		}
	}
	if err := database.Close(a.db); err != nil {
		log.Printf("Warning: failed to close database: %v", err)
	}
}

// withApp runs fn with a fully wired app and tears it down afterwards
func withApp(fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
