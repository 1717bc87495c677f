package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/gantry/internal/cli"
	"github.com/alexanderramin/gantry/internal/config"
	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/mattn/go-isatty"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Open database
	database, err := db.OpenDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Logs go to stderr so stdout stays clean for command output and the
	// MCP stdio transport.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewSlogUseCaseObserver(logger)
	}

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	resourceRepo := repository.NewSQLiteResourceRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	ganttCfg := cfg.GanttConfig()
	app := &cli.App{
		Projects:    service.NewProjectService(projectRepo, observer),
		Tasks:       service.NewTaskService(taskRepo, depRepo, observer),
		Resources:   service.NewResourceService(resourceRepo, assignmentRepo, taskRepo, observer),
		Gantt:       service.NewGanttService(uow, ganttCfg, observer),
		Utilization: service.NewUtilizationService(resourceRepo, assignmentRepo, ganttCfg.Defaults, observer),
		Import:      service.NewImportService(uow, observer),

		GanttConfig: ganttCfg,
		HTTPAddr:    cfg.HTTP.Addr,
		Version:     version,
		Logger:      logger,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
