package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexanderramin/holdings/internal/cli"
	"github.com/alexanderramin/holdings/internal/cli/formatter"
	"github.com/alexanderramin/holdings/internal/config"
	"github.com/alexanderramin/holdings/internal/db"
	"github.com/alexanderramin/holdings/internal/repository"
	"github.com/alexanderramin/holdings/internal/service"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	var observers []service.UseCaseObserver
	if cfg.Log.UseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if err := formatter.SetColorMode(cfg.Display.Color, tty); err != nil {
		return fmt.Errorf("display.color: %w", err)
	}

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	categoryRepo := repository.NewSQLiteCategoryRepo(database)
	valuationRepo := repository.NewSQLiteValuationRepo(database)
	transactionRepo := repository.NewSQLiteTransactionRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Portfolio:  service.NewPortfolioService(categoryRepo, valuationRepo, transactionRepo, observers...),
		Records:    service.NewRecordService(uow, observers...),
		Categories: service.NewCategoryService(categoryRepo, uow, observers...),
		Import:     service.NewImportService(uow, observers...),
		Money:      formatter.NewMoney(cfg.Display.Currency),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("starting", "db", cfg.Database.Path, "currency", cfg.Display.Currency)
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
