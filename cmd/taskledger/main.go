package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskledger/taskledger/internal/config"
	"github.com/taskledger/taskledger/internal/database"
	"github.com/taskledger/taskledger/internal/domain"
	"github.com/taskledger/taskledger/internal/handler"
	"github.com/taskledger/taskledger/internal/logger"
	"github.com/taskledger/taskledger/internal/middleware"
	"github.com/taskledger/taskledger/internal/repository"
	"github.com/taskledger/taskledger/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "taskledger",
		Usage: "Task tracker with an append-only event ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL database URL",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.BoolFlag{
						Name:  "memory",
						Usage: "Run on the in-memory backend instead of PostgreSQL",
					},
				},
				Action: runServe,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}

	var (
		tasks  domain.TaskRepository
		events domain.EventStore
		pinger handler.Pinger
	)

	if c.Bool("memory") {
		slog.Info("using in-memory backend")
		tasks = repository.NewMemoryTaskRepository()
		events = repository.NewMemoryEventStore()
	} else {
		databaseURL := c.String("database-url")
		if databaseURL == "" {
			return errors.New("database-url is required unless --memory is set")
		}

		db, err := database.New(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db.Pool()); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		tasks = repository.NewPostgresTaskRepository(db.Pool())
		events = repository.NewPostgresEventStore(db.Pool())
		pinger = db
	}

	publisher := domain.NewStorePublisher(events)
	taskService := service.NewTaskService(tasks, events, publisher)
	h := handler.New(taskService, pinger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           middleware.Logging(mux),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
