// @title			Taskdesk API
// @version		1.0
// @description	Task tracker with audited delegate management and aggregated task search.
// @BasePath		/api/v1

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

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/taskdesk/internal/auth"
	"github.com/mtlprog/taskdesk/internal/config"
	"github.com/mtlprog/taskdesk/internal/database"
	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/handler"
	"github.com/mtlprog/taskdesk/internal/logger"
	"github.com/mtlprog/taskdesk/internal/middleware"
	"github.com/mtlprog/taskdesk/internal/repository"
)

const configKey = "config"

func main() {
	// Dotenv files must be loaded before flags read their EnvVars.
	envFiles, envErr := config.LoadEnvFiles(config.DefaultEnvFiles...)

	app := &cli.App{
		Name:  "taskdesk",
		Usage: "Task tracker with audited delegate management",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			if envErr != nil {
				return envErr
			}
			if envFiles > 0 {
				slog.Debug("loaded env files", "count", envFiles)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.App.Metadata = map[string]any{configKey: cfg}
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
				},
				Action: runServe,
			},
			{
				Name:  "migrate",
				Usage: "Apply pending database migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "down", Usage: "Roll back the most recent migration instead"},
					&cli.BoolFlag{Name: "status", Usage: "Print migration status and exit"},
				},
				Action: runMigrate,
			},
			{
				Name:  "create-user",
				Usage: "Create a user account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "User email", Required: true},
					&cli.StringFlag{Name: "nickname", Usage: "User nickname", Required: true},
				},
				Action: runCreateUser,
			},
			{
				Name:  "issue-token",
				Usage: "Issue an API bearer token for a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user-id", Usage: "User UUID", Required: true},
				},
				Action: runIssueToken,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func loadedConfig(c *cli.Context) *config.Config {
	return c.App.Metadata[configKey].(*config.Config)
}

func openDatabase(c *cli.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.New(c.Context, c.String("database-url"), database.Options{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context
	cfg := loadedConfig(c)

	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}

	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	h := handler.New(db.Pool(), cfg)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           middleware.RequestLogger(slog.Default())(mux),
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
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

func runMigrate(c *cli.Context) error {
	db, err := openDatabase(c, loadedConfig(c))
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case c.Bool("status"):
		states, err := database.MigrationStatus(c.Context, db.Pool())
		if err != nil {
			return err
		}
		for _, s := range states {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\n", s.Version, state, s.Path)
		}
		return nil
	case c.Bool("down"):
		return database.RollbackMigration(c.Context, db.Pool())
	}

	if err := database.RunMigrations(c.Context, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func runCreateUser(c *cli.Context) error {
	db, err := openDatabase(c, loadedConfig(c))
	if err != nil {
		return err
	}
	defer db.Close()

	user := &domain.User{Email: c.String("email"), Nickname: c.String("nickname")}
	if err := repository.NewUserRepository(db.Pool()).Create(c.Context, user); err != nil {
		return err
	}

	slog.Info("user created", "user_id", user.ID, "email", user.Email)
	fmt.Fprintln(c.App.Writer, user.ID)
	return nil
}

func runIssueToken(c *cli.Context) error {
	cfg := loadedConfig(c)
	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}

	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := repository.NewUserRepository(db.Pool()).GetByID(c.Context, c.String("user-id"))
	if err != nil {
		return err
	}

	token, err := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL).Issue(user)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, token)
	return nil
}
