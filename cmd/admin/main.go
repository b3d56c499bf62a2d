package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/cases"
	"casewatch/backend/internal/config"
	"casewatch/backend/internal/models"
	"casewatch/backend/internal/moderation"
	"casewatch/backend/internal/storage"
	"casewatch/backend/internal/votes"

	"github.com/spf13/cobra"
)

var actorID string

// app is built once per invocation in the root command's pre-run hook.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *storage.Service
	cases      *cases.Service
	votes      *votes.Ledger
	moderation *moderation.Service
	actor      auth.Actor
}

var current *app

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "admin",
	Short:        "Operator tooling for the casewatch backend",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "token" {
			return nil
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	db, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	// Restriction cache entries are written when redis is configured, so
	// suspensions made here take effect on the API at once.
	rdb, err := storage.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable, continuing without cache", "error", err)
		rdb = nil
	}
	store := storage.NewStorageService(db, rdb)

	operator := &models.User{ID: actorID, Name: "Operator", Role: models.RoleAdmin, Status: models.AccountVerified}
	if err := store.SaveUserIfNotExists(ctx, operator); err != nil {
		return nil, err
	}
	if operator.Role != models.RoleAdmin {
		return nil, fmt.Errorf("actor %s is %s, admin commands need an ADMIN account", operator.ID, operator.Role)
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		cases:      cases.NewService(store, logger),
		votes:      votes.NewLedger(store, logger),
		moderation: moderation.NewService(store, logger),
		actor:      auth.Actor{UserID: operator.ID, Role: operator.Role, Status: operator.Status},
	}, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "system-admin", "ADMIN user id recorded as the performer")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
