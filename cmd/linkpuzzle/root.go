package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vytor/linkpuzzle/internal/config"
	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/puzzleclient"
	"github.com/vytor/linkpuzzle/internal/repository"
	"github.com/vytor/linkpuzzle/internal/services"
	"github.com/vytor/linkpuzzle/internal/storage"
)

// app is everything a subcommand needs, built once per invocation.
type app struct {
	cfg     config.Config
	log     *logger.Logger
	backend *storage.Backend
	store   *repository.Store
	svc     services.GameService
}

func newApp(ctx context.Context, fs *pflag.FlagSet, cmd *cobra.Command) (*app, context.Context, error) {
	cfg := config.LoadWithDefaults(fs, map[string]any{"log-level": "WARN"})

	log := logger.New(
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
		logger.WithJSON(cfg.LogFormat == "json"),
	)
	logger.SetDefault(log)
	ctx = logger.NewContext(ctx, log)

	if err := cfg.ValidateClient(); err != nil {
		return nil, ctx, err
	}

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, ctx, err
	}
	store := repository.NewStore(backend)

	client, err := puzzleclient.New(cfg.PuzzleURL,
		puzzleclient.WithTimeout(cfg.HTTPTimeout),
		puzzleclient.WithFetchAttempts(cfg.FetchAttempts),
		puzzleclient.WithSessionID(store.LoadSession(ctx)),
	)
	if err != nil {
		backend.Close()
		return nil, ctx, err
	}
	log.Debug("puzzle_url=%s store_backend=%s", cfg.PuzzleURL, backend.Name)

	return &app{
		cfg:     cfg,
		log:     log,
		backend: backend,
		store:   store,
		svc:     services.NewGameService(client, store),
	}, ctx, nil
}

func (a *app) close() {
	if err := a.backend.Close(); err != nil {
		a.log.Warn("failed to close store: %v", err)
	}
}

// run wraps a subcommand body with app setup and teardown.
func run(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, ctx, err := newApp(cmd.Context(), cmd.Flags(), cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(ctx, a, cmd, args)
	}
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "linkpuzzle",
		Short:         "Play the daily link puzzle in your terminal.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE:          run(playCmd),
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	config.RegisterFlags(fs,
		"puzzle-url",
		"store-backend",
		"store-path",
		"db-path",
		"redis-url",
		"redis-namespace",
		"http-timeout",
		"fetch-attempts",
		"share-url",
		"log-format",
	)
	fs.String("log-level", "WARN", "DEBUG, INFO, WARN or ERROR (env: LOG_LEVEL)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "play",
			Short: "Play today's puzzle interactively",
			Args:  cobra.ExactArgs(0),
			RunE:  run(playCmd),
		},
		&cobra.Command{
			Use:   "guess <word>",
			Short: "Submit a single guess for today's puzzle",
			Args:  cobra.MinimumNArgs(1),
			RunE:  run(guessCmd),
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show your statistics",
			Args:  cobra.ExactArgs(0),
			RunE:  run(statsCmd),
		},
		newShareCmd(),
		&cobra.Command{
			Use:   "reset",
			Short: "Start today's puzzle over with a new server session (statistics are kept)",
			Args:  cobra.ExactArgs(0),
			RunE:  run(resetCmd),
		},
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("linkpuzzle v{{.Version}}\n")

	return cmd
}
