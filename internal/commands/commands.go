// Package commands is the lunaday command line.
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lunaday/internal/activity"
	"lunaday/internal/config"
	"lunaday/internal/logging"
	"lunaday/internal/storage"
)

// app holds what every subcommand opens from the config file.
type app struct {
	configFlag string
	configPath string
	now        func() time.Time

	cfg   config.Config
	log   *zap.Logger
	kv    storage.KV
	store *activity.Store
}

func (a *app) open() error {
	a.configPath = config.ResolvePath(a.configFlag)
	cfg, err := config.LoadOrCreate(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	a.log = log

	kv, err := storage.OpenBackend(cfg.Storage, cfg.StoragePath())
	if err != nil {
		_ = log.Sync()
		return fmt.Errorf("failed to open storage: %w", err)
	}
	a.kv = kv
	a.store = activity.Open(kv, activity.WithLogger(log.Named("activity")))
	log.Debug("opened", zap.String("config", a.configPath),
		zap.String("storage", cfg.Storage), zap.String("path", cfg.StoragePath()))
	return nil
}

func (a *app) close() {
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.log.Warn("close storage", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func New() *cobra.Command {
	return newRoot(&app{now: time.Now})
}

func newRoot(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lunaday",
		Short: "A terminal day planner with lunar annotations.",
		Long: `lunaday is a month, week and day calendar that annotates every day with
its Chinese lunar date and keeps a list of activities per day.

Run without a subcommand to open the planner.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, a)
		},
	}
	cmd.PersistentFlags().StringVar(&a.configFlag, "config", "",
		fmt.Sprintf("Config file (default $%s or the user config dir).", config.EnvConfigPath))

	addCommands(cmd, a)
	return cmd
}

func addCommands(topLevel *cobra.Command, a *app) {
	addUI(topLevel, a)
	addAdd(topLevel, a)
	addList(topLevel, a)
	addRm(topLevel, a)
	addLunar(topLevel, a)
	addVersion(topLevel)
}
