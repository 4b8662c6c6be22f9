package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lunaday/internal/config"
	"lunaday/internal/planner"
	"lunaday/internal/ui"
)

func addUI(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the planner.",
		Example: `
lunaday ui
lunaday ui --config ./lunaday.toml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, a)
		},
	}

	topLevel.AddCommand(cmd)
}

func runUI(cmd *cobra.Command, a *app) error {
	if err := a.open(); err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p, err := planner.New(a.store, planner.Settings{
		SettleDelay: a.cfg.SettleDelay.Duration,
		PanelRows:   a.cfg.PanelRows,
		View:        a.cfg.View(),
	}, planner.WithClock(a.now), planner.WithLogger(a.log.Named("planner")))
	if err != nil {
		return err
	}

	opts := []ui.Option{ui.WithClock(a.now), ui.WithLogger(a.log.Named("ui"))}
	reload, err := config.Watch(ctx, a.configPath, a.log.Named("config"))
	if err != nil {
		a.log.Warn("config reload disabled", zap.Error(err))
	} else {
		opts = append(opts, ui.WithReload(reload))
	}

	a.log.Info("planner started", zap.Stringer("view", a.cfg.View()),
		zap.String("gesture_profile", a.cfg.GestureProfile))
	return ui.Run(ctx, p, a.cfg, opts...)
}
