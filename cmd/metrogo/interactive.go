package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"metrogo/internal/app"
	"metrogo/internal/mapview"
	"metrogo/internal/sim"
	"metrogo/internal/tui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the app shell in the terminal",
	Long:  `Log in, plan trips, buy tickets, follow buses on a line and chat with support from an interactive terminal UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		reg, err := loadRegistry(ctx, cfg)
		if err != nil {
			return err
		}
		resolver := sim.NewResolver(reg)
		simulator := newSimulator(cfg, reg, resolver, nil)
		simulator.Start(ctx)
		defer simulator.Stop()

		session := app.NewSession(reg, app.Options{ReplyDelay: cfg.ChatReplyDelay})
		defer session.Close()

		return tui.Run(ctx, tui.Deps{
			Registry:  reg,
			Simulator: simulator,
			Resolver:  resolver,
			Session:   session,
			Viewport:  mapview.NewViewport(viewportOptions(cfg, false)),
		})
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
