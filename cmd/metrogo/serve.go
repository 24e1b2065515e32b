package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"metrogo/internal/app"
	"metrogo/internal/mapview"
	"metrogo/internal/metrics"
	"metrogo/internal/publisher"
	"metrogo/internal/server"
	"metrogo/internal/sim"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulator and serve the map, API and feeds over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTPAddr = addr
		}

		// Root context with cancellation on SIGINT/SIGTERM
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		reg, err := loadRegistry(ctx, cfg)
		if err != nil {
			return err
		}
		resolver := sim.NewResolver(reg)

		mcol := metrics.NewCollector(cfg.TickInterval, cfg.VehiclesPerLine)
		if cfg.MetricsAddr != "" {
			srv := mcol.Serve(cfg.MetricsAddr)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}

		simulator := newSimulator(cfg, reg, resolver, mcol)

		if cfg.NATSURL != "" {
			pub, err := publisher.NewNATSPublisher(publisher.Options{
				URL:           cfg.NATSURL,
				SubjectPrefix: cfg.SubjectPrefix,
				LogSubjects:   cfg.LogNATSSubjects,
				Interval:      cfg.PublishInterval,
				Metrics:       wrapPublisherMetrics(mcol),
			}, resolver)
			if err != nil {
				return err
			}
			defer pub.Close()
			simulator.Subscribe(pub.Observe)
			log.Printf("publishing positions to %s under %q", cfg.NATSURL, cfg.SubjectPrefix)
		}

		session := app.NewSession(reg, app.Options{ReplyDelay: cfg.ChatReplyDelay})
		defer session.Close()

		simulator.Start(ctx)
		defer simulator.Stop()

		srv := server.New(cfg.HTTPAddr, cfg.CORSOrigins, server.Deps{
			Registry:  reg,
			Simulator: simulator,
			Resolver:  resolver,
			Session:   session,
			Full:      mapview.NewViewport(viewportOptions(cfg, false)),
			Preview:   mapview.NewViewport(viewportOptions(cfg, true)),
			Metrics:   mcol,
		})
		err = srv.Serve(ctx)
		log.Println("shutdown complete")
		return err
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
