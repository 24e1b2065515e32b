package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"metrogo/internal/config"
	"metrogo/internal/db"
	"metrogo/internal/mapview"
	"metrogo/internal/metrics"
	"metrogo/internal/publisher"
	"metrogo/internal/sim"
	"metrogo/internal/transit"
)

var rootCmd = &cobra.Command{
	Use:   "metrogo",
	Short: "Simulated city transit: live bus map, trip planner and wallet",
	Long: `metrogo simulates buses and metro trains moving along the lines of a city
network and serves them as a live SVG map, a JSON API, a GTFS-realtime feed and
NATS position messages. The same app shell can be used from the terminal.`,
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("network", "", "TOML network file (overrides NETWORK_FILE)")
	f.Uint64("seed", 0, "simulation seed, 0 for time based (overrides SIM_SEED)")
	f.Int("vehicles-per-line", 0, "vehicles per line (overrides VEHICLES_PER_LINE)")
	f.Duration("tick", 0, "simulation tick interval (overrides TICK_INTERVAL_MS)")
}

// loadConfig reads the environment and applies any root flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("network") {
		cfg.NetworkFile, _ = flags.GetString("network")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("vehicles-per-line") {
		n, _ := flags.GetInt("vehicles-per-line")
		if n < 0 {
			return nil, fmt.Errorf("invalid --vehicles-per-line: %d", n)
		}
		cfg.VehiclesPerLine = n
	}
	if flags.Changed("tick") {
		d, _ := flags.GetDuration("tick")
		if d <= 0 {
			return nil, fmt.Errorf("invalid --tick: %s", d)
		}
		cfg.TickInterval = d
	}
	return cfg, nil
}

// loadRegistry picks the network source: a TOML file, else a GTFS import in
// Postgres, else the built-in network. Validation problems are logged and
// tolerated; the resolver skips what it cannot place.
func loadRegistry(ctx context.Context, cfg *config.Config) (*transit.Registry, error) {
	var (
		reg *transit.Registry
		err error
	)
	switch {
	case cfg.NetworkFile != "":
		reg, err = transit.LoadFile(cfg.NetworkFile)
		if err != nil {
			return nil, err
		}
		log.Printf("network loaded from %s", cfg.NetworkFile)
	case cfg.DatabaseURL != "":
		reg, err = registryFromDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Printf("network loaded from GTFS database")
	default:
		reg = transit.Builtin()
	}
	if err := reg.Validate(); err != nil {
		log.Printf("network validation: %v", err)
	}
	log.Printf("network has %d stations and %d lines", len(reg.Stations()), len(reg.Lines()))
	return reg, nil
}

func registryFromDB(ctx context.Context, dsn string) (*transit.Registry, error) {
	sqlDB, err := db.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	defer sqlDB.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx, sqlDB); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db.LoadRegistry(ctx, sqlDB)
}

func newSimulator(cfg *config.Config, reg *transit.Registry, resolver *sim.Resolver, mcol *metrics.Collector) *sim.Simulator {
	fleet := sim.NewFleet(reg.Lines(), cfg.VehiclesPerLine, sim.NewSource(cfg.Seed))
	return sim.NewSimulator(fleet, cfg.TickInterval, resolver, mcol)
}

func viewportOptions(cfg *config.Config, preview bool) mapview.Options {
	if preview {
		opts := mapview.PreviewOptions()
		opts.Center = cfg.MapCenter
		opts.TileBase = cfg.PreviewTileURL
		return opts
	}
	opts := mapview.FullOptions()
	opts.Center = cfg.MapCenter
	opts.TileBase = cfg.TileBaseURL
	return opts
}

// wrapPublisherMetrics adapts our Collector to the PublisherMetrics interface.
func wrapPublisherMetrics(c *metrics.Collector) publisher.PublisherMetrics {
	if c == nil {
		return nil
	}
	return &pubMetrics{c: c}
}

type pubMetrics struct{ c *metrics.Collector }

func (p *pubMetrics) NATSPublishedInc()              { p.c.NATSPublished.Inc() }
func (p *pubMetrics) NATSPublishErrInc()             { p.c.NATSPublishErrs.Inc() }
func (p *pubMetrics) PublishObserve(d time.Duration) { p.c.PublishDuration.Observe(d.Seconds()) }
func (p *pubMetrics) NATSSetConnected(b bool) {
	if b {
		p.c.NATSConnected.Set(1)
	} else {
		p.c.NATSConnected.Set(0)
	}
}
