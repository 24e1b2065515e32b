package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/proto"

	"metrogo/internal/publisher"
	"metrogo/internal/sim"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the simulator headless and print vehicle positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		ticks, _ := flags.GetInt("ticks")
		every, _ := flags.GetInt("every")
		asJSON, _ := flags.GetBool("json")
		feedPath, _ := flags.GetString("feed")
		if ticks < 0 || every < 0 {
			return fmt.Errorf("--ticks and --every must not be negative")
		}

		reg, err := loadRegistry(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		resolver := sim.NewResolver(reg)
		simulator := newSimulator(cfg, reg, resolver, nil)

		// ticks are spaced by the configured interval on a virtual clock
		start := time.Now().UTC()
		at := start
		out := cmd.OutOrStdout()
		for i := 1; i <= ticks; i++ {
			fleet := simulator.Tick()
			at = start.Add(time.Duration(i) * cfg.TickInterval)
			if every > 0 && i%every == 0 && i != ticks {
				if err := printFleet(out, resolver, fleet, i, at, asJSON); err != nil {
					return err
				}
			}
		}
		fleet := simulator.Snapshot()
		if err := printFleet(out, resolver, fleet, ticks, at, asJSON); err != nil {
			return err
		}

		if feedPath != "" {
			b, err := proto.Marshal(publisher.BuildFeed(resolver, fleet, at))
			if err != nil {
				return fmt.Errorf("encode feed: %w", err)
			}
			if err := os.WriteFile(feedPath, b, 0o644); err != nil {
				return err
			}
		}
		return nil
	},
}

func printFleet(w io.Writer, r *sim.Resolver, fleet []sim.Vehicle, tick int, at time.Time, asJSON bool) error {
	if asJSON {
		msgs := make([]publisher.PositionMessage, 0, len(fleet))
		for _, v := range fleet {
			if msg, ok := publisher.NewPositionMessage(r, v, at); ok {
				msgs = append(msgs, msg)
			}
		}
		return json.NewEncoder(w).Encode(map[string]any{"tick": tick, "vehicles": msgs})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("VEHICLE", "LINE", "PROGRESS", "DIR", "LAT", "LNG")
	for _, v := range fleet {
		lat, lng := "-", "-"
		if pos, ok := r.Position(v); ok {
			lat, lng = fmt.Sprintf("%.5f", pos.Lat), fmt.Sprintf("%.5f", pos.Lng)
		}
		t.Row(v.ID, v.LineID, fmt.Sprintf("%.4f", v.Progress), fmt.Sprintf("%+d", v.Direction), lat, lng)
	}
	_, err := fmt.Fprintf(w, "tick %d\n%s\n", tick, t.Render())
	return err
}

func init() {
	f := simulateCmd.Flags()
	f.Int("ticks", 100, "ticks to simulate")
	f.Int("every", 0, "also print the fleet every N ticks")
	f.Bool("json", false, "print JSON position messages")
	f.String("feed", "", "write the final GTFS-realtime VehiclePositions feed to this file")
	rootCmd.AddCommand(simulateCmd)
}
