package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"metrogo/internal/mapview"
	"metrogo/internal/sim"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write one SVG frame of the map",
	Long: `Render advances a fresh simulation by --ticks steps and writes the resulting
map frame as SVG. Use a fixed --seed for reproducible frames.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		preview, _ := flags.GetBool("preview")
		lineID, _ := flags.GetString("line")
		ticks, _ := flags.GetInt("ticks")
		zoom, _ := flags.GetInt("zoom")
		out, _ := flags.GetString("out")

		reg, err := loadRegistry(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if lineID != "" {
			if _, ok := reg.Line(lineID); !ok {
				return fmt.Errorf("unknown line %q", lineID)
			}
		}
		resolver := sim.NewResolver(reg)
		simulator := newSimulator(cfg, reg, resolver, nil)
		for i := 0; i < ticks; i++ {
			simulator.Tick()
		}

		vp := mapview.NewViewport(viewportOptions(cfg, preview))
		if zoom > 0 {
			vp.SetZoom(zoom)
		}
		scene := vp.Scene(reg, simulator.Snapshot(), resolver, lineID)

		var w io.Writer = cmd.OutOrStdout()
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return mapview.RenderSVG(w, scene)
	},
}

func init() {
	f := renderCmd.Flags()
	f.Bool("preview", false, "render the compact home screen preview")
	f.String("line", "", "focus a line id")
	f.Int("ticks", 0, "ticks to simulate before rendering")
	f.Int("zoom", 0, "override the zoom level")
	f.StringP("out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(renderCmd)
}
