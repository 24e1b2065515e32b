package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err)
	return out
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"NETWORK_FILE", "DATABASE_URL", "PG_DSN", "PGDATABASE", "SIM_SEED", "VEHICLES_PER_LINE", "TICK_INTERVAL_MS"} {
		t.Setenv(k, "")
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSimulateJSON(t *testing.T) {
	feed := filepath.Join(t.TempDir(), "feed.pb")
	out := execute(t, "simulate", "--seed", "3", "--ticks", "10", "--json", "--feed", feed)

	var got struct {
		Tick     int `json:"tick"`
		Vehicles []struct {
			VehicleID string  `json:"vehicleId"`
			Progress  float64 `json:"progress"`
		} `json:"vehicles"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 10, got.Tick)
	assert.Len(t, got.Vehicles, 14)
	for _, v := range got.Vehicles {
		assert.True(t, strings.HasPrefix(v.VehicleID, "BUS-"))
		assert.GreaterOrEqual(t, v.Progress, 0.0)
		assert.LessOrEqual(t, v.Progress, 1.0)
	}

	b, err := os.ReadFile(feed)
	require.NoError(t, err)
	var msg gtfs.FeedMessage
	require.NoError(t, proto.Unmarshal(b, &msg))
	assert.Len(t, msg.GetEntity(), 14)
}

func TestSimulateSameSeedSameOutput(t *testing.T) {
	a := execute(t, "simulate", "--seed", "9", "--ticks", "25", "--json=false", "--every", "0", "--feed", "")
	b := execute(t, "simulate", "--seed", "9", "--ticks", "25", "--json=false", "--every", "0", "--feed", "")
	assert.Equal(t, a, b)
	assert.Contains(t, a, "tick 25")
	assert.Contains(t, a, "BUS-L_M1-1")
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.svg")
	execute(t, "render", "--seed", "1", "--ticks", "3", "--line", "L_3", "-o", path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	svg := string(b)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(svg), "<svg"))
	assert.Equal(t, 2, strings.Count(svg, "data-vehicle="))
}

func TestRenderUnknownLine(t *testing.T) {
	_, err := run(t, "render", "--line", "nope", "-o", filepath.Join(t.TempDir(), "x.svg"))
	assert.ErrorContains(t, err, "unknown line")
}
