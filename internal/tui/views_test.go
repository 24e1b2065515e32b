package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrogo/internal/app"
	"metrogo/internal/sim"
	"metrogo/internal/transit"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, "[          ]"},
		{0.5, "[=====     ]"},
		{1, "[==========]"},
		{1.7, "[==========]"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, progressBar(tc.p, 10))
	}
}

func TestRenderResults(t *testing.T) {
	assert.Contains(t, renderResults(nil), "No routes found")

	reg := transit.Builtin()
	s := app.NewSession(reg, app.Options{})
	defer s.Close()
	_, err := s.Login("9876543210")
	require.NoError(t, err)
	results, err := s.Search("s1", "s2")
	require.NoError(t, err)

	out := renderResults(results)
	assert.Contains(t, out, "31J / 11J")
	assert.Contains(t, out, "₹40")
	assert.Contains(t, out, "10:15 AM")
}

func TestRenderWalletAndTickets(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	st := app.State{
		Balance: 60,
		History: []app.Transaction{
			{Title: "Ticket", At: at, Amount: 40, Kind: app.Debit},
			{Title: "Welcome Bonus", At: at, Amount: 100, Kind: app.Credit},
		},
	}
	out := renderWallet(st)
	assert.Contains(t, out, "₹60")
	assert.Contains(t, out, "-₹40")
	assert.Contains(t, out, "+₹100")

	assert.Contains(t, renderTickets(nil), "No tickets yet")
	out = renderTickets([]app.Ticket{{ID: "abc", Lines: []string{"No. 3"}, Price: 25, Departure: "10:10 AM", Arrival: "10:35 AM"}})
	assert.Contains(t, out, "No. 3")
	assert.Contains(t, out, "abc")
}

func TestRenderLine(t *testing.T) {
	reg := transit.Builtin()
	line, ok := reg.Line("L_3")
	require.True(t, ok)
	s := app.NewSession(reg, app.Options{})
	defer s.Close()
	stops, err := s.Timeline("L_3", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	fleet := []sim.Vehicle{
		{ID: "BUS-L_3-0", LineID: "L_3", Progress: 0.5, Direction: sim.Backward, Speed: 0.001},
		{ID: "BUS-L_218-0", LineID: "L_218", Progress: 0.5, Direction: sim.Forward, Speed: 0.001},
	}
	out := renderLine(line, stops, fleet, sim.NewResolver(reg))
	assert.Contains(t, out, "Gannavaram Airport")
	assert.Contains(t, out, "10:42")
	assert.Contains(t, out, "BUS-L_3-0")
	assert.Contains(t, out, "←")
	assert.NotContains(t, out, "BUS-L_218-0")
}

func TestRenderChat(t *testing.T) {
	out := renderChat([]app.Message{
		{Text: "Hi! How can I help you?", Sender: app.FromBot},
		{Text: "bus late", Sender: app.FromUser},
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "support")
	assert.Contains(t, lines[1], "bus late")
}

func TestWaitForReply(t *testing.T) {
	s := app.NewSession(transit.Builtin(), app.Options{ReplyDelay: 10 * time.Millisecond})
	defer s.Close()
	before := len(s.Messages())
	_, ok := s.Send("hello")
	require.True(t, ok)
	waitForReply(s, before+1, time.Second)
	assert.Len(t, s.Messages(), before+2)
}
