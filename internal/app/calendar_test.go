package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCalendar(t *testing.T) {
	bought := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	tickets := []Ticket{
		{ID: "t-1", Lines: []string{"55 Route", "10 / 23H"}, Price: 40, Departure: "10:15 AM", Arrival: "11:00 AM", PurchasedAt: bought},
		{ID: "t-2", Lines: []string{"No. 3"}, Price: 25, Departure: "soon", Arrival: "later", PurchasedAt: bought},
	}

	var sb strings.Builder
	require.NoError(t, WriteCalendar(&sb, tickets, time.UTC))
	out := sb.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"), "unparseable times are skipped")
	assert.Contains(t, out, "UID:t-1")
	assert.Contains(t, out, "20260301T101500Z")
	assert.Contains(t, out, "20260301T110000Z")
}

func TestOnDay(t *testing.T) {
	day := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	got, err := onDay(day, "10:10 AM")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 10, 0, 0, time.UTC), got)

	_, err = onDay(day, "25:00")
	assert.Error(t, err)
}
