package publisher

import (
	"testing"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"metrogo/internal/sim"
	"metrogo/internal/transit"
)

func testResolver() *sim.Resolver {
	return sim.NewResolver(transit.NewRegistry(
		[]transit.Station{
			{ID: "s1", Lat: 16.5086, Lng: 80.6183, Kind: transit.Hub},
			{ID: "s2", Lat: 16.5003, Lng: 80.6539, Kind: transit.Hub},
		},
		[]transit.Line{{ID: "L.1", Name: "One", Stations: []string{"s1", "s2"}}},
	))
}

func TestSubject(t *testing.T) {
	tests := []struct {
		line, vehicle, want string
	}{
		{"L_3", "BUS-L_3-0", "vehicles.L_3.BUS-L_3-0"},
		{"31J / 11J", "v", "vehicles.31J___11J.v"},
		{"a.b", "x*y>", "vehicles.a_b.x_y_"},
		{"  ", "", "vehicles._._"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, Subject("vehicles", tc.line, tc.vehicle))
		})
	}
}

func TestNewPositionMessage(t *testing.T) {
	r := testResolver()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg, ok := NewPositionMessage(r, sim.Vehicle{ID: "v", LineID: "L.1", Label: "One", Progress: 0.5, Direction: sim.Forward}, at)
	require.True(t, ok)
	assert.InDelta(t, (16.5086+16.5003)/2, msg.Lat, 1e-9)
	assert.InDelta(t, (80.6183+80.6539)/2, msg.Lng, 1e-9)
	assert.Equal(t, at, msg.Timestamp)
	assert.Equal(t, sim.Forward, msg.Direction)

	_, ok = NewPositionMessage(r, sim.Vehicle{ID: "x", LineID: "missing"}, at)
	assert.False(t, ok)
}

func TestBuildFeed(t *testing.T) {
	r := testResolver()
	at := time.Unix(1700000000, 0)
	fleet := []sim.Vehicle{
		{ID: "a", LineID: "L.1", Label: "One", Progress: 0.25, Direction: sim.Forward},
		{ID: "b", LineID: "L.1", Label: "One", Progress: 0.75, Direction: sim.Backward},
		{ID: "ghost", LineID: "missing", Progress: 0.5, Direction: sim.Forward},
	}
	feed := BuildFeed(r, fleet, at)
	assert.Equal(t, "2.0", feed.GetHeader().GetGtfsRealtimeVersion())
	assert.Equal(t, gtfs.FeedHeader_FULL_DATASET, feed.GetHeader().GetIncrementality())
	assert.Equal(t, uint64(1700000000), feed.GetHeader().GetTimestamp())
	require.Len(t, feed.GetEntity(), 2)

	b := feed.GetEntity()[1].GetVehicle()
	assert.Equal(t, "L.1", b.GetTrip().GetRouteId())
	assert.Equal(t, uint32(1), b.GetTrip().GetDirectionId())
	assert.Equal(t, "b", b.GetVehicle().GetId())
	assert.InDelta(t, 16.5024, b.GetPosition().GetLatitude(), 1e-3)

	raw, err := proto.Marshal(feed)
	require.NoError(t, err)
	var decoded gtfs.FeedMessage
	require.NoError(t, proto.Unmarshal(raw, &decoded))
	assert.Len(t, decoded.GetEntity(), 2)
}
