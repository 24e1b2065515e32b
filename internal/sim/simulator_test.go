package sim

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mmetrics "metrogo/internal/metrics"
)

func TestTickReversesAtEnd(t *testing.T) {
	s := NewSimulator([]Vehicle{{ID: "v", LineID: "pair", Progress: 1, Direction: Forward, Speed: 0.1}}, 0, nil, nil)
	v := s.Tick()[0]
	assert.Equal(t, Backward, v.Direction)
	assert.LessOrEqual(t, v.Progress, 1.0)

	v = s.Tick()[0]
	assert.InDelta(t, 0.9, v.Progress, 1e-12)
	assert.Equal(t, uint64(2), s.Ticks())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewSimulator([]Vehicle{{ID: "v", Progress: 0.5, Direction: Forward, Speed: 0.1}}, 0, nil, nil)
	snap := s.Snapshot()
	snap[0].Progress = 0.99
	assert.Equal(t, 0.5, s.Snapshot()[0].Progress)
}

func TestSnapshotTick(t *testing.T) {
	s := NewSimulator([]Vehicle{{ID: "v", Progress: 0.5, Direction: Forward, Speed: 0.1}}, 0, nil, nil)
	s.Tick()
	s.Tick()
	fleet, tick := s.SnapshotTick()
	assert.Equal(t, uint64(2), tick)
	assert.InDelta(t, 0.7, fleet[0].Progress, 1e-9)
}

func TestObserversSeeEveryTick(t *testing.T) {
	s := NewSimulator([]Vehicle{{ID: "v", LineID: "pair", Progress: 0, Direction: Forward, Speed: 0.1}}, 0, nil, nil)
	var seen []float64
	s.Subscribe(func(_ time.Time, fleet []Vehicle) {
		seen = append(seen, fleet[0].Progress)
	})
	s.Tick()
	s.Tick()
	require.Len(t, seen, 2)
	assert.InDelta(t, 0.1, seen[0], 1e-12)
	assert.InDelta(t, 0.2, seen[1], 1e-12)
}

func TestStartStop(t *testing.T) {
	m := mmetrics.NewCollector(time.Millisecond, 1)
	fleet := []Vehicle{
		{ID: "ok", LineID: "pair", Progress: 0, Direction: Forward, Speed: 0.001},
		{ID: "lost", LineID: "nope", Progress: 0, Direction: Forward, Speed: 0.001},
	}
	s := NewSimulator(fleet, time.Millisecond, NewResolver(testRegistry()), m)
	assert.Equal(t, time.Millisecond, s.Interval())

	var mu sync.Mutex
	ticks := 0
	s.Subscribe(func(time.Time, []Vehicle) {
		mu.Lock()
		ticks++
		mu.Unlock()
	})

	s.Start(context.Background())
	s.Start(context.Background()) // second start is ignored
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ticks >= 5
	}, 2*time.Second, time.Millisecond)
	s.Stop()

	stopped := s.Ticks()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, s.Ticks(), "no ticks after Stop")
	s.Stop()

	assert.Equal(t, float64(stopped), testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Unresolvable))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Vehicles))
}

func TestStopOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSimulator([]Vehicle{{ID: "v", Progress: 0, Direction: Forward, Speed: 0.001}}, time.Millisecond, nil, nil)
	s.Start(ctx)
	cancel()
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after cancel")
	}
}
