package sim

import (
	"context"
	"log"
	"sync"
	"time"

	mmetrics "metrogo/internal/metrics"
)

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = 50 * time.Millisecond

// Observer is called after every tick with the new fleet snapshot. It runs
// on the simulator goroutine and must not modify the slice.
type Observer func(at time.Time, fleet []Vehicle)

// Simulator advances the whole fleet on a fixed ticker. Every tick replaces
// the fleet in one swap, so readers always see a consistent snapshot.
type Simulator struct {
	interval time.Duration
	resolver *Resolver
	metrics  *mmetrics.Collector

	mu        sync.RWMutex
	fleet     []Vehicle
	ticks     uint64
	observers []Observer

	runMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSimulator(fleet []Vehicle, interval time.Duration, resolver *Resolver, metrics *mmetrics.Collector) *Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Simulator{
		interval: interval,
		resolver: resolver,
		metrics:  metrics,
		fleet:    append([]Vehicle(nil), fleet...),
	}
	if metrics != nil {
		metrics.Vehicles.Set(float64(len(fleet)))
	}
	return s
}

func (s *Simulator) Interval() time.Duration { return s.interval }

// Subscribe registers an observer for subsequent ticks.
func (s *Simulator) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current fleet.
func (s *Simulator) Snapshot() []Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Vehicle(nil), s.fleet...)
}

// SnapshotTick returns the fleet together with the tick that produced it.
func (s *Simulator) SnapshotTick() ([]Vehicle, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Vehicle(nil), s.fleet...), s.ticks
}

func (s *Simulator) Ticks() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticks
}

// Tick advances the fleet once and returns the new snapshot.
func (s *Simulator) Tick() []Vehicle {
	return s.tick(time.Now())
}

func (s *Simulator) tick(at time.Time) []Vehicle {
	start := time.Now()

	s.mu.Lock()
	next := Advance(s.fleet)
	s.fleet = next
	s.ticks++
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	snapshot := append([]Vehicle(nil), next...)
	for _, o := range observers {
		o(at, snapshot)
	}

	if s.metrics != nil {
		s.metrics.Ticks.Inc()
		if s.resolver != nil {
			missing := 0
			for _, v := range snapshot {
				if _, ok := s.resolver.Position(v); !ok {
					missing++
				}
			}
			s.metrics.Unresolvable.Set(float64(missing))
		}
		s.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}
	return snapshot
}

// Start launches the ticker goroutine. Calling Start on a running
// simulator is a no-op.
func (s *Simulator) Start(parent context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.wg.Add(1)
	log.Printf("simulator started: %d vehicles, tick %s", len(s.Snapshot()), s.interval)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.tick(now)
			}
		}
	}()
}

// Stop cancels the ticker goroutine and waits for it to exit. The fleet
// keeps its last state and the simulator can be started again.
func (s *Simulator) Stop() {
	s.runMu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.runMu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	log.Printf("simulator stopped after %d ticks", s.Ticks())
}
