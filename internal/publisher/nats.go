package publisher

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"metrogo/internal/sim"
)

type NATSPublisher struct {
	nc          *nats.Conn
	prefix      string
	logSubjects bool
	metrics     PublisherMetrics
	resolver    *sim.Resolver
	interval    time.Duration

	mu   sync.Mutex
	last time.Time
}

type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

type Options struct {
	URL           string
	SubjectPrefix string
	LogSubjects   bool
	// Interval throttles fleet publishes; ticks arriving sooner are skipped.
	Interval time.Duration
	Metrics  PublisherMetrics
}

func NewNATSPublisher(opts Options, resolver *sim.Resolver) (*NATSPublisher, error) {
	m := opts.Metrics
	nc, err := nats.Connect(opts.URL,
		nats.Name("metrogo"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", opts.URL, err)
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	prefix := opts.SubjectPrefix
	if prefix == "" {
		prefix = "vehicles"
	}
	return &NATSPublisher{
		nc:          nc,
		prefix:      prefix,
		logSubjects: opts.LogSubjects,
		metrics:     m,
		resolver:    resolver,
		interval:    opts.Interval,
	}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		if err := p.nc.Drain(); err != nil {
			log.Printf("nats drain: %v", err)
		}
		p.nc.Close()
	}
}

type PositionMessage struct {
	VehicleID string    `json:"vehicleId"`
	LineID    string    `json:"lineId"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Bearing   float64   `json:"bearing"`
	Progress  float64   `json:"progress"`
	Direction int       `json:"direction"`
}

// NewPositionMessage resolves v into a message; ok is false when the
// vehicle has no position.
func NewPositionMessage(r *sim.Resolver, v sim.Vehicle, at time.Time) (PositionMessage, bool) {
	pos, ok := r.Position(v)
	if !ok {
		return PositionMessage{}, false
	}
	bearing, _ := r.Heading(v)
	return PositionMessage{
		VehicleID: v.ID,
		LineID:    v.LineID,
		Label:     v.Label,
		Timestamp: at,
		Lat:       pos.Lat,
		Lng:       pos.Lng,
		Bearing:   bearing,
		Progress:  v.Progress,
		Direction: v.Direction,
	}, true
}

// Observe is a sim.Observer publishing the whole fleet, at most once per
// configured interval.
func (p *NATSPublisher) Observe(at time.Time, fleet []sim.Vehicle) {
	p.mu.Lock()
	if p.interval > 0 && !p.last.IsZero() && at.Sub(p.last) < p.interval {
		p.mu.Unlock()
		return
	}
	p.last = at
	p.mu.Unlock()

	for _, v := range fleet {
		msg, ok := NewPositionMessage(p.resolver, v, at)
		if !ok {
			continue
		}
		if err := p.PublishPosition(msg); err != nil {
			log.Printf("publish error for %s: %v", v.ID, err)
		}
	}
}

func (p *NATSPublisher) PublishPosition(msg PositionMessage) error {
	subject := Subject(p.prefix, msg.LineID, msg.VehicleID)
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if p.logSubjects {
		log.Printf("nats publish subject=%s", subject)
	}
	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

// Subject builds prefix.line.vehicle with each token made NATS safe.
func Subject(prefix, lineID, vehicleID string) string {
	return fmt.Sprintf("%s.%s.%s", prefix, subjectToken(lineID), subjectToken(vehicleID))
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
