package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	Ticks        prometheus.Counter
	TickDuration prometheus.Histogram
	Vehicles     prometheus.Gauge
	Unresolvable prometheus.Gauge

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
	PublishDuration prometheus.Histogram

	MapRenders   *prometheus.CounterVec // mode label: full|preview
	DragEvents   *prometheus.CounterVec // phase label: start|move|end
	TicketsSold  prometheus.Counter
	HTTPRequests *prometheus.CounterVec // route label

	TickInterval    prometheus.Gauge // seconds
	VehiclesPerLine prometheus.Gauge
}

func NewCollector(tickInterval time.Duration, vehiclesPerLine int) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metrogo_sim_ticks_total",
			Help: "Total simulation ticks applied.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "metrogo_sim_tick_duration_seconds",
			Help:    "Duration of one fleet update including observers.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		}),
		Vehicles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metrogo_sim_vehicles",
			Help: "Number of simulated vehicles.",
		}),
		Unresolvable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metrogo_sim_unresolvable_vehicles",
			Help: "Vehicles whose position could not be resolved on the last tick.",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metrogo_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metrogo_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metrogo_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "metrogo_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		MapRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metrogo_map_renders_total",
			Help: "Map frames rendered.",
		}, []string{"mode"}),
		DragEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metrogo_map_drag_events_total",
			Help: "Pan gesture events applied to the viewport.",
		}, []string{"phase"}),
		TicketsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metrogo_tickets_sold_total",
			Help: "Tickets bought through the shell.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metrogo_http_requests_total",
			Help: "HTTP requests by route pattern.",
		}, []string{"route"}),
		TickInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metrogo_sim_tick_interval_seconds",
			Help: "Configured simulation tick interval in seconds.",
		}),
		VehiclesPerLine: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metrogo_sim_vehicles_per_line",
			Help: "Configured vehicles per line.",
		}),
	}

	reg.MustRegister(
		c.Ticks, c.TickDuration, c.Vehicles, c.Unresolvable,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected, c.PublishDuration,
		c.MapRenders, c.DragEvents, c.TicketsSold, c.HTTPRequests,
		c.TickInterval, c.VehiclesPerLine,
	)

	c.TickInterval.Set(tickInterval.Seconds())
	c.VehiclesPerLine.Set(float64(vehiclesPerLine))

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
