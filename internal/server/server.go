package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"metrogo/internal/app"
	"metrogo/internal/mapview"
	mmetrics "metrogo/internal/metrics"
	"metrogo/internal/sim"
	"metrogo/internal/transit"
)

const (
	frameCacheSize = 64
	frameCacheTTL  = 5 * time.Second
)

// Deps are the long-lived components the HTTP surface reads from.
type Deps struct {
	Registry  *transit.Registry
	Simulator *sim.Simulator
	Resolver  *sim.Resolver
	Session   *app.Session
	Full      *mapview.Viewport
	Preview   *mapview.Viewport
	Metrics   *mmetrics.Collector // optional
}

type Server struct {
	reg      *transit.Registry
	sim      *sim.Simulator
	resolver *sim.Resolver
	session  *app.Session
	metrics  *mmetrics.Collector

	// viewports carry drag state, so every access holds mapMu
	mapMu   sync.Mutex
	full    *mapview.Viewport
	preview *mapview.Viewport
	frames  gcache.Cache // rendered SVG frames

	router chi.Router
	server *http.Server
}

func New(addr string, corsOrigins []string, d Deps) *Server {
	if d.Full == nil {
		d.Full = mapview.NewViewport(mapview.FullOptions())
	}
	if d.Preview == nil {
		d.Preview = mapview.NewViewport(mapview.PreviewOptions())
	}
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	s := &Server{
		reg:      d.Registry,
		sim:      d.Simulator,
		resolver: d.Resolver,
		session:  d.Session,
		metrics:  d.Metrics,
		full:     d.Full,
		preview:  d.Preview,
		frames:   gcache.New(frameCacheSize).LRU().Expiration(frameCacheTTL).Build(),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	router.Use(s.countRequests)

	router.Get("/health", s.handleHealth)
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics.Handler())
	}

	router.Get("/map.svg", s.handleMapSVG)
	router.Get("/gtfs-rt/vehicle-positions", s.handleVehiclePositionsFeed)

	router.Route("/api", func(r chi.Router) {
		r.Get("/stations", s.handleStations)
		r.Get("/lines", s.handleLines)
		r.Get("/lines/{lineID}/timeline", s.handleTimeline)
		r.Get("/vehicles", s.handleVehicles)

		r.Post("/map/drag", s.handleDrag)
		r.Post("/map/reset", s.handleMapReset)

		r.Get("/session", s.handleSession)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Post("/navigate", s.handleNavigate)
		r.Post("/back", s.handleBack)
		r.Post("/quick/{lineID}", s.handleQuick)
		r.Post("/search", s.handleSearch)
		r.Post("/buy", s.handleBuy)
		r.Post("/wallet/topup", s.handleTopUp)
		r.Get("/tickets.ics", s.handleTicketsCalendar)
		r.Post("/chat", s.handleChat)
		r.Post("/chat/open", s.handleChatOpen)
		r.Post("/chat/close", s.handleChatClose)
	})

	s.router = router
	s.server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if s.metrics == nil {
			return
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		s.metrics.HTTPRequests.WithLabelValues(route).Inc()
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"vehicles":  len(s.sim.Snapshot()),
		"ticks":     s.sim.Ticks(),
		"timestamp": time.Now().UTC(),
	})
}
