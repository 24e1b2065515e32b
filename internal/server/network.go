package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"metrogo/internal/app"
	"metrogo/internal/publisher"
	"metrogo/internal/transit"
)

type StationsResponse struct {
	Stations []transit.Station `json:"stations"`
	Count    int               `json:"count"`
}

type LinesResponse struct {
	Lines []transit.Line `json:"lines"`
	Count int            `json:"count"`
}

type TimelineResponse struct {
	Line  transit.Line       `json:"line"`
	Stops []app.TimelineStop `json:"stops"`
}

type VehiclesResponse struct {
	Vehicles []publisher.PositionMessage `json:"vehicles"`
	Count    int                         `json:"count"`
	Tick     uint64                      `json:"tick"`
	PolledAt time.Time                   `json:"polledAt"`
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	stations := s.reg.Stations()
	writeJSON(w, http.StatusOK, StationsResponse{Stations: stations, Count: len(stations)})
}

func (s *Server) handleLines(w http.ResponseWriter, r *http.Request) {
	lines := s.reg.Lines()
	writeJSON(w, http.StatusOK, LinesResponse{Lines: lines, Count: len(lines)})
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")
	line, ok := s.reg.Line(lineID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown line")
		return
	}
	stops, err := s.session.Timeline(lineID, time.Now())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TimelineResponse{Line: line, Stops: stops})
}

// handleVehicles returns positioned vehicles, optionally only one line.
// Vehicles without a resolvable position are left out.
func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	lineID := r.URL.Query().Get("line")
	if lineID != "" {
		if _, ok := s.reg.Line(lineID); !ok {
			writeError(w, http.StatusNotFound, "unknown line")
			return
		}
	}
	now := time.Now().UTC()
	fleet, tick := s.sim.SnapshotTick()
	resp := VehiclesResponse{Vehicles: []publisher.PositionMessage{}, Tick: tick, PolledAt: now}
	for _, v := range fleet {
		if lineID != "" && v.LineID != lineID {
			continue
		}
		if msg, ok := publisher.NewPositionMessage(s.resolver, v, now); ok {
			resp.Vehicles = append(resp.Vehicles, msg)
		}
	}
	resp.Count = len(resp.Vehicles)
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVehiclePositionsFeed(w http.ResponseWriter, r *http.Request) {
	feed := publisher.BuildFeed(s.resolver, s.sim.Snapshot(), time.Now())
	if r.URL.Query().Get("format") == "json" {
		b, err := protojson.MarshalOptions{UseProtoNames: true}.Marshal(feed)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to encode feed")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
		return
	}
	b, err := proto.Marshal(feed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode feed")
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	_, _ = w.Write(b)
}
