package server

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"metrogo/internal/geo"
	"metrogo/internal/mapview"
)

type DragRequest struct {
	Phase string  `json:"phase"` // start|move|end
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type ViewportResponse struct {
	Offset    geo.Pixel `json:"offset"`
	Transform geo.Pixel `json:"transform"`
	Dragging  bool      `json:"dragging"`
	Accepted  bool      `json:"accepted"`
}

// handleMapSVG renders the current frame. ?preview=1 uses the home screen
// preview map; ?line= focuses a line, defaulting to the session selection.
func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	preview := q.Get("preview") == "1" || q.Get("preview") == "true"
	selected := q.Get("line")
	if selected == "" && !preview {
		selected = s.session.SelectedLine()
	}
	fleet, tick := s.sim.SnapshotTick()

	s.mapMu.Lock()
	vp := s.full
	if preview {
		vp = s.preview
	}
	// a frame only changes with the tick, the focus or the pan offset
	key := fmt.Sprintf("%d|%t|%s|%v", tick, preview, selected, vp.Offset())
	var scene mapview.Scene
	cached, err := s.frames.Get(key)
	if err != nil {
		scene = vp.Scene(s.reg, fleet, s.resolver, selected)
	}
	s.mapMu.Unlock()

	body, ok := cached.([]byte)
	if !ok {
		var buf bytes.Buffer
		if err := mapview.RenderSVG(&buf, scene); err != nil {
			log.Printf("render map: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to render map")
			return
		}
		body = buf.Bytes()
		_ = s.frames.Set(key, body)
		if s.metrics != nil {
			mode := "full"
			if preview {
				mode = "preview"
			}
			s.metrics.MapRenders.WithLabelValues(mode).Inc()
		}
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}

// handleDrag applies pointer or touch gestures to the full map in arrival
// order.
func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req DragRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p := geo.Pixel{X: req.X, Y: req.Y}

	s.mapMu.Lock()
	accepted := true
	switch req.Phase {
	case "start":
		accepted = s.full.DragStart(p)
	case "move":
		accepted = s.full.DragMove(p)
	case "end":
		s.full.DragEnd()
	default:
		s.mapMu.Unlock()
		writeError(w, http.StatusBadRequest, "phase must be start, move or end")
		return
	}
	resp := s.viewportState(accepted)
	s.mapMu.Unlock()

	if s.metrics != nil {
		s.metrics.DragEvents.WithLabelValues(req.Phase).Inc()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMapReset(w http.ResponseWriter, r *http.Request) {
	s.mapMu.Lock()
	s.full.Reset()
	resp := s.viewportState(true)
	s.mapMu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

// viewportState must be called with mapMu held.
func (s *Server) viewportState(accepted bool) ViewportResponse {
	return ViewportResponse{
		Offset:    s.full.Offset(),
		Transform: s.full.Transform(),
		Dragging:  s.full.Dragging(),
		Accepted:  accepted,
	}
}
