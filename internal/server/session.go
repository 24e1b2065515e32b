package server

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"metrogo/internal/app"
)

type LoginRequest struct {
	Phone string `json:"phone"`
}

type NavigateRequest struct {
	Screen string `json:"screen"`
}

type SearchRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type SearchResponse struct {
	Results []app.RouteResult `json:"results"`
}

type BuyRequest struct {
	ResultID string `json:"resultId"`
}

type ChatRequest struct {
	Text string `json:"text"`
}

type ChatResponse struct {
	Sent     *app.Message  `json:"sent,omitempty"`
	Messages []app.Message `json:"messages"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, err := s.session.Login(req.Phone); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.session.Logout()
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	screen, err := app.ParseScreen(req.Screen)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.session.Navigate(screen); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Back(); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleQuick(w http.ResponseWriter, r *http.Request) {
	if err := s.session.QuickAction(chi.URLParam(r, "lineID")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	results, err := s.session.Search(req.From, req.To)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if results == nil {
		results = []app.RouteResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var req BuyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ticket, err := s.session.Buy(req.ResultID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.TicketsSold.Inc()
	}
	writeJSON(w, http.StatusCreated, ticket)
}

func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.TopUp(); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleChatOpen(w http.ResponseWriter, r *http.Request) {
	if err := s.session.OpenChat(); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Messages: s.session.Messages()})
}

func (s *Server) handleChatClose(w http.ResponseWriter, r *http.Request) {
	s.session.CloseChat()
	writeJSON(w, http.StatusOK, ChatResponse{Messages: s.session.Messages()})
}

// handleChat posts a message. The bot reply arrives later and shows up in
// GET /api/session.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !s.session.State().LoggedIn {
		writeAppError(w, app.ErrNotLoggedIn)
		return
	}
	msg, ok := s.session.Send(req.Text)
	if !ok {
		writeError(w, http.StatusBadRequest, "message is empty")
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Sent: &msg, Messages: s.session.Messages()})
}

// handleTicketsCalendar exports purchased tickets as an iCalendar file.
func (s *Server) handleTicketsCalendar(w http.ResponseWriter, r *http.Request) {
	st := s.session.State()
	if !st.LoggedIn {
		writeAppError(w, app.ErrNotLoggedIn)
		return
	}
	var buf bytes.Buffer
	if err := app.WriteCalendar(&buf, st.Tickets, time.Local); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="tickets.ics"`)
	_, _ = w.Write(buf.Bytes())
}
