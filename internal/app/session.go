package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"metrogo/internal/transit"
)

var (
	ErrInvalidPhone      = errors.New("phone number must be exactly 10 digits")
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrLowBalance        = errors.New("low balance")
	ErrUnknownResult     = errors.New("unknown search result")
	ErrUnknownStation    = errors.New("unknown station")
	ErrUnknownLine       = errors.New("unknown line")
	ErrInvalidTransition = errors.New("invalid screen transition")
)

const (
	StartingBalance = 100
	TopUpAmount     = 100
	minutesPerStop  = 7
	quickLineCount  = 3

	greeting  = "Hi! How can I help you?"
	autoReply = "We are checking this for you."
)

// DefaultReplyDelay is how long the support bot waits before answering.
const DefaultReplyDelay = time.Second

type Options struct {
	ReplyDelay time.Duration
	Now        func() time.Time
}

// Session is the whole in-memory application state of one user session.
// It is safe for concurrent use; bot replies arrive from timer goroutines.
type Session struct {
	reg        *transit.Registry
	replyDelay time.Duration
	now        func() time.Time

	mu       sync.Mutex
	user     *User
	screen   Screen
	results  []RouteResult
	selected string
	balance  int
	history  []Transaction
	tickets  []Ticket
	chatOpen bool
	chat     []Message
	timers   map[*time.Timer]struct{}
	closed   bool
}

func NewSession(reg *transit.Registry, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Session{
		reg:        reg,
		replyDelay: opts.ReplyDelay,
		now:        opts.Now,
		screen:     ScreenLogin,
		balance:    StartingBalance,
		timers:     make(map[*time.Timer]struct{}),
	}
	s.history = []Transaction{{Title: "Welcome Bonus", At: s.now(), Amount: StartingBalance, Kind: Credit}}
	s.chat = []Message{{ID: uuid.NewString(), Text: greeting, Sender: FromBot}}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		LoggedIn:     s.user != nil,
		Screen:       s.screen,
		Results:      append([]RouteResult(nil), s.results...),
		SelectedLine: s.selected,
		Balance:      s.balance,
		History:      append([]Transaction(nil), s.history...),
		Tickets:      append([]Ticket(nil), s.tickets...),
		ChatOpen:     s.chatOpen,
		Chat:         append([]Message(nil), s.chat...),
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

func (s *Session) Screen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// SelectedLine is the line the map is focused on, or "".
func (s *Session) SelectedLine() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// NormalizePhone strips non-digit characters, as the input field does,
// and requires exactly 10 digits to remain.
func NormalizePhone(phone string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) != 10 {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

// Login accepts any 10-digit phone number.
func (s *Session) Login(phone string) (User, error) {
	digits, err := NormalizePhone(phone)
	if err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &User{Name: "Commuter", Phone: digits}
	s.screen = ScreenHome
	return *s.user, nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.screen = ScreenLogin
	s.selected = ""
	s.chatOpen = false
}

// Navigate switches to one of the tab screens and clears the line focus.
func (s *Session) Navigate(to Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrNotLoggedIn
	}
	if !to.IsTab() {
		return fmt.Errorf("%w: %s is not a tab", ErrInvalidTransition, to)
	}
	s.selected = ""
	s.screen = to
	return nil
}

// Back leaves Results or Map for Home. Elsewhere it is a no-op.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrNotLoggedIn
	}
	switch s.screen {
	case ScreenResults:
		s.screen = ScreenHome
	case ScreenMap:
		s.selected = ""
		s.screen = ScreenHome
	}
	return nil
}

// QuickLines are the lines offered as shortcuts on the home screen.
func (s *Session) QuickLines() []transit.Line {
	lines := s.reg.Lines()
	if len(lines) > quickLineCount {
		lines = lines[:quickLineCount]
	}
	return lines
}

// QuickAction focuses the map on one line.
func (s *Session) QuickAction(lineID string) error {
	if _, ok := s.reg.Line(lineID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLine, lineID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrNotLoggedIn
	}
	s.selected = lineID
	s.screen = ScreenMap
	return nil
}

// Search returns two canned results. The first uses a line serving either
// endpoint when there is one; the second is always the same transfer trip.
func (s *Session) Search(fromID, toID string) ([]RouteResult, error) {
	for _, id := range []string{fromID, toID} {
		if id == "" {
			continue
		}
		if _, ok := s.reg.Station(id); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStation, id)
		}
	}
	lines := s.reg.Lines()
	var relevant []transit.Line
	for _, l := range lines {
		if l.Serves(fromID) || l.Serves(toID) {
			relevant = append(relevant, l)
		}
	}
	if len(relevant) == 0 {
		relevant = pick(lines, 0, 2)
	}

	var results []RouteResult
	if len(relevant) > 0 {
		results = append(results, RouteResult{
			ID: "r1", Lines: relevant[:1], DurationMin: 25, Price: 25,
			Departure: "10:10 AM", Arrival: "10:35 AM",
		})
	}
	if transfer := pick(lines, 3, 2); len(transfer) == 2 {
		results = append(results, RouteResult{
			ID: "r2", Lines: transfer, DurationMin: 45, Price: 40,
			Departure: "10:15 AM", Arrival: "11:00 AM",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, ErrNotLoggedIn
	}
	s.results = results
	s.screen = ScreenResults
	return append([]RouteResult(nil), results...), nil
}

// pick returns the lines at the given indexes that exist.
func pick(lines []transit.Line, idx ...int) []transit.Line {
	var out []transit.Line
	for _, i := range idx {
		if i < len(lines) {
			out = append(out, lines[i])
		}
	}
	return out
}

// Buy pays for one of the current search results and shows the tickets.
func (s *Session) Buy(resultID string) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return Ticket{}, ErrNotLoggedIn
	}
	var route *RouteResult
	for i := range s.results {
		if s.results[i].ID == resultID {
			route = &s.results[i]
			break
		}
	}
	if route == nil {
		return Ticket{}, fmt.Errorf("%w: %q", ErrUnknownResult, resultID)
	}
	if s.balance < route.Price {
		return Ticket{}, ErrLowBalance
	}
	now := s.now()
	names := make([]string, len(route.Lines))
	for i, l := range route.Lines {
		names[i] = l.Name
	}
	t := Ticket{
		ID:          uuid.NewString(),
		Lines:       names,
		Price:       route.Price,
		Departure:   route.Departure,
		Arrival:     route.Arrival,
		PurchasedAt: now,
	}
	s.balance -= route.Price
	s.tickets = append([]Ticket{t}, s.tickets...)
	s.history = append([]Transaction{{Title: "Ticket", At: now, Amount: route.Price, Kind: Debit}}, s.history...)
	s.screen = ScreenTickets
	return t, nil
}

// TopUp adds a fixed amount to the wallet and returns the new balance.
func (s *Session) TopUp() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return 0, ErrNotLoggedIn
	}
	s.balance += TopUpAmount
	s.history = append([]Transaction{{Title: "Topup", At: s.now(), Amount: TopUpAmount, Kind: Credit}}, s.history...)
	return s.balance, nil
}

// Timeline lists the stops of a line with an estimated time per stop.
func (s *Session) Timeline(lineID string, from time.Time) ([]TimelineStop, error) {
	line, ok := s.reg.Line(lineID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLine, lineID)
	}
	stops := make([]TimelineStop, 0, len(line.Stations))
	for i, sid := range line.Stations {
		st, ok := s.reg.Station(sid)
		if !ok {
			continue
		}
		stops = append(stops, TimelineStop{
			Station: st,
			ETA:     from.Add(time.Duration(i*minutesPerStop) * time.Minute),
			First:   i == 0,
			Last:    i == len(line.Stations)-1,
		})
	}
	return stops, nil
}
