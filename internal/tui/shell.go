package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"metrogo/internal/app"
	"metrogo/internal/mapview"
	"metrogo/internal/sim"
	"metrogo/internal/transit"
)

var errQuit = errors.New("quit")

type Deps struct {
	Registry  *transit.Registry
	Simulator *sim.Simulator
	Resolver  *sim.Resolver
	Session   *app.Session
	Viewport  *mapview.Viewport
}

type shell struct {
	Deps
	theme *huh.Theme
}

// Run drives the session from the terminal until the user quits or ctx is
// cancelled. The screen machine lives in app.Session; each screen here is
// one form.
func Run(ctx context.Context, d Deps) error {
	if d.Viewport == nil {
		d.Viewport = mapview.NewViewport(mapview.FullOptions())
	}
	sh := &shell{Deps: d, theme: theme()}
	for ctx.Err() == nil {
		var err error
		switch d.Session.Screen() {
		case app.ScreenLogin:
			err = sh.login()
		case app.ScreenHome:
			err = sh.home()
		case app.ScreenResults:
			err = sh.results()
		case app.ScreenMap:
			err = sh.lineMap()
		case app.ScreenWallet:
			err = sh.wallet()
		case app.ScreenTickets:
			err = sh.tickets()
		case app.ScreenProfile:
			err = sh.profile()
		}
		if errors.Is(err, errQuit) || errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (sh *shell) run(groups ...*huh.Group) error {
	return huh.NewForm(groups...).WithTheme(sh.theme).Run()
}

func (sh *shell) login() error {
	var phone string
	err := sh.run(huh.NewGroup(
		huh.NewNote().Title("metrogo").Description("Vijayawada city transit"),
		huh.NewInput().
			Title("Phone number").
			Placeholder("10 digit mobile number").
			Value(&phone).
			Validate(func(s string) error {
				_, err := app.NormalizePhone(s)
				return err
			}),
	))
	if err != nil {
		return err
	}
	_, err = sh.Session.Login(phone)
	return err
}

func (sh *shell) home() error {
	action := "search"
	opts := []huh.Option[string]{huh.NewOption("🔍 Plan a trip", "search")}
	for _, l := range sh.Session.QuickLines() {
		opts = append(opts, huh.NewOption("🚌 "+l.Name, "line:"+l.ID))
	}
	opts = append(opts,
		huh.NewOption("🗺️ Live map", "map"),
		huh.NewOption("💳 Wallet", "wallet"),
		huh.NewOption("🎫 Tickets", "tickets"),
		huh.NewOption("👤 Profile", "profile"),
		huh.NewOption("💬 Support chat", "chat"),
		huh.NewOption("Quit", "quit"),
	)
	if err := sh.run(huh.NewGroup(
		huh.NewSelect[string]().Title("Where to?").Options(opts...).Value(&action),
	)); err != nil {
		return err
	}

	switch action {
	case "search":
		return sh.search()
	case "map":
		return sh.Session.Navigate(app.ScreenMap)
	case "wallet":
		return sh.Session.Navigate(app.ScreenWallet)
	case "tickets":
		return sh.Session.Navigate(app.ScreenTickets)
	case "profile":
		return sh.Session.Navigate(app.ScreenProfile)
	case "chat":
		return sh.chat()
	case "quit":
		return errQuit
	}
	if id, ok := strings.CutPrefix(action, "line:"); ok {
		return sh.Session.QuickAction(id)
	}
	return nil
}

func (sh *shell) stationOptions() []huh.Option[string] {
	stations := sh.Registry.Stations()
	opts := make([]huh.Option[string], 0, len(stations))
	for _, s := range stations {
		label := s.Name
		if s.IsHub() {
			label += " ◆"
		}
		opts = append(opts, huh.NewOption(label, s.ID))
	}
	return opts
}

func (sh *shell) search() error {
	var from, to string
	err := sh.run(huh.NewGroup(
		huh.NewSelect[string]().Title("From").Options(sh.stationOptions()...).Value(&from),
		huh.NewSelect[string]().Title("To").Options(sh.stationOptions()...).Value(&to).
			Validate(func(s string) error {
				if s == from {
					return errors.New("pick a different destination")
				}
				return nil
			}),
	))
	if err != nil {
		return err
	}
	_, err = sh.Session.Search(from, to)
	return err
}

func (sh *shell) results() error {
	st := sh.Session.State()
	fmt.Println(renderResults(st.Results))

	choice := "back"
	opts := make([]huh.Option[string], 0, len(st.Results)+1)
	for _, r := range st.Results {
		opts = append(opts, huh.NewOption(fmt.Sprintf("Buy %s · ₹%d", r.Departure, r.Price), r.ID))
	}
	opts = append(opts, huh.NewOption("Back", "back"))
	if err := sh.run(huh.NewGroup(
		huh.NewSelect[string]().Title(fmt.Sprintf("Balance ₹%d", st.Balance)).Options(opts...).Value(&choice),
	)); err != nil {
		return err
	}
	if choice == "back" {
		return sh.Session.Back()
	}
	if _, err := sh.Session.Buy(choice); err != nil {
		if errors.Is(err, app.ErrLowBalance) {
			fmt.Println(errorStyle.Render("Low balance. Top up your wallet first."))
			return sh.Session.Navigate(app.ScreenWallet)
		}
		return err
	}
	return nil
}

func (sh *shell) lineMap() error {
	lineID := sh.Session.SelectedLine()
	if lineID == "" {
		opts := make([]huh.Option[string], 0)
		for _, l := range sh.Registry.Lines() {
			opts = append(opts, huh.NewOption(l.Name+" · "+l.Description, l.ID))
		}
		if err := sh.run(huh.NewGroup(
			huh.NewSelect[string]().Title("Which line?").Options(opts...).Value(&lineID),
		)); err != nil {
			return err
		}
	}
	line, ok := sh.Registry.Line(lineID)
	if !ok {
		return sh.Session.Back()
	}
	stops, err := sh.Session.Timeline(lineID, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(renderLine(line, stops, sh.Simulator.Snapshot(), sh.Resolver))

	action := "refresh"
	var path string
	if err := sh.run(huh.NewGroup(
		huh.NewSelect[string]().Title("Map").Options(
			huh.NewOption("Refresh", "refresh"),
			huh.NewOption("Save map as SVG", "svg"),
			huh.NewOption("Back", "back"),
		).Value(&action),
	)); err != nil {
		return err
	}
	switch action {
	case "back":
		return sh.Session.Back()
	case "svg":
		if err := sh.run(huh.NewGroup(
			huh.NewInput().Title("File").Placeholder("map.svg").Value(&path),
		)); err != nil {
			return err
		}
		if path == "" {
			path = "map.svg"
		}
		if err := sh.saveMap(path, lineID); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			return nil
		}
		fmt.Println(accentStyle.Render("Saved " + path))
	}
	if sh.Session.SelectedLine() == "" {
		// keep showing the chosen line across refreshes
		return sh.Session.QuickAction(lineID)
	}
	return nil
}

func (sh *shell) saveMap(path, lineID string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	scene := sh.Viewport.Scene(sh.Registry, sh.Simulator.Snapshot(), sh.Resolver, lineID)
	if err := mapview.RenderSVG(f, scene); err != nil {
		f.Close()
		return fmt.Errorf("render map: %w", err)
	}
	return f.Close()
}

func (sh *shell) wallet() error {
	fmt.Println(renderWallet(sh.Session.State()))
	action := "home"
	if err := sh.run(huh.NewGroup(
		huh.NewSelect[string]().Title("Wallet").Options(
			huh.NewOption(fmt.Sprintf("Top up ₹%d", app.TopUpAmount), "topup"),
			huh.NewOption("Home", "home"),
		).Value(&action),
	)); err != nil {
		return err
	}
	if action == "topup" {
		_, err := sh.Session.TopUp()
		return err
	}
	return sh.Session.Navigate(app.ScreenHome)
}

func (sh *shell) tickets() error {
	st := sh.Session.State()
	fmt.Println(renderTickets(st.Tickets))
	action := "home"
	opts := []huh.Option[string]{huh.NewOption("Home", "home")}
	if len(st.Tickets) > 0 {
		opts = append(opts, huh.NewOption("📅 Export to calendar (.ics)", "ics"))
	}
	if err := sh.run(huh.NewGroup(
		huh.NewSelect[string]().Title("Tickets").Options(opts...).Value(&action),
	)); err != nil {
		return err
	}
	if action == "ics" {
		if err := exportCalendar("tickets.ics", st.Tickets); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
		} else {
			fmt.Println(accentStyle.Render("Saved tickets.ics"))
		}
		return nil
	}
	return sh.Session.Navigate(app.ScreenHome)
}

func exportCalendar(path string, tickets []app.Ticket) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := app.WriteCalendar(f, tickets, time.Local); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (sh *shell) profile() error {
	st := sh.Session.State()
	if st.User != nil {
		fmt.Println(cardStyle.Render(fmt.Sprintf("%s\n%s", accentStyle.Render(st.User.Name), st.User.Phone)))
	}
	logout := false
	if err := sh.run(huh.NewGroup(
		huh.NewConfirm().Title("Log out?").Affirmative("Log out").Negative("Home").Value(&logout),
	)); err != nil {
		return err
	}
	if logout {
		sh.Session.Logout()
		return nil
	}
	return sh.Session.Navigate(app.ScreenHome)
}

// chat runs the support overlay until an empty message is sent.
func (sh *shell) chat() error {
	if err := sh.Session.OpenChat(); err != nil {
		return err
	}
	defer sh.Session.CloseChat()
	for {
		fmt.Println(renderChat(sh.Session.Messages()))
		var text string
		if err := sh.run(huh.NewGroup(
			huh.NewInput().Title("Message").Placeholder("empty to close").Value(&text),
		)); err != nil {
			return err
		}
		before := len(sh.Session.Messages())
		if _, ok := sh.Session.Send(text); !ok {
			return nil
		}
		_ = spinner.New().
			Title("Support is typing...").
			Action(func() { waitForReply(sh.Session, before+1, 5*time.Second) }).
			Run()
	}
}

// waitForReply polls until the transcript grows past n or timeout passes.
func waitForReply(s *app.Session, n int, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for len(s.Messages()) <= n && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
}
