package tui

import (
	"fmt"
	"strings"

	"metrogo/internal/app"
	"metrogo/internal/sim"
	"metrogo/internal/transit"
)

func renderResults(results []app.RouteResult) string {
	if len(results) == 0 {
		return errorStyle.Render("No routes found.")
	}
	var b strings.Builder
	for _, r := range results {
		names := make([]string, len(r.Lines))
		for i, l := range r.Lines {
			names[i] = lineStyle(l.Color).Render(l.Name)
		}
		body := fmt.Sprintf("%s\n%s → %s · %d min · ₹%d",
			strings.Join(names, " → "), r.Departure, r.Arrival, r.DurationMin, r.Price)
		b.WriteString(cardStyle.Render(body))
		b.WriteString("\n")
	}
	return b.String()
}

func renderWallet(st app.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", accentStyle.Render("Balance"), fmt.Sprintf("₹%d", st.Balance))
	for _, tx := range st.History {
		amount := creditStyle.Render(fmt.Sprintf("+₹%d", tx.Amount))
		if tx.Kind == app.Debit {
			amount = debitStyle.Render(fmt.Sprintf("-₹%d", tx.Amount))
		}
		fmt.Fprintf(&b, "  %-14s %s  %s\n", tx.Title, mutedStyle.Render(tx.At.Format("02 Jan 15:04")), amount)
	}
	return b.String()
}

func renderTickets(tickets []app.Ticket) string {
	if len(tickets) == 0 {
		return mutedStyle.Render("No tickets yet.")
	}
	var b strings.Builder
	for _, t := range tickets {
		body := fmt.Sprintf("%s\n%s → %s · ₹%d\n%s",
			accentStyle.Render(strings.Join(t.Lines, " → ")), t.Departure, t.Arrival, t.Price,
			mutedStyle.Render(t.ID))
		b.WriteString(cardStyle.Render(body))
		b.WriteString("\n")
	}
	return b.String()
}

// renderLine shows a line's timeline and where its buses are right now.
func renderLine(line transit.Line, stops []app.TimelineStop, fleet []sim.Vehicle, r *sim.Resolver) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", lineStyle(line.Color).Render(line.Name), mutedStyle.Render(line.Description))
	for _, s := range stops {
		marker := "│"
		if s.First || s.Last {
			marker = "●"
		}
		fmt.Fprintf(&b, "  %s %s %s\n", marker, s.ETA.Format("15:04"), s.Station.Name)
	}
	b.WriteString("\n")
	for _, v := range fleet {
		if v.LineID != line.ID {
			continue
		}
		pos, ok := r.Position(v)
		if !ok {
			fmt.Fprintf(&b, "  %s %s\n", v.ID, errorStyle.Render("no position"))
			continue
		}
		arrow := "→"
		if v.Direction == sim.Backward {
			arrow = "←"
		}
		fmt.Fprintf(&b, "  %s %s %s %.4f, %.4f\n", v.ID, progressBar(v.Progress, 20), arrow, pos.Lat, pos.Lng)
	}
	return b.String()
}

func progressBar(p float64, width int) string {
	n := int(p*float64(width) + 0.5)
	n = max(0, min(width, n))
	return "[" + strings.Repeat("=", n) + strings.Repeat(" ", width-n) + "]"
}

func renderChat(msgs []app.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		who := accentStyle.Render("support")
		if m.Sender == app.FromUser {
			who = mutedStyle.Render("you")
		}
		fmt.Fprintf(&b, "%s: %s\n", who, m.Text)
	}
	return b.String()
}
