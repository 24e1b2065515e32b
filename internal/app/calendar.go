package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

const clockLayout = "3:04 PM"

// WriteCalendar writes tickets as iCalendar events on the day they were
// bought, in loc. Tickets whose times cannot be parsed are skipped.
func WriteCalendar(w io.Writer, tickets []Ticket, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//metrogo//tickets//EN")

	for _, t := range tickets {
		start, err := onDay(t.PurchasedAt.In(loc), t.Departure)
		if err != nil {
			continue
		}
		end, err := onDay(t.PurchasedAt.In(loc), t.Arrival)
		if err != nil {
			continue
		}
		if end.Before(start) {
			end = end.Add(24 * time.Hour)
		}

		event := cal.AddEvent(t.ID)
		event.SetCreatedTime(t.PurchasedAt)
		event.SetDtStampTime(t.PurchasedAt)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("🚌 %s", strings.Join(t.Lines, " → ")))
		event.SetDescription(fmt.Sprintf("Ticket %s\nFare: ₹%d", t.ID, t.Price))
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

func onDay(day time.Time, clock string) (time.Time, error) {
	c, err := time.Parse(clockLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location()), nil
}
