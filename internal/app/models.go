package app

import (
	"time"

	"metrogo/internal/transit"
)

type User struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RouteResult is a canned search result; nothing here comes from routing.
type RouteResult struct {
	ID          string         `json:"id"`
	Lines       []transit.Line `json:"lines"`
	DurationMin int            `json:"durationMin"`
	Price       int            `json:"price"`
	Departure   string         `json:"departure"`
	Arrival     string         `json:"arrival"`
}

type Ticket struct {
	ID          string    `json:"id"`
	Lines       []string  `json:"lines"`
	Price       int       `json:"price"`
	Departure   string    `json:"departure"`
	Arrival     string    `json:"arrival"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

type TxKind string

const (
	Credit TxKind = "credit"
	Debit  TxKind = "debit"
)

type Transaction struct {
	Title  string    `json:"title"`
	At     time.Time `json:"at"`
	Amount int       `json:"amount"`
	Kind   TxKind    `json:"kind"`
}

type Sender string

const (
	FromUser Sender = "user"
	FromBot  Sender = "bot"
)

type Message struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

type TimelineStop struct {
	Station transit.Station `json:"station"`
	ETA     time.Time       `json:"eta"`
	First   bool            `json:"first"`
	Last    bool            `json:"last"`
}

// State is a point-in-time copy of a Session.
type State struct {
	LoggedIn     bool          `json:"loggedIn"`
	User         *User         `json:"user,omitempty"`
	Screen       Screen        `json:"screen"`
	Results      []RouteResult `json:"results,omitempty"`
	SelectedLine string        `json:"selectedLine,omitempty"`
	Balance      int           `json:"balance"`
	History      []Transaction `json:"history"`
	Tickets      []Ticket      `json:"tickets"`
	ChatOpen     bool          `json:"chatOpen"`
	Chat         []Message     `json:"chat"`
}
