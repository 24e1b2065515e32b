package app

import (
	"fmt"
	"strings"
)

type Screen int

const (
	ScreenLogin Screen = iota
	ScreenHome
	ScreenResults
	ScreenMap
	ScreenWallet
	ScreenTickets
	ScreenProfile
)

var screenNames = [...]string{
	ScreenLogin:   "login",
	ScreenHome:    "home",
	ScreenResults: "results",
	ScreenMap:     "map",
	ScreenWallet:  "wallet",
	ScreenTickets: "tickets",
	ScreenProfile: "profile",
}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return fmt.Sprintf("screen(%d)", int(s))
	}
	return screenNames[s]
}

func (s Screen) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Screen) UnmarshalText(b []byte) error {
	v, err := ParseScreen(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func ParseScreen(name string) (Screen, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range screenNames {
		if n == name {
			return Screen(i), nil
		}
	}
	return 0, fmt.Errorf("unknown screen %q", name)
}

// Tabs are the screens reachable from the bottom navigation bar, in order.
var Tabs = []Screen{ScreenHome, ScreenMap, ScreenWallet, ScreenTickets, ScreenProfile}

// IsTab reports whether s can be the target of Navigate.
func (s Screen) IsTab() bool {
	for _, t := range Tabs {
		if t == s {
			return true
		}
	}
	return false
}
