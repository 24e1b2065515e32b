package sim

import (
	"fmt"

	"metrogo/internal/transit"
)

const (
	Forward  = 1
	Backward = -1
)

// Vehicle is one simulated bus. Progress is the normalized position along
// the whole line: 0 at the first station, 1 at the last.
type Vehicle struct {
	ID        string  `json:"id"`
	LineID    string  `json:"lineId"`
	Color     string  `json:"color"`
	Label     string  `json:"label"`
	Progress  float64 `json:"progress"`
	Direction int     `json:"direction"`
	Speed     float64 `json:"speed"`
}

// Step applies one tick. Hitting either end clamps progress and reverses.
func Step(v Vehicle) Vehicle {
	p := v.Progress + v.Speed*float64(v.Direction)
	switch {
	case p >= 1:
		v.Progress, v.Direction = 1, Backward
	case p <= 0:
		v.Progress, v.Direction = 0, Forward
	default:
		v.Progress = p
	}
	return v
}

// Advance returns a new fleet with Step applied to every vehicle.
func Advance(fleet []Vehicle) []Vehicle {
	next := make([]Vehicle, len(fleet))
	for i, v := range fleet {
		next[i] = Step(v)
	}
	return next
}

const (
	minSpeed   = 0.0005
	speedRange = 0.0005
)

// NewFleet creates perLine vehicles for every line. Each vehicle draws its
// initial progress, direction and speed from src, in that order.
func NewFleet(lines []transit.Line, perLine int, src Source) []Vehicle {
	if perLine < 0 {
		perLine = 0
	}
	fleet := make([]Vehicle, 0, len(lines)*perLine)
	for _, line := range lines {
		for i := 0; i < perLine; i++ {
			v := Vehicle{
				ID:       fmt.Sprintf("BUS-%s-%d", line.ID, i),
				LineID:   line.ID,
				Color:    line.Color,
				Label:    line.Name,
				Progress: src.Float64(),
			}
			if src.Float64() > 0.5 {
				v.Direction = Forward
			} else {
				v.Direction = Backward
			}
			v.Speed = minSpeed + src.Float64()*speedRange
			fleet = append(fleet, v)
		}
	}
	return fleet
}
