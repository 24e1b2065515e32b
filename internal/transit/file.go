package transit

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// NetworkFile is the TOML layout accepted by LoadFile:
//
//	[[stations]]
//	id = "s1"
//	name = "PNBS"
//	lat = 16.5086
//	lng = 80.6183
//	kind = "hub"
//
//	[[lines]]
//	id = "L_3"
//	stations = ["s1", "s2"]
type NetworkFile struct {
	Stations []Station `toml:"stations"`
	Lines    []Line    `toml:"lines"`
}

func LoadFile(path string) (*Registry, error) {
	var nf NetworkFile
	if _, err := toml.DecodeFile(path, &nf); err != nil {
		return nil, fmt.Errorf("decode network file %s: %w", path, err)
	}
	return nf.registry()
}

// Decode parses a network from TOML text.
func Decode(data string) (*Registry, error) {
	var nf NetworkFile
	if _, err := toml.Decode(data, &nf); err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}
	return nf.registry()
}

func (nf NetworkFile) registry() (*Registry, error) {
	if len(nf.Stations) == 0 {
		return nil, fmt.Errorf("network has no stations")
	}
	for i := range nf.Stations {
		if nf.Stations[i].Kind == "" {
			nf.Stations[i].Kind = Stop
		}
		nf.Stations[i].Kind = StationKind(strings.ToLower(string(nf.Stations[i].Kind)))
	}
	for i := range nf.Lines {
		if nf.Lines[i].Mode == "" {
			nf.Lines[i].Mode = Bus
		}
		nf.Lines[i].Mode = Mode(strings.ToLower(string(nf.Lines[i].Mode)))
		if nf.Lines[i].Name == "" {
			nf.Lines[i].Name = nf.Lines[i].ID
		}
	}
	return NewRegistry(nf.Stations, nf.Lines), nil
}
