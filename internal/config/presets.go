package config

import (
	"sort"

	"github.com/san-kum/ramsim/internal/ram"
)

// Presets are named initial bit patterns that fit any grid size.
var Presets = map[string]func(r, c int) bool{
	"zeros":    func(r, c int) bool { return false },
	"ones":     func(r, c int) bool { return true },
	"checker":  func(r, c int) bool { return (r+c)%2 == 0 },
	"stripes":  func(r, c int) bool { return r%2 == 0 },
	"diagonal": func(r, c int) bool { return r == c },
}

func GetPreset(name string) ram.Source {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return ram.Pattern(fn)
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

