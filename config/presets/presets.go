// Package presets are named configurations that replace the defaults before the config
// file and flags are applied.
package presets

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ringsync/go-ringsync/config"
)

var (
	mu      sync.Mutex
	presets = map[string]config.Config{}
)

func register(name string, preset config.Config) {
	mu.Lock()
	defer mu.Unlock()
	if _, exist := presets[name]; exist {
		panic(fmt.Sprintf("preset %s is already registered", name))
	}
	presets[name] = preset
}

// Options returns the names of registered presets.
func Options() []string {
	mu.Lock()
	defer mu.Unlock()
	return options()
}

func options() []string {
	var names []string
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns a copy of the preset.
func Get(name string) (config.Config, error) {
	mu.Lock()
	defer mu.Unlock()
	preset, exist := presets[name]
	if !exist {
		return config.Config{}, fmt.Errorf("preset %s is not registered. select from %v", name, options())
	}
	preset.Windows = slices.Clone(preset.Windows)
	preset.Streams = slices.Clone(preset.Streams)
	preset.P2P.Listen = slices.Clone(preset.P2P.Listen)
	preset.P2P.Bootnodes = slices.Clone(preset.P2P.Bootnodes)
	return preset, nil
}
