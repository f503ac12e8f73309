package main

import (
	"os"

	"github.com/raphi011/slotctl/internal/config"
	"github.com/raphi011/slotctl/internal/container"
	"github.com/raphi011/slotctl/internal/state"
)

// loaded bundles the container paths, config, and state every subcommand
// but init needs to operate.
type loaded struct {
	Paths  container.Paths
	Config config.Config
	State  *state.State
}

func loadContainer() (loaded, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return loaded{}, err
	}
	paths, err := container.Locate(workDir)
	if err != nil {
		return loaded{}, err
	}
	if err := paths.Verify(); err != nil {
		return loaded{}, err
	}
	cfg, err := config.Load(paths.ConfigPath)
	if err != nil {
		return loaded{}, err
	}
	st, err := state.Load(paths.StatePath)
	if err != nil {
		return loaded{}, err
	}
	return loaded{Paths: paths, Config: cfg, State: st}, nil
}

func (l loaded) persist() error {
	return state.Save(l.Paths.StatePath, l.State)
}
