// Command nightfall-term runs the simulation in a terminal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"nightfall/internal/config"
	"nightfall/internal/game"
	"nightfall/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "simulation config")
	upgradesPath := flag.String("upgrades", "assets/upgrades.yaml", "upgrade pool, empty to use the config's")
	logPath := flag.String("log", "", "log file; logging is off when empty")
	seed := flag.Int64("seed", 0, "override the config seed")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *upgradesPath != "" {
		table, err := config.LoadUpgradeTable(*upgradesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load upgrades: %v\n", err)
			os.Exit(1)
		}
		cfg.Upgrades = table
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	logger := logging.Discard()
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = logging.NewWithWriter(f, cfg.Logging, "nightfall-term")
	}

	sim, err := game.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	t, err := newTerm(sim, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer t.screen.Fini()

	t.run(cfg.TickDuration())
}

// term drives one simulation from terminal input.
type term struct {
	screen tcell.Screen
	sim    *game.Simulation
	log    *slog.Logger
	keys   *heldKeys
	status string
}

func newTerm(sim *game.Simulation, log *slog.Logger) (*term, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	return &term{screen: screen, sim: sim, log: log, keys: newHeldKeys(keyHold)}, nil
}

func (t *term) run(step time.Duration) {
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !t.handle(ev, time.Now()) {
				return
			}
		case now := <-ticker.C:
			if !t.sim.Paused() && !t.sim.LevelUpPending() && !t.sim.GameOver() {
				t.report(t.sim.SetMovement(t.keys.direction(now)))
			}
			t.sim.Tick()
			t.draw(t.sim.Snapshot(false))
		}
	}
}
