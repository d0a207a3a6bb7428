package main

import (
	"log"

	"nightfall/internal/config"
	"nightfall/internal/game"
	"nightfall/internal/logging"
	"nightfall/internal/view"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig("config.yaml")

	// A standalone upgrade pool replaces the one in config.yaml
	if table, err := config.LoadUpgradeTable("assets/upgrades.yaml"); err != nil {
		log.Printf("Warning: Failed to load upgrade pool: %v", err)
	} else {
		cfg.Upgrades = table
	}

	logger := logging.New(cfg.Logging, "nightfall")
	sim, err := game.New(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(cfg.Simulation.TickRate)

	g := view.New(sim, logging.New(cfg.Logging, "view"))
	err = ebiten.RunGame(g)
	g.Close()
	if err != nil {
		log.Fatal(err)
	}
}
