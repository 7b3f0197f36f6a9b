// Command levelview browses generated levels in the terminal.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/Ko-stant/melody-dungeon/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $APP_CONFIG)")
	level := flag.Int("level", 1, "level to show first")
	seed := flag.Int64("seed", 1, "seed of the first level")
	flag.Parse()

	cfg, err := config.Load(config.Resolve(*configPath, os.LookupEnv))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Dungeon.Validate(); err != nil {
		log.Fatalf("Invalid dungeon config: %v", err)
	}

	ui, err := newViewer(cfg.Dungeon, *level, *seed)
	if err != nil {
		log.Fatalf("Failed to build level: %v", err)
	}
	if err := ui.Run(); err != nil {
		log.Fatalf("levelview: %v", err)
	}
}
