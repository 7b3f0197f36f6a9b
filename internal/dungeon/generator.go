package dungeon

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/Ko-stant/melody-dungeon/internal/geometry"
)

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

// Generator produces levels from a Config and a seeded random stream.
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	logger Logger
}

func NewGenerator(cfg Config, logger Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed)), logger: logger}, nil
}

// SetSeed restarts the generator's random stream.
func (g *Generator) SetSeed(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
}

func (g *Generator) Config() Config {
	return g.cfg
}

// Generate draws a fresh level seed from the generator's stream and builds
// the level from it.
func (g *Generator) Generate(level int) (*Level, error) {
	return g.GenerateSeeded(level, g.rng.Int63())
}

// GenerateSeeded builds level number level from seed. The same config, level
// and seed always give the same level.
func (g *Generator) GenerateSeeded(level int, seed int64) (*Level, error) {
	lvl, err := build(g.cfg, level, rand.New(rand.NewSource(seed)), g.logger)
	if err != nil {
		return nil, err
	}
	lvl.Seed = seed
	return lvl, nil
}

// GenerateLevel builds a level with the default config, drawing every random
// decision from rng.
func GenerateLevel(level int, rng *rand.Rand) (*Level, error) {
	return build(DefaultConfig(), level, rng, log.New(io.Discard, "", 0))
}

// build retries the whole layout while a required note could not be placed
// or the partition left no usable rooms, returning the last complete attempt
// once MaxAttempts is spent. If no attempt produced a layout at all, the
// interior becomes a single unsplit region, which Validate guarantees can
// hold a room.
func build(cfg Config, level int, rng *rand.Rand, logger Logger) (*Level, error) {
	if level <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLevel, level)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var lvl *Level
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		next, err := generateOnce(cfg, level, rng, logger, cfg.Iterations(level))
		if errors.Is(err, ErrNoRooms) || errors.Is(err, ErrDegenerateLayout) {
			logger.Printf("level %d attempt %d: %v, regenerating", level, attempt, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		lvl = next
		lvl.Stats.Attempts = attempt
		if lvl.Stats.UnplacedRequired == 0 {
			return lvl, nil
		}
		logger.Printf("level %d attempt %d left %d required notes unplaced, regenerating",
			level, attempt, lvl.Stats.UnplacedRequired)
	}
	if lvl != nil {
		return lvl, nil
	}

	logger.Printf("level %d: no layout after %d attempts, using a single region", level, cfg.MaxAttempts)
	lvl, err := generateOnce(cfg, level, rng, logger, 0)
	if err != nil {
		return nil, err
	}
	lvl.Stats.Attempts = cfg.MaxAttempts + 1
	return lvl, nil
}

func generateOnce(cfg Config, level int, rng *rand.Rand, logger Logger, iterations int) (*Level, error) {
	grid, err := NewGrid(cfg.Width, cfg.Height, Wall)
	if err != nil {
		return nil, err
	}

	tree := NewTree(geometry.Rect{X: 1, Y: 1, Width: cfg.Width - 2, Height: cfg.Height - 2})
	tree.Partition(iterations, cfg.MinRegionSize, rng)
	tree.PlaceRooms(cfg.MinRoomSize, cfg.Padding, rng)
	if len(tree.Rooms) == 0 {
		return nil, ErrNoRooms
	}

	CarveRooms(grid, tree.Rooms)
	corridors := tree.Connect(grid, rng)

	startRoom := tree.Rooms[0]
	start := startRoom.Center
	exit, err := pickExit(grid, tree.Rooms, start)
	if err != nil {
		return nil, err
	}
	grid.Set(start, Start)
	grid.Set(exit, Exit)

	logger.Printf("level %d: %d rooms, %d corridors, %d floor tiles, start (%d,%d), exit (%d,%d)",
		level, len(tree.Rooms), len(corridors), grid.Count(Floor), start.X, start.Y, exit.X, exit.Y)

	b := newPuzzleBuilder(cfg, level, grid, start, exit, rng, logger)
	b.run(DetectChokepoints(grid, corridors))

	b.stats.Rooms = len(tree.Rooms)
	b.stats.Corridors = len(corridors)
	logger.Printf("level %d: %d doors, %d notes", level, len(b.doors), len(b.notes))

	return &Level{
		Number:    level,
		Grid:      grid,
		Rooms:     tree.Rooms,
		Corridors: corridors,
		Start:     start,
		Exit:      exit,
		Doors:     b.doors,
		Notes:     b.notes,
		Stats:     b.stats,
	}, nil
}

// pickExit uses the centre of the room furthest from start. When that is the
// start itself, as on a single-room map, it falls back to the floor tile of
// that room furthest from start.
func pickExit(g *Grid, rooms []Room, start geometry.Point) (geometry.Point, error) {
	furthest := rooms[len(rooms)-1]
	best := 0
	for _, r := range rooms {
		if d := geometry.Manhattan(r.Center, start); d > best {
			best = d
			furthest = r
		}
	}
	if furthest.Center != start {
		return furthest.Center, nil
	}

	exit, best := start, 0
	b := furthest.Bounds
	for y := b.Y; y < b.Y+b.Height; y++ {
		for x := b.X; x < b.X+b.Width; x++ {
			p := geometry.Point{X: x, Y: y}
			if t, _ := g.At(p); t != Floor {
				continue
			}
			if d := geometry.Manhattan(p, start); d > best {
				best = d
				exit = p
			}
		}
	}
	if exit == start {
		return geometry.Point{}, ErrDegenerateLayout
	}
	return exit, nil
}
