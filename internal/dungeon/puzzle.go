package dungeon

import (
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/Ko-stant/melody-dungeon/internal/geometry"
)

// puzzleBuilder turns chokepoints into locked doors and places the notes each
// door needs where the player can reach them before that door.
type puzzleBuilder struct {
	cfg    Config
	rng    *rand.Rand
	logger Logger
	level  int
	grid   *Grid
	start  geometry.Point
	exit   geometry.Point

	doors    []Door
	notes    []Collectible
	occupied mapset.Set[geometry.Point]
	placed   mapset.Set[Note]
	// placedOrder mirrors placed in placement order so draws stay seeded.
	placedOrder []Note
	stats       Stats
}

func newPuzzleBuilder(cfg Config, level int, grid *Grid, start, exit geometry.Point, rng *rand.Rand, logger Logger) *puzzleBuilder {
	return &puzzleBuilder{
		cfg:      cfg,
		rng:      rng,
		logger:   logger,
		level:    level,
		grid:     grid,
		start:    start,
		exit:     exit,
		occupied: mapset.New[geometry.Point](),
		placed:   mapset.New[Note](),
	}
}

func (b *puzzleBuilder) run(candidates []Chokepoint) {
	b.stats.Chokepoints = len(candidates)

	blocking := b.blockingCandidates(candidates)
	b.stats.BlockingChokepoints = len(blocking)
	b.logger.Printf("blocking chokepoints: %d of %d", len(blocking), len(candidates))

	selected := b.selectDoors(blocking)
	if len(selected) == 0 {
		b.logger.Printf("no blocking chokepoints, dungeon is open")
		b.scatterEverywhere()
		return
	}

	for _, c := range selected {
		b.grid.Set(c.Position, DoorLocked)
	}

	opened := NewProbe(b.grid)
	for i, c := range selected {
		seq := GenerateSequence(b.cfg.SequenceLength(b.level, i), b.placedOrder, b.cfg.ReuseBias, b.rng)
		b.doors = append(b.doors, Door{Position: c.Position, Orientation: c.Orientation, Sequence: seq})
		b.logger.Printf("door %d at (%d,%d) sequence %v", i+1, c.Position.X, c.Position.Y, seq)

		// Earlier doors are open in the probe, this one and later ones are
		// still locked in the grid.
		pool := b.floorPool(Reachable(opened, b.start, DoorsBlocking))
		b.logger.Printf("door %d: %d free tiles before it", i+1, len(pool))

		for _, n := range seq {
			if b.placed.Has(n) {
				continue
			}
			b.place(n, &pool, true)
		}
		for range b.cfg.BonusNotesPerDoor {
			extra := b.unplaced()
			if len(extra) == 0 || len(pool) == 0 {
				break
			}
			b.place(extra[b.rng.Intn(len(extra))], &pool, false)
		}

		opened = opened.With(c.Position, Floor)
		after := Reachable(opened, b.start, DoorsBlocking)
		b.logger.Printf("door %d: %d tiles reachable once unlocked", i+1, after.Len())
	}

	remaining := b.unplaced()
	if len(remaining) == 0 {
		return
	}
	pool := b.floorPool(Reachable(b.grid, b.start, DoorsPassable))
	b.logger.Printf("placing remaining notes %v beyond the doors", remaining)
	for _, n := range remaining {
		b.place(n, &pool, false)
	}
}

// blockingCandidates keeps the floor candidates whose blockage cuts the exit
// off from the start, once per coordinate.
func (b *puzzleBuilder) blockingCandidates(candidates []Chokepoint) []Chokepoint {
	seen := mapset.New[geometry.Point]()
	var out []Chokepoint
	for _, c := range candidates {
		if seen.Has(c.Position) {
			continue
		}
		seen.Put(c.Position)
		if t, _ := b.grid.At(c.Position); t != Floor {
			continue
		}
		probe := NewProbe(b.grid).With(c.Position, Wall)
		if !Reachable(probe, b.start, DoorsBlocking).Has(b.exit) {
			out = append(out, c)
		}
	}
	return out
}

// selectDoors orders candidates by Manhattan distance from the start and
// keeps, nearest first, those more than ChokepointSpacing from every kept
// candidate. Spacing stands in for clustering candidates before the blocking
// test, so the door count follows the spaced candidates, not the blocking ones.
func (b *puzzleBuilder) selectDoors(blocking []Chokepoint) []Chokepoint {
	sorted := make([]Chokepoint, len(blocking))
	copy(sorted, blocking)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := geometry.Manhattan(sorted[i].Position, b.start)
		dj := geometry.Manhattan(sorted[j].Position, b.start)
		if di != dj {
			return di < dj
		}
		if sorted[i].Position.Y != sorted[j].Position.Y {
			return sorted[i].Position.Y < sorted[j].Position.Y
		}
		return sorted[i].Position.X < sorted[j].Position.X
	})

	var spaced []Chokepoint
	for _, c := range sorted {
		tooClose := false
		for _, s := range spaced {
			if geometry.Manhattan(s.Position, c.Position) <= b.cfg.ChokepointSpacing {
				tooClose = true
				break
			}
		}
		if !tooClose {
			spaced = append(spaced, c)
		}
	}
	b.stats.SpacedChokepoints = len(spaced)
	return spaced[:b.cfg.DoorCount(b.level, len(spaced))]
}

// scatterEverywhere places each note once anywhere reachable. Used when the
// level has no doors.
func (b *puzzleBuilder) scatterEverywhere() {
	pool := b.floorPool(Reachable(b.grid, b.start, DoorsPassable))
	for _, n := range AllNotes {
		b.place(n, &pool, false)
	}
}

// floorPool returns the free floor tiles of r in shuffled order. Start, exit
// and door tiles are never floor in the grid, so they are excluded here even
// when a probe reports them open.
func (b *puzzleBuilder) floorPool(r Reach) []geometry.Point {
	var pool []geometry.Point
	for _, p := range r.Points() {
		if t, _ := b.grid.At(p); t != Floor || b.occupied.Has(p) || p == b.start {
			continue
		}
		pool = append(pool, p)
	}
	b.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}

// place pops a tile from pool for note n. An empty pool is logged and
// counted, never fatal.
func (b *puzzleBuilder) place(n Note, pool *[]geometry.Point, required bool) bool {
	if len(*pool) == 0 {
		if required {
			b.stats.UnplacedRequired++
		} else {
			b.stats.UnplacedOptional++
		}
		b.logger.Printf("FAILED to place note %s: no free tiles (required=%v)", n, required)
		return false
	}
	last := len(*pool) - 1
	spot := (*pool)[last]
	*pool = (*pool)[:last]

	b.notes = append(b.notes, Collectible{Position: spot, Note: n})
	b.occupied.Put(spot)
	if !b.placed.Has(n) {
		b.placed.Put(n)
		b.placedOrder = append(b.placedOrder, n)
	}
	b.stats.NotesPlaced++
	b.logger.Printf("placed note %s at (%d,%d)", n, spot.X, spot.Y)
	return true
}

func (b *puzzleBuilder) unplaced() []Note {
	var out []Note
	for _, n := range AllNotes {
		if !b.placed.Has(n) {
			out = append(out, n)
		}
	}
	return out
}
