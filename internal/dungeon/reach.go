package dungeon

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/Ko-stant/melody-dungeon/internal/geometry"
)

// PassMode selects how locked doors are treated during a search.
type PassMode int

const (
	// DoorsBlocking matches player movement: locked doors stop the search.
	DoorsBlocking PassMode = iota
	// DoorsPassable treats every door as open.
	DoorsPassable
)

func (m PassMode) String() string {
	if m == DoorsPassable {
		return "doors-passable"
	}
	return "doors-blocking"
}

func passable(t Tile, mode PassMode) bool {
	switch t {
	case Wall:
		return false
	case DoorLocked:
		return mode == DoorsPassable
	default:
		return t.Valid()
	}
}

// Reach is the result of a breadth-first search: a set of coordinates plus
// the order they were discovered in, so callers can iterate deterministically.
type Reach struct {
	order []geometry.Point
	set   mapset.Set[geometry.Point]
}

func (r Reach) Has(p geometry.Point) bool {
	return r.set.Has(p)
}

func (r Reach) Len() int {
	return len(r.order)
}

// Points returns the reached coordinates in discovery order.
func (r Reach) Points() []geometry.Point {
	out := make([]geometry.Point, len(r.order))
	copy(out, r.order)
	return out
}

// Reachable searches four-connected neighbours from start. Walls are always
// impassable and out-of-bounds positions are never reached. src is only read.
func Reachable(src TileSource, start geometry.Point, mode PassMode) Reach {
	r := Reach{set: mapset.New[geometry.Point]()}
	if t, ok := src.At(start); !ok || !passable(t, mode) {
		return r
	}

	r.set.Put(start)
	queue := []geometry.Point{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		r.order = append(r.order, cur)

		for _, n := range cur.Neighbors4() {
			if r.set.Has(n) {
				continue
			}
			t, ok := src.At(n)
			if !ok || !passable(t, mode) {
				continue
			}
			r.set.Put(n)
			queue = append(queue, n)
		}
	}
	return r
}
