package geometry

import (
	"strings"
	"testing"
)

func passableFromRows(rows []string) (int, int, func(Point) bool) {
	h := len(rows)
	w := len(rows[0])
	return w, h, func(p Point) bool {
		return rows[p.Y][p.X] != '#'
	}
}

func TestBuildRegionMap_SplitsByWalls(t *testing.T) {
	rows := []string{
		"..#...",
		"..#...",
		"######",
		"......",
	}
	w, h, passable := passableFromRows(rows)
	rm := BuildRegionMap(w, h, passable)
	if rm.RegionsCount != 3 {
		t.Fatalf("expected 3 regions, got %d", rm.RegionsCount)
	}
	if rm.RegionAt(Point{X: 0, Y: 0}) != rm.RegionAt(Point{X: 1, Y: 1}) {
		t.Errorf("expected top-left tiles to share a region")
	}
	if rm.RegionAt(Point{X: 0, Y: 0}) == rm.RegionAt(Point{X: 3, Y: 0}) {
		t.Errorf("expected tiles on either side of the wall to be in different regions")
	}
	if rm.RegionAt(Point{X: 2, Y: 0}) != -1 {
		t.Errorf("expected wall tile to have no region")
	}
}

func TestBuildRegionMap_OutOfBoundsIsNoRegion(t *testing.T) {
	w, h, passable := passableFromRows([]string{strings.Repeat(".", 4)})
	rm := BuildRegionMap(w, h, passable)
	for _, p := range []Point{{X: -1, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 1}} {
		if got := rm.RegionAt(p); got != -1 {
			t.Errorf("RegionAt(%v) = %d, want -1", p, got)
		}
	}
}

func TestManhattanAndCenter(t *testing.T) {
	if d := Manhattan(Point{X: 1, Y: 2}, Point{X: 4, Y: -2}); d != 7 {
		t.Errorf("Manhattan = %d, want 7", d)
	}
	r := Rect{X: 2, Y: 3, Width: 5, Height: 4}
	if c := r.Center(); c != (Point{X: 4, Y: 5}) {
		t.Errorf("Center = %v, want (4,5)", c)
	}
	if !r.Contains(Point{X: 6, Y: 6}) || r.Contains(Point{X: 7, Y: 6}) {
		t.Errorf("Contains must treat right/bottom edges as exclusive")
	}
}
