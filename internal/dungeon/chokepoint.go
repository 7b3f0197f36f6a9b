package dungeon

import "github.com/Ko-stant/melody-dungeon/internal/geometry"

// Chokepoint is a corridor tile walled in on two opposite sides. Vertical
// means the walls are above and below.
type Chokepoint struct {
	Position    geometry.Point       `json:"position"`
	Orientation geometry.Orientation `json:"orientation"`
	Corridor    int                  `json:"corridor"`
}

// DetectChokepoints scans every corridor tile. The result follows corridor
// order and keeps duplicates where corridors overlap.
func DetectChokepoints(src TileSource, corridors []Corridor) []Chokepoint {
	var out []Chokepoint
	for ci, c := range corridors {
		for _, p := range c.Tiles {
			if o, ok := chokeOrientation(src, p); ok {
				out = append(out, Chokepoint{Position: p, Orientation: o, Corridor: ci})
			}
		}
	}
	return out
}

func chokeOrientation(src TileSource, p geometry.Point) (geometry.Orientation, bool) {
	if isWall(src, p.Add(0, -1)) && isWall(src, p.Add(0, 1)) {
		return geometry.Vertical, true
	}
	if isWall(src, p.Add(-1, 0)) && isWall(src, p.Add(1, 0)) {
		return geometry.Horizontal, true
	}
	return "", false
}
