package dungeon

import (
	"math/rand"

	"github.com/Ko-stant/melody-dungeon/internal/geometry"
)

// Corridor is an L-shaped path of floor tiles between two room centres.
type Corridor struct {
	From     int              `json:"from"`
	To       int              `json:"to"`
	Tiles    []geometry.Point `json:"tiles"`
	Midpoint geometry.Point   `json:"midpoint"`
}

// CarveRooms writes every room as floor, never touching the outer border.
func CarveRooms(g *Grid, rooms []Room) {
	for _, room := range rooms {
		b := room.Bounds
		for y := b.Y; y < b.Y+b.Height; y++ {
			for x := b.X; x < b.X+b.Width; x++ {
				p := geometry.Point{X: x, Y: y}
				if g.Interior(p) {
					g.Set(p, Floor)
				}
			}
		}
	}
}

// Connect carves a corridor for every internal node whose two subtrees both
// resolve to a room, parents before children.
func (t *Tree) Connect(g *Grid, rng *rand.Rand) []Corridor {
	var corridors []Corridor
	var walk func(NodeID)
	walk = func(id NodeID) {
		n := t.Nodes[id]
		if n.Left == NoNode || n.Right == NoNode {
			return
		}
		a, b := t.RoomOf(n.Left), t.RoomOf(n.Right)
		if a != -1 && b != -1 {
			corridors = append(corridors, carveCorridor(g, t.Rooms[a], t.Rooms[b], rng))
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(t.Root())
	return corridors
}

func carveCorridor(g *Grid, from, to Room, rng *rand.Rand) Corridor {
	x1, y1 := from.Center.X, from.Center.Y
	x2, y2 := to.Center.X, to.Center.Y

	var tiles []geometry.Point
	horizontal := func(xa, xb, y int) {
		for x := min(xa, xb); x <= max(xa, xb); x++ {
			p := geometry.Point{X: x, Y: y}
			if g.Interior(p) {
				g.Set(p, Floor)
				tiles = append(tiles, p)
			}
		}
	}
	vertical := func(ya, yb, x int) {
		for y := min(ya, yb); y <= max(ya, yb); y++ {
			p := geometry.Point{X: x, Y: y}
			if g.Interior(p) {
				g.Set(p, Floor)
				tiles = append(tiles, p)
			}
		}
	}

	if rng.Intn(2) == 0 {
		horizontal(x1, x2, y1)
		vertical(y1, y2, x2)
	} else {
		vertical(y1, y2, x1)
		horizontal(x1, x2, y2)
	}

	c := Corridor{From: from.ID, To: to.ID, Tiles: tiles}
	if len(tiles) > 0 {
		c.Midpoint = tiles[len(tiles)/2]
	}
	return c
}
