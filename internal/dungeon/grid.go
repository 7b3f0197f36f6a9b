package dungeon

import (
	"encoding/json"
	"strings"

	"github.com/Ko-stant/melody-dungeon/internal/geometry"
)

// TileSource is a read-only view of a grid. Reachability and chokepoint
// queries run against it so that hypothetical edits can be probed without
// touching the real grid.
type TileSource interface {
	Size() (width, height int)
	At(p geometry.Point) (Tile, bool)
}

// Grid is a fixed-size rectangle of tiles stored row-major.
type Grid struct {
	width  int
	height int
	tiles  []Tile
}

func NewGrid(width, height int, fill Tile) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, invalidDimensions(width, height)
	}
	tiles := make([]Tile, width*height)
	for i := range tiles {
		tiles[i] = fill
	}
	return &Grid{width: width, height: height, tiles: tiles}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

func (g *Grid) InBounds(p geometry.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// Interior reports whether p lies inside the outer wall ring.
func (g *Grid) Interior(p geometry.Point) bool {
	return p.X > 0 && p.Y > 0 && p.X < g.width-1 && p.Y < g.height-1
}

func (g *Grid) At(p geometry.Point) (Tile, bool) {
	if !g.InBounds(p) {
		return Wall, false
	}
	return g.tiles[p.Y*g.width+p.X], true
}

// Set writes t at p and reports whether p was in bounds.
func (g *Grid) Set(p geometry.Point, t Tile) bool {
	if !g.InBounds(p) {
		return false
	}
	g.tiles[p.Y*g.width+p.X] = t
	return true
}

func (g *Grid) Count(t Tile) int {
	n := 0
	for _, v := range g.tiles {
		if v == t {
			n++
		}
	}
	return n
}

// Rows returns a copy of the grid as [y][x].
func (g *Grid) Rows() [][]Tile {
	rows := make([][]Tile, g.height)
	for y := range g.height {
		rows[y] = make([]Tile, g.width)
		copy(rows[y], g.tiles[y*g.width:(y+1)*g.width])
	}
	return rows
}

func (g *Grid) MarshalJSON() ([]byte, error) {
	rows := make([][]int, g.height)
	for y := range g.height {
		rows[y] = make([]int, g.width)
		for x := range g.width {
			rows[y][x] = int(g.tiles[y*g.width+x])
		}
	}
	return json.Marshal(rows)
}

func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.width + 1) * g.height)
	for y := range g.height {
		for x := range g.width {
			sb.WriteRune(g.tiles[y*g.width+x].Glyph())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// isWall treats out-of-bounds positions as non-wall.
func isWall(src TileSource, p geometry.Point) bool {
	t, ok := src.At(p)
	return ok && t == Wall
}

// Probe overlays tile edits on a base TileSource. The base is never written,
// so a probe can be built, queried and dropped without a restore step.
type Probe struct {
	base  TileSource
	edits map[geometry.Point]Tile
}

func NewProbe(base TileSource) *Probe {
	return &Probe{base: base, edits: make(map[geometry.Point]Tile)}
}

// With returns a new probe that additionally replaces the tile at p.
func (p *Probe) With(pt geometry.Point, t Tile) *Probe {
	edits := make(map[geometry.Point]Tile, len(p.edits)+1)
	for k, v := range p.edits {
		edits[k] = v
	}
	edits[pt] = t
	return &Probe{base: p.base, edits: edits}
}

func (p *Probe) Size() (int, int) {
	return p.base.Size()
}

func (p *Probe) At(pt geometry.Point) (Tile, bool) {
	t, ok := p.base.At(pt)
	if !ok {
		return t, false
	}
	if e, edited := p.edits[pt]; edited {
		return e, true
	}
	return t, true
}
