package game

import (
	"github.com/Ko-stant/melody-dungeon/internal/dungeon"
	"github.com/Ko-stant/melody-dungeon/internal/geometry"
	"github.com/Ko-stant/melody-dungeon/internal/protocol"
)

// Snapshot is the full client view of the session.
func (s *Session) Snapshot() protocol.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.level
	rows := l.Grid.Rows()
	tiles := make([][]int, len(rows))
	for y, row := range rows {
		tiles[y] = make([]int, len(row))
		for x, t := range row {
			tiles[y][x] = int(t)
		}
	}

	doors := make([]protocol.DoorLite, 0, len(l.Doors))
	for i, d := range l.Doors {
		doors = append(doors, protocol.DoorLite{
			Tile:        TileOf(d.Position),
			Orientation: string(d.Orientation),
			Sequence:    NoteNames(d.Sequence),
			Locked:      l.DoorLocked(i),
		})
	}

	notes := make([]protocol.NoteLite, 0, len(l.Notes))
	for _, n := range l.Notes {
		notes = append(notes, protocol.NoteLite{Tile: TileOf(n.Position), Note: string(n.Note), Collected: n.Collected})
	}

	return protocol.Snapshot{
		Level:           l.Number,
		Seed:            l.Seed,
		MapWidth:        l.Grid.Width(),
		MapHeight:       l.Grid.Height(),
		Tiles:           tiles,
		Start:           TileOf(l.Start),
		Exit:            TileOf(l.Exit),
		Player:          TileOf(s.player),
		Doors:           doors,
		Notes:           notes,
		Collected:       NoteNames(s.collectedNotes()),
		Palette:         Palette(),
		PuzzleState:     string(s.puzzle),
		Score:           s.score,
		ProtocolVersion: protocol.Version,
	}
}

func TileOf(p geometry.Point) protocol.Tile {
	return protocol.Tile{X: p.X, Y: p.Y}
}

func Palette() []protocol.PaletteEntry {
	var out []protocol.PaletteEntry
	for _, info := range dungeon.Palette() {
		out = append(out, protocol.PaletteEntry{
			Note:      string(info.Note),
			Frequency: info.Frequency,
			Color:     info.Color,
			Key:       info.Key,
		})
	}
	return out
}

func NoteNames(notes []dungeon.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, string(n))
	}
	return out
}
