package dungeon

import (
	"strings"

	"github.com/Ko-stant/melody-dungeon/internal/geometry"
)

// Door is a chokepoint promoted to a locked gate. Its lock state lives in the
// grid tile at Position.
type Door struct {
	Position    geometry.Point       `json:"position"`
	Orientation geometry.Orientation `json:"orientation"`
	Sequence    []Note               `json:"sequence"`
}

// Collectible is a note lying on the floor.
type Collectible struct {
	Position  geometry.Point `json:"position"`
	Note      Note           `json:"note"`
	Collected bool           `json:"collected"`
}

// Stats describes how a level came to be. Unplaced counters are non-zero
// only when a placement pool ran dry.
type Stats struct {
	Attempts            int `json:"attempts"`
	Rooms               int `json:"rooms"`
	Corridors           int `json:"corridors"`
	Chokepoints         int `json:"chokepoints"`
	BlockingChokepoints int `json:"blockingChokepoints"`
	SpacedChokepoints   int `json:"spacedChokepoints"`
	NotesPlaced         int `json:"notesPlaced"`
	UnplacedRequired    int `json:"unplacedRequired"`
	UnplacedOptional    int `json:"unplacedOptional"`
}

// Level is a finished dungeon. After generation only door lock states and
// collectible flags change, through UnlockDoor and Collect.
type Level struct {
	Number    int            `json:"level"`
	Seed      int64          `json:"seed"`
	Grid      *Grid          `json:"tiles"`
	Rooms     []Room         `json:"rooms"`
	Corridors []Corridor     `json:"corridors"`
	Start     geometry.Point `json:"start"`
	Exit      geometry.Point `json:"exit"`
	Doors     []Door         `json:"doors"`
	Notes     []Collectible  `json:"notes"`
	Stats     Stats          `json:"stats"`
}

// DoorAt returns the index of the door at p.
func (l *Level) DoorAt(p geometry.Point) (int, bool) {
	for i, d := range l.Doors {
		if d.Position == p {
			return i, true
		}
	}
	return -1, false
}

func (l *Level) DoorLocked(i int) bool {
	t, _ := l.Grid.At(l.Doors[i].Position)
	return t == DoorLocked
}

// UnlockDoor flips a locked door tile to unlocked.
func (l *Level) UnlockDoor(p geometry.Point) bool {
	if _, ok := l.DoorAt(p); !ok {
		return false
	}
	if t, _ := l.Grid.At(p); t != DoorLocked {
		return false
	}
	return l.Grid.Set(p, DoorUnlocked)
}

// NoteAt returns the index of an uncollected note at p.
func (l *Level) NoteAt(p geometry.Point) (int, bool) {
	for i, n := range l.Notes {
		if n.Position == p && !n.Collected {
			return i, true
		}
	}
	return -1, false
}

// Collect marks the note at p as collected.
func (l *Level) Collect(p geometry.Point) (Note, bool) {
	i, ok := l.NoteAt(p)
	if !ok {
		return "", false
	}
	l.Notes[i].Collected = true
	return l.Notes[i].Note, true
}

// Sections counts the areas a player can tell apart with every locked door
// shut.
func (l *Level) Sections() int {
	rm := geometry.BuildRegionMap(l.Grid.Width(), l.Grid.Height(), func(p geometry.Point) bool {
		t, _ := l.Grid.At(p)
		return passable(t, DoorsBlocking)
	})
	return rm.RegionsCount
}

// String renders the level as text, with uncollected notes drawn as their
// letters.
func (l *Level) String() string {
	rows := make([][]rune, l.Grid.Height())
	for y := range rows {
		rows[y] = make([]rune, l.Grid.Width())
		for x := range rows[y] {
			t, _ := l.Grid.At(geometry.Point{X: x, Y: y})
			rows[y][x] = t.Glyph()
		}
	}
	for _, n := range l.Notes {
		if !n.Collected {
			rows[n.Position.Y][n.Position.X] = rune(n.Note[0])
		}
	}
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
