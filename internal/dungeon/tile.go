package dungeon

// Tile is the content of one grid cell. The numeric values are part of the
// wire format sent to clients.
type Tile uint8

const (
	Floor Tile = iota
	Wall
	DoorLocked
	DoorUnlocked
	Exit
	Start
)

var tileNames = [...]string{
	Floor:        "floor",
	Wall:         "wall",
	DoorLocked:   "door_locked",
	DoorUnlocked: "door_unlocked",
	Exit:         "exit",
	Start:        "start",
}

var tileGlyphs = [...]rune{
	Floor:        '.',
	Wall:         '#',
	DoorLocked:   '+',
	DoorUnlocked: '/',
	Exit:         '>',
	Start:        '<',
}

func (t Tile) Valid() bool {
	return int(t) < len(tileNames)
}

func (t Tile) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return tileNames[t]
}

// Glyph is the single character used by text renderings of a level.
func (t Tile) Glyph() rune {
	if !t.Valid() {
		return '?'
	}
	return tileGlyphs[t]
}

// Walkable reports whether a player standing next to the tile may step onto it.
func (t Tile) Walkable() bool {
	return t.Valid() && t != Wall && t != DoorLocked
}
