package dungeon

import "fmt"

// Note is one of the seven pitch classes. It is both the collectible type and
// the alphabet of door sequences.
type Note string

const (
	NoteC Note = "C"
	NoteD Note = "D"
	NoteE Note = "E"
	NoteF Note = "F"
	NoteG Note = "G"
	NoteA Note = "A"
	NoteB Note = "B"
)

// AllNotes lists the notes in scale order. Key bindings follow this order.
var AllNotes = []Note{NoteC, NoteD, NoteE, NoteF, NoteG, NoteA, NoteB}

// NoteInfo is the presentation data clients need to play and draw a note.
type NoteInfo struct {
	Note      Note   `json:"note"`
	Frequency int    `json:"freq"`
	Color     string `json:"color"`
	Key       string `json:"key"`
}

var noteInfo = map[Note]NoteInfo{
	NoteC: {Note: NoteC, Frequency: 262, Color: "#ff4444", Key: "1"},
	NoteD: {Note: NoteD, Frequency: 294, Color: "#ff8844", Key: "2"},
	NoteE: {Note: NoteE, Frequency: 330, Color: "#ffff44", Key: "3"},
	NoteF: {Note: NoteF, Frequency: 349, Color: "#44ff44", Key: "4"},
	NoteG: {Note: NoteG, Frequency: 392, Color: "#44ffff", Key: "5"},
	NoteA: {Note: NoteA, Frequency: 440, Color: "#4444ff", Key: "6"},
	NoteB: {Note: NoteB, Frequency: 494, Color: "#ff44ff", Key: "7"},
}

func (n Note) Valid() bool {
	_, ok := noteInfo[n]
	return ok
}

func (n Note) Info() NoteInfo {
	return noteInfo[n]
}

// Palette returns the presentation data of every note in scale order.
func Palette() []NoteInfo {
	out := make([]NoteInfo, 0, len(AllNotes))
	for _, n := range AllNotes {
		out = append(out, noteInfo[n])
	}
	return out
}

// ParseNote accepts a note name ("C".."B") or its key ("1".."7").
func ParseNote(s string) (Note, error) {
	if n := Note(s); n.Valid() {
		return n, nil
	}
	for _, info := range noteInfo {
		if info.Key == s {
			return info.Note, nil
		}
	}
	return "", fmt.Errorf("unknown note %q", s)
}
