package protocol

const (
	PatchLevelLoaded    = "LevelLoaded"
	PatchPlayerMoved    = "PlayerMoved"
	PatchNoteCollected  = "NoteCollected"
	PatchPuzzleStarted  = "PuzzleStarted"
	PatchPuzzleInput    = "PuzzleInput"
	PatchPuzzleFailed   = "PuzzleFailed"
	PatchDoorUnlocked   = "DoorUnlocked"
	PatchLevelCompleted = "LevelCompleted"
	PatchMessage        = "Message"
)

type PatchEnvelope struct {
	Sequence uint64 `json:"seq"`
	Type     string `json:"type"`
	Payload  any    `json:"payload"`
}

type LevelLoaded struct {
	Snapshot Snapshot `json:"snapshot"`
}

type PlayerMoved struct {
	From Tile `json:"from"`
	To   Tile `json:"to"`
}

type NoteCollected struct {
	Note      string   `json:"note"`
	Tile      Tile     `json:"tile"`
	Collected []string `json:"collected"`
}

// PuzzleStarted carries the melody the client must play before it sends
// RequestMelodyPlayed.
type PuzzleStarted struct {
	Door   Tile     `json:"door"`
	Melody []string `json:"melody"`
}

type PuzzleInput struct {
	Note     string   `json:"note"`
	Input    []string `json:"input"`
	Expected int      `json:"expected"`
}

// PuzzleFailed asks the client to replay the melody.
type PuzzleFailed struct {
	Door   Tile     `json:"door"`
	Melody []string `json:"melody"`
}

type DoorUnlocked struct {
	Door Tile `json:"door"`
}

type LevelCompleted struct {
	Level int `json:"level"`
	Score int `json:"score"`
	Next  int `json:"next"`
}

type Message struct {
	Text  string `json:"text"`
	Code  string `json:"code,omitempty"`
	Error bool   `json:"error,omitempty"`
}
