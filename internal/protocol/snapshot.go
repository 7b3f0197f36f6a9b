package protocol

const Version = "v1"

type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type DoorLite struct {
	Tile        Tile     `json:"tile"`
	Orientation string   `json:"orientation"`
	Sequence    []string `json:"sequence"`
	Locked      bool     `json:"locked"`
}

type NoteLite struct {
	Tile      Tile   `json:"tile"`
	Note      string `json:"note"`
	Collected bool   `json:"collected"`
}

type PaletteEntry struct {
	Note      string `json:"note"`
	Frequency int    `json:"freq"`
	Color     string `json:"color"`
	Key       string `json:"key"`
}

type Snapshot struct {
	Level           int            `json:"level"`
	Seed            int64          `json:"seed"`
	MapWidth        int            `json:"mapWidth"`
	MapHeight       int            `json:"mapHeight"`
	Tiles           [][]int        `json:"tiles"`
	Start           Tile           `json:"start"`
	Exit            Tile           `json:"exit"`
	Player          Tile           `json:"player"`
	Doors           []DoorLite     `json:"doors"`
	Notes           []NoteLite     `json:"notes"`
	Collected       []string       `json:"collected"`
	Palette         []PaletteEntry `json:"palette"`
	PuzzleState     string         `json:"puzzleState"`
	Score           int            `json:"score"`
	ProtocolVersion string         `json:"protocolVersion"`
}
