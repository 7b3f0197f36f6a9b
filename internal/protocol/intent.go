package protocol

import "encoding/json"

const (
	IntentMove         = "RequestMove"
	IntentInteract     = "RequestInteract"
	IntentPlayNote     = "RequestPlayNote"
	IntentMelodyPlayed = "RequestMelodyPlayed"
	IntentNewGame      = "RequestNewGame"
)

type IntentEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type RequestMove struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

type RequestInteract struct {
}

type RequestPlayNote struct {
	Note string `json:"note"`
}

// RequestMelodyPlayed tells the server the client finished playing the
// melody of the active puzzle.
type RequestMelodyPlayed struct {
}

// RequestNewGame restarts the session. Level 0 means the configured
// starting level.
type RequestNewGame struct {
	Level int `json:"level,omitempty"`
}
