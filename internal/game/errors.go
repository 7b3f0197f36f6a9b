package game

import "fmt"

const (
	CodeBlocked           = "BLOCKED"
	CodeNothingToInteract = "NOTHING_TO_INTERACT"
	CodeMissingNotes      = "MISSING_NOTES"
	CodeNoteNotCollected  = "NOTE_NOT_COLLECTED"
	CodePuzzleActive      = "PUZZLE_ACTIVE"
	CodeNoPuzzle          = "NO_PUZZLE"
)

// Error is a rejected player action. Message is shown to the player.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func newError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
