package main

import (
	"github.com/Ko-stant/melody-dungeon/internal/dungeon"
	"github.com/Ko-stant/melody-dungeon/internal/game"
	"github.com/Ko-stant/melody-dungeon/internal/protocol"
)

// Broadcaster sends patches to the client of one session
type Broadcaster interface {
	BroadcastEvent(eventType string, payload any)
}

// Logger interface for logging abstraction
type Logger interface {
	Printf(format string, v ...any)
}

// SequenceGenerator interface for sequence number generation
type SequenceGenerator interface {
	Next() uint64
}

// GameEngine is the rule set a connection drives. *game.Session implements it.
type GameEngine interface {
	Move(dx, dy int) (*game.MoveResult, error)
	Interact() (*game.PuzzleStart, error)
	MelodyPlayed() error
	PlayNote(n dungeon.Note) (*game.NoteResult, error)
	Restart(level int) error
	Snapshot() protocol.Snapshot
	CollectedNames() []string
	Score() int
}
