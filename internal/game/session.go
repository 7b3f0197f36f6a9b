// Package game holds the rules of a single player's run through the
// generated levels: movement, note collection and the melody puzzle at each
// locked door.
package game

import (
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
	"sync"

	"github.com/zyedidia/generic/mapset"

	"github.com/Ko-stant/melody-dungeon/internal/dungeon"
	"github.com/Ko-stant/melody-dungeon/internal/geometry"
)

// LevelSource builds level n. *dungeon.Generator satisfies it.
type LevelSource interface {
	Generate(level int) (*dungeon.Level, error)
}

type Logger interface {
	Printf(format string, v ...any)
}

type PuzzleState string

const (
	PuzzleIdle      PuzzleState = "idle"
	PuzzleListening PuzzleState = "listening"
	PuzzleInput     PuzzleState = "input"
)

// Session is one player's game. All methods are safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	source LevelSource
	logger Logger

	level     *dungeon.Level
	player    geometry.Point
	collected mapset.Set[dungeon.Note]
	puzzle    PuzzleState
	door      int
	input     []dungeon.Note
	score     int
	message   string
}

func NewSession(source LevelSource, startLevel int, logger Logger) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Session{source: source, logger: logger}
	if err := s.load(startLevel); err != nil {
		return nil, err
	}
	return s, nil
}

// load replaces the current level. Collected notes do not carry over.
func (s *Session) load(n int) error {
	lvl, err := s.source.Generate(n)
	if err != nil {
		return fmt.Errorf("generate level %d: %w", n, err)
	}
	s.level = lvl
	s.player = lvl.Start
	s.collected = mapset.New[dungeon.Note]()
	s.resetPuzzle()
	s.message = fmt.Sprintf("Level %d", n)
	s.logger.Printf("session: loaded level %d seed %d (%d doors, %d notes)", n, lvl.Seed, len(lvl.Doors), len(lvl.Notes))
	return nil
}

func (s *Session) resetPuzzle() {
	s.puzzle = PuzzleIdle
	s.door = -1
	s.input = nil
}

// Restart begins a new run from level n and clears the score.
func (s *Session) Restart(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(n); err != nil {
		return err
	}
	s.score = 0
	return nil
}

// MoveResult describes what a step changed.
type MoveResult struct {
	From      geometry.Point
	To        geometry.Point
	Collected dungeon.Note
	// Completed is set when the step reached the exit; the next level is
	// already loaded.
	Completed     bool
	CompletedNum  int
	NextLevelNum  int
	PuzzleBlocked bool
}

// Move takes one orthogonal step. Moves are ignored while a puzzle is
// active.
func (s *Session) Move(dx, dy int) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.puzzle != PuzzleIdle {
		return &MoveResult{From: s.player, To: s.player, PuzzleBlocked: true}, nil
	}
	if abs(dx)+abs(dy) != 1 {
		return nil, newError(CodeBlocked, "moves are one orthogonal step")
	}

	from := s.player
	to := from.Add(dx, dy)
	tile, ok := s.level.Grid.At(to)
	if !ok || !tile.Walkable() {
		return nil, newError(CodeBlocked, "the way is blocked")
	}

	// Nothing changes unless the next level could be built.
	if tile == dungeon.Exit {
		completed := s.level.Number
		if err := s.load(completed + 1); err != nil {
			return nil, err
		}
		s.score++
		s.message = "Level Complete!"
		return &MoveResult{From: from, To: to, Completed: true, CompletedNum: completed, NextLevelNum: completed + 1}, nil
	}

	s.player = to
	res := &MoveResult{From: from, To: to}
	if note, ok := s.level.Collect(to); ok {
		s.collected.Put(note)
		res.Collected = note
		s.message = fmt.Sprintf("Collected note %s!", note)
	}
	return res, nil
}

// PuzzleStart is the melody of a door the player just engaged.
type PuzzleStart struct {
	Door   geometry.Point
	Melody []dungeon.Note
}

// Interact engages the first locked door next to the player, checking up,
// down, left then right.
func (s *Session) Interact() (*PuzzleStart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.puzzle != PuzzleIdle {
		return nil, newError(CodePuzzleActive, "a melody is already in progress")
	}

	for _, d := range [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
		p := s.player.Add(d[0], d[1])
		if t, _ := s.level.Grid.At(p); t != dungeon.DoorLocked {
			continue
		}
		i, ok := s.level.DoorAt(p)
		if !ok {
			continue
		}
		door := s.level.Doors[i]

		var missing []string
		for _, n := range door.Sequence {
			if !s.collected.Has(n) && !slices.Contains(missing, string(n)) {
				missing = append(missing, string(n))
			}
		}
		if len(missing) > 0 {
			return nil, newError(CodeMissingNotes, "Missing notes: %s", strings.Join(missing, ", "))
		}

		s.puzzle = PuzzleListening
		s.door = i
		s.input = nil
		s.message = "Listen to the melody..."
		return &PuzzleStart{Door: p, Melody: cloneNotes(door.Sequence)}, nil
	}
	return nil, newError(CodeNothingToInteract, "Nothing to interact with here.")
}

// MelodyPlayed moves a listening puzzle to input.
func (s *Session) MelodyPlayed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.puzzle != PuzzleListening {
		return newError(CodeNoPuzzle, "no melody is playing")
	}
	s.puzzle = PuzzleInput
	s.message = "Your turn! Repeat the melody."
	return nil
}

// NoteResult describes the effect of one played note.
type NoteResult struct {
	Note dungeon.Note
	// Echo is set when no puzzle was waiting for input.
	Echo     bool
	Input    []dungeon.Note
	Expected int
	// Failed means the input was wrong and the melody must be replayed.
	Failed   bool
	Unlocked bool
	Door     geometry.Point
	Melody   []dungeon.Note
}

func (s *Session) PlayNote(n dungeon.Note) (*NoteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.collected.Has(n) {
		return nil, newError(CodeNoteNotCollected, "You don't have note %s!", n)
	}
	if s.puzzle != PuzzleInput {
		return &NoteResult{Note: n, Echo: true}, nil
	}

	door := s.level.Doors[s.door]
	res := &NoteResult{Note: n, Door: door.Position, Expected: len(door.Sequence)}

	if door.Sequence[len(s.input)] != n {
		s.input = nil
		s.puzzle = PuzzleListening
		s.message = "Wrong note! Try again..."
		res.Failed = true
		res.Melody = cloneNotes(door.Sequence)
		return res, nil
	}

	s.input = append(s.input, n)
	res.Input = cloneNotes(s.input)
	if len(s.input) == len(door.Sequence) {
		s.level.UnlockDoor(door.Position)
		s.logger.Printf("session: door at (%d,%d) unlocked on level %d", door.Position.X, door.Position.Y, s.level.Number)
		s.resetPuzzle()
		s.message = "Door unlocked!"
		res.Unlocked = true
	}
	return res, nil
}

func (s *Session) Level() *dungeon.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func (s *Session) Player() geometry.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

func (s *Session) State() PuzzleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puzzle
}

func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Collected lists the collected notes in scale order.
func (s *Session) Collected() []dungeon.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectedNotes()
}

func (s *Session) collectedNotes() []dungeon.Note {
	var out []dungeon.Note
	for _, n := range dungeon.AllNotes {
		if s.collected.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

func (s *Session) CollectedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NoteNames(s.collectedNotes())
}

func cloneNotes(in []dungeon.Note) []dungeon.Note {
	return slices.Clone(in)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
