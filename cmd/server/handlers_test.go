package main

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Ko-stant/melody-dungeon/internal/dungeon"
	"github.com/Ko-stant/melody-dungeon/internal/game"
	"github.com/Ko-stant/melody-dungeon/internal/geometry"
	"github.com/Ko-stant/melody-dungeon/internal/protocol"
)

// Mock implementations for testing handlers
type MockBroadcaster struct {
	events []BroadcastEvent
}

type BroadcastEvent struct {
	EventType string
	Payload   any
}

func (m *MockBroadcaster) BroadcastEvent(eventType string, payload any) {
	m.events = append(m.events, BroadcastEvent{
		EventType: eventType,
		Payload:   payload,
	})
}

func (m *MockBroadcaster) Types() []string {
	var out []string
	for _, e := range m.events {
		out = append(out, e.EventType)
	}
	return out
}

type MockLogger struct {
	logs []string
}

func (m *MockLogger) Printf(format string, v ...any) {
	m.logs = append(m.logs, format)
}

type MockGameEngine struct {
	moveResult   *game.MoveResult
	moveError    error
	puzzle       *game.PuzzleStart
	interactErr  error
	melodyErr    error
	noteResult   *game.NoteResult
	noteErr      error
	restartErr   error
	restartLevel int
	playedNote   dungeon.Note
	snapshot     protocol.Snapshot
	collected    []string
	score        int
}

func (m *MockGameEngine) Move(dx, dy int) (*game.MoveResult, error) {
	return m.moveResult, m.moveError
}

func (m *MockGameEngine) Interact() (*game.PuzzleStart, error) {
	return m.puzzle, m.interactErr
}

func (m *MockGameEngine) MelodyPlayed() error {
	return m.melodyErr
}

func (m *MockGameEngine) PlayNote(n dungeon.Note) (*game.NoteResult, error) {
	m.playedNote = n
	return m.noteResult, m.noteErr
}

func (m *MockGameEngine) Restart(level int) error {
	m.restartLevel = level
	return m.restartErr
}

func (m *MockGameEngine) Snapshot() protocol.Snapshot { return m.snapshot }
func (m *MockGameEngine) CollectedNames() []string    { return m.collected }
func (m *MockGameEngine) Score() int                  { return m.score }

func newHandlers(engine *MockGameEngine) (*SessionHandlers, *MockBroadcaster, *MockLogger) {
	broadcaster := &MockBroadcaster{}
	logger := &MockLogger{}
	return NewSessionHandlers(engine, broadcaster, logger, 1), broadcaster, logger
}

func assertTypes(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected events %v, got %v", want, got)
		}
	}
}

func TestSessionHandlers_HandleRequestMove_CollectsNote(t *testing.T) {
	// Arrange
	engine := &MockGameEngine{
		moveResult: &game.MoveResult{
			From:      geometry.Point{X: 2, Y: 1},
			To:        geometry.Point{X: 3, Y: 1},
			Collected: dungeon.NoteC,
		},
		collected: []string{"C"},
	}
	handlers, broadcaster, _ := newHandlers(engine)

	// Act
	err := handlers.HandleRequestMove(protocol.RequestMove{DX: 1})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	assertTypes(t, broadcaster.Types(), protocol.PatchPlayerMoved, protocol.PatchNoteCollected)
	moved := broadcaster.events[0].Payload.(protocol.PlayerMoved)
	if moved.To != (protocol.Tile{X: 3, Y: 1}) {
		t.Errorf("Expected move to (3,1), got %+v", moved.To)
	}
	nc := broadcaster.events[1].Payload.(protocol.NoteCollected)
	if nc.Note != "C" || len(nc.Collected) != 1 {
		t.Errorf("Unexpected NoteCollected %+v", nc)
	}
}

func TestSessionHandlers_HandleRequestMove_CompletesLevel(t *testing.T) {
	engine := &MockGameEngine{
		moveResult: &game.MoveResult{Completed: true, CompletedNum: 2, NextLevelNum: 3},
		snapshot:   protocol.Snapshot{Level: 3},
		score:      2,
	}
	handlers, broadcaster, _ := newHandlers(engine)

	if err := handlers.HandleRequestMove(protocol.RequestMove{DY: 1}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	assertTypes(t, broadcaster.Types(), protocol.PatchPlayerMoved, protocol.PatchLevelCompleted, protocol.PatchLevelLoaded)
	done := broadcaster.events[1].Payload.(protocol.LevelCompleted)
	if done.Level != 2 || done.Next != 3 || done.Score != 2 {
		t.Errorf("Unexpected LevelCompleted %+v", done)
	}
	loaded := broadcaster.events[2].Payload.(protocol.LevelLoaded)
	if loaded.Snapshot.Level != 3 {
		t.Errorf("Expected level 3 snapshot, got %d", loaded.Snapshot.Level)
	}
}

func TestSessionHandlers_HandleRequestMove_PuzzleActiveIsSilent(t *testing.T) {
	engine := &MockGameEngine{moveResult: &game.MoveResult{PuzzleBlocked: true}}
	handlers, broadcaster, _ := newHandlers(engine)

	if err := handlers.HandleRequestMove(protocol.RequestMove{DX: 1}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(broadcaster.events) != 0 {
		t.Errorf("Expected no events, got %v", broadcaster.Types())
	}
}

func TestSessionHandlers_GameErrorBecomesMessage(t *testing.T) {
	engine := &MockGameEngine{moveError: &game.Error{Code: game.CodeBlocked, Message: "the way is blocked"}}
	handlers, broadcaster, _ := newHandlers(engine)

	if err := handlers.HandleRequestMove(protocol.RequestMove{DX: -1}); err != nil {
		t.Fatalf("Rule rejections should not be errors, got %v", err)
	}

	assertTypes(t, broadcaster.Types(), protocol.PatchMessage)
	msg := broadcaster.events[0].Payload.(protocol.Message)
	if msg.Code != game.CodeBlocked || !msg.Error {
		t.Errorf("Unexpected message %+v", msg)
	}
}

func TestSessionHandlers_InternalErrorIsReturned(t *testing.T) {
	boom := errors.New("generator exploded")
	engine := &MockGameEngine{moveError: boom}
	handlers, broadcaster, logger := newHandlers(engine)

	if err := handlers.HandleRequestMove(protocol.RequestMove{DX: 1}); !errors.Is(err, boom) {
		t.Fatalf("Expected %v, got %v", boom, err)
	}
	if len(broadcaster.events) != 0 || len(logger.logs) == 0 {
		t.Errorf("Expected a log line and no events")
	}
}

func TestSessionHandlers_HandleRequestInteract(t *testing.T) {
	engine := &MockGameEngine{puzzle: &game.PuzzleStart{
		Door:   geometry.Point{X: 6, Y: 3},
		Melody: []dungeon.Note{dungeon.NoteE, dungeon.NoteG},
	}}
	handlers, broadcaster, _ := newHandlers(engine)

	if err := handlers.HandleRequestInteract(protocol.RequestInteract{}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	assertTypes(t, broadcaster.Types(), protocol.PatchPuzzleStarted)
	started := broadcaster.events[0].Payload.(protocol.PuzzleStarted)
	if started.Door != (protocol.Tile{X: 6, Y: 3}) || len(started.Melody) != 2 || started.Melody[1] != "G" {
		t.Errorf("Unexpected PuzzleStarted %+v", started)
	}
}

func TestSessionHandlers_HandleRequestPlayNote(t *testing.T) {
	tests := []struct {
		name   string
		result *game.NoteResult
		want   []string
	}{
		{
			name:   "correct note",
			result: &game.NoteResult{Note: dungeon.NoteC, Input: []dungeon.Note{dungeon.NoteC}, Expected: 2},
			want:   []string{protocol.PatchPuzzleInput},
		},
		{
			name:   "wrong note",
			result: &game.NoteResult{Note: dungeon.NoteD, Failed: true, Melody: []dungeon.Note{dungeon.NoteC, dungeon.NoteD}},
			want:   []string{protocol.PatchPuzzleFailed},
		},
		{
			name:   "last note unlocks",
			result: &game.NoteResult{Note: dungeon.NoteD, Unlocked: true, Door: geometry.Point{X: 4, Y: 2}},
			want:   []string{protocol.PatchPuzzleInput, protocol.PatchDoorUnlocked},
		},
		{
			name:   "echo",
			result: &game.NoteResult{Note: dungeon.NoteA, Echo: true},
			want:   []string{protocol.PatchPuzzleInput},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine := &MockGameEngine{noteResult: tc.result}
			handlers, broadcaster, _ := newHandlers(engine)

			if err := handlers.HandleRequestPlayNote(protocol.RequestPlayNote{Note: "1"}); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if engine.playedNote != dungeon.NoteC {
				t.Errorf("Key 1 should map to C, got %q", engine.playedNote)
			}
			assertTypes(t, broadcaster.Types(), tc.want...)
		})
	}
}

func TestSessionHandlers_HandleRequestPlayNote_UnknownNote(t *testing.T) {
	engine := &MockGameEngine{}
	handlers, broadcaster, _ := newHandlers(engine)

	if err := handlers.HandleRequestPlayNote(protocol.RequestPlayNote{Note: "Z"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	assertTypes(t, broadcaster.Types(), protocol.PatchMessage)
	if engine.playedNote != "" {
		t.Errorf("Engine should not see an unknown note")
	}
}

func TestSessionHandlers_HandleRequestNewGame(t *testing.T) {
	engine := &MockGameEngine{snapshot: protocol.Snapshot{Level: 1}}
	handlers, broadcaster, _ := newHandlers(engine)

	if err := handlers.HandleRequestNewGame(protocol.RequestNewGame{}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if engine.restartLevel != 1 {
		t.Errorf("Level 0 should restart at the start level, got %d", engine.restartLevel)
	}
	assertTypes(t, broadcaster.Types(), protocol.PatchLevelLoaded)

	if err := handlers.HandleRequestNewGame(protocol.RequestNewGame{Level: 4}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if engine.restartLevel != 4 {
		t.Errorf("Expected restart at level 4, got %d", engine.restartLevel)
	}
}

func TestSessionHandlers_HandleWebSocketMessage(t *testing.T) {
	engine := &MockGameEngine{
		moveResult: &game.MoveResult{To: geometry.Point{X: 1, Y: 2}},
		melodyErr:  &game.Error{Code: game.CodeNoPuzzle, Message: "no melody is playing"},
	}
	handlers, broadcaster, logger := newHandlers(engine)

	moveMsg, _ := json.Marshal(protocol.IntentEnvelope{
		Type:    protocol.IntentMove,
		Payload: json.RawMessage(`{"dx":0,"dy":1}`),
	})
	if err := handlers.HandleWebSocketMessage(moveMsg); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := handlers.HandleWebSocketMessage([]byte(`{"type":"RequestMelodyPlayed"}`)); err != nil {
		t.Fatalf("Expected no error for empty payload, got %v", err)
	}
	if err := handlers.HandleWebSocketMessage([]byte(`{"type":"RequestDance","payload":{}}`)); err != nil {
		t.Fatalf("Unknown types should be ignored, got %v", err)
	}
	if err := handlers.HandleWebSocketMessage([]byte(`not json`)); err == nil {
		t.Errorf("Expected an error for malformed JSON")
	}
	if err := handlers.HandleWebSocketMessage([]byte(`{"type":"RequestMove","payload":{"dx":"left"}}`)); err == nil {
		t.Errorf("Expected an error for a malformed payload")
	}

	assertTypes(t, broadcaster.Types(), protocol.PatchPlayerMoved, protocol.PatchMessage)
	if len(logger.logs) == 0 {
		t.Errorf("Expected the unknown type to be logged")
	}
}
