package main

import (
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/Ko-stant/melody-dungeon/internal/dungeon"
	"github.com/Ko-stant/melody-dungeon/internal/game"
	"github.com/Ko-stant/melody-dungeon/internal/protocol"
	"github.com/Ko-stant/melody-dungeon/internal/ws"
)

// SessionBroadcaster implements Broadcaster for a single hub client
type SessionBroadcaster struct {
	hub      *ws.Hub
	id       string
	sequence SequenceGenerator
	logger   Logger
}

func NewSessionBroadcaster(hub *ws.Hub, id string, sequence SequenceGenerator, logger Logger) *SessionBroadcaster {
	return &SessionBroadcaster{
		hub:      hub,
		id:       id,
		sequence: sequence,
		logger:   logger,
	}
}

func (b *SessionBroadcaster) BroadcastEvent(eventType string, payload any) {
	data, err := marshalPatch(b.sequence.Next(), eventType, payload)
	if err != nil {
		b.logger.Printf("failed to marshal %s: %v", eventType, err)
		return
	}
	if err := b.hub.Send(b.id, data); err != nil {
		b.logger.Printf("session %s: send %s: %v", b.id, eventType, err)
	}
}

func marshalPatch(seq uint64, eventType string, payload any) ([]byte, error) {
	return json.Marshal(protocol.PatchEnvelope{
		Sequence: seq,
		Type:     eventType,
		Payload:  payload,
	})
}

// LoggerImpl implements Logger using standard log package
type LoggerImpl struct{}

func NewLogger() *LoggerImpl {
	return &LoggerImpl{}
}

func (l *LoggerImpl) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

// SequenceGeneratorImpl implements SequenceGenerator using atomic counter
type SequenceGeneratorImpl struct {
	counter uint64
}

func NewSequenceGenerator() *SequenceGeneratorImpl {
	return &SequenceGeneratorImpl{}
}

func (sg *SequenceGeneratorImpl) Next() uint64 {
	return atomic.AddUint64(&sg.counter, 1)
}

// SessionHandlers turns intents into engine calls and engine results into
// patches. Rule rejections become Message patches, not errors.
type SessionHandlers struct {
	engine      GameEngine
	broadcaster Broadcaster
	logger      Logger
	startLevel  int
}

func NewSessionHandlers(engine GameEngine, broadcaster Broadcaster, logger Logger, startLevel int) *SessionHandlers {
	return &SessionHandlers{
		engine:      engine,
		broadcaster: broadcaster,
		logger:      logger,
		startLevel:  startLevel,
	}
}

func (h *SessionHandlers) SendLevel() {
	h.broadcaster.BroadcastEvent(protocol.PatchLevelLoaded, protocol.LevelLoaded{Snapshot: h.engine.Snapshot()})
}

func (h *SessionHandlers) reject(action string, err error) error {
	ge, ok := asGameError(err)
	if !ok {
		h.logger.Printf("%s failed: %v", action, err)
		return err
	}
	h.broadcaster.BroadcastEvent(protocol.PatchMessage, protocol.Message{Text: ge.Message, Code: ge.Code, Error: true})
	return nil
}

func (h *SessionHandlers) HandleRequestMove(req protocol.RequestMove) error {
	result, err := h.engine.Move(req.DX, req.DY)
	if err != nil {
		return h.reject("Move", err)
	}
	if result.PuzzleBlocked {
		return nil
	}

	h.broadcaster.BroadcastEvent(protocol.PatchPlayerMoved, protocol.PlayerMoved{
		From: game.TileOf(result.From),
		To:   game.TileOf(result.To),
	})

	if result.Collected != "" {
		h.broadcaster.BroadcastEvent(protocol.PatchNoteCollected, protocol.NoteCollected{
			Note:      string(result.Collected),
			Tile:      game.TileOf(result.To),
			Collected: h.engine.CollectedNames(),
		})
	}

	if result.Completed {
		h.broadcaster.BroadcastEvent(protocol.PatchLevelCompleted, protocol.LevelCompleted{
			Level: result.CompletedNum,
			Score: h.engine.Score(),
			Next:  result.NextLevelNum,
		})
		h.SendLevel()
	}
	return nil
}

func (h *SessionHandlers) HandleRequestInteract(req protocol.RequestInteract) error {
	start, err := h.engine.Interact()
	if err != nil {
		return h.reject("Interact", err)
	}
	h.broadcaster.BroadcastEvent(protocol.PatchPuzzleStarted, protocol.PuzzleStarted{
		Door:   game.TileOf(start.Door),
		Melody: game.NoteNames(start.Melody),
	})
	return nil
}

func (h *SessionHandlers) HandleRequestMelodyPlayed(req protocol.RequestMelodyPlayed) error {
	if err := h.engine.MelodyPlayed(); err != nil {
		return h.reject("MelodyPlayed", err)
	}
	return nil
}

func (h *SessionHandlers) HandleRequestPlayNote(req protocol.RequestPlayNote) error {
	note, err := dungeon.ParseNote(req.Note)
	if err != nil {
		h.broadcaster.BroadcastEvent(protocol.PatchMessage, protocol.Message{Text: err.Error(), Error: true})
		return nil
	}

	result, err := h.engine.PlayNote(note)
	if err != nil {
		return h.reject("PlayNote", err)
	}

	if result.Failed {
		h.broadcaster.BroadcastEvent(protocol.PatchPuzzleFailed, protocol.PuzzleFailed{
			Door:   game.TileOf(result.Door),
			Melody: game.NoteNames(result.Melody),
		})
		return nil
	}

	h.broadcaster.BroadcastEvent(protocol.PatchPuzzleInput, protocol.PuzzleInput{
		Note:     string(result.Note),
		Input:    game.NoteNames(result.Input),
		Expected: result.Expected,
	})
	if result.Unlocked {
		h.broadcaster.BroadcastEvent(protocol.PatchDoorUnlocked, protocol.DoorUnlocked{Door: game.TileOf(result.Door)})
	}
	return nil
}

func (h *SessionHandlers) HandleRequestNewGame(req protocol.RequestNewGame) error {
	level := req.Level
	if level == 0 {
		level = h.startLevel
	}
	if level < 0 {
		h.broadcaster.BroadcastEvent(protocol.PatchMessage, protocol.Message{Text: fmt.Sprintf("invalid level %d", level), Error: true})
		return nil
	}
	if err := h.engine.Restart(level); err != nil {
		return h.reject("NewGame", err)
	}
	h.SendLevel()
	return nil
}

func decodePayload[T any](env protocol.IntentEnvelope) (T, error) {
	var req T
	if len(env.Payload) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		return req, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return req, nil
}

func (h *SessionHandlers) HandleWebSocketMessage(data []byte) error {
	var env protocol.IntentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	switch env.Type {
	case protocol.IntentMove:
		req, err := decodePayload[protocol.RequestMove](env)
		if err != nil {
			return err
		}
		return h.HandleRequestMove(req)

	case protocol.IntentInteract:
		req, err := decodePayload[protocol.RequestInteract](env)
		if err != nil {
			return err
		}
		return h.HandleRequestInteract(req)

	case protocol.IntentPlayNote:
		req, err := decodePayload[protocol.RequestPlayNote](env)
		if err != nil {
			return err
		}
		return h.HandleRequestPlayNote(req)

	case protocol.IntentMelodyPlayed:
		req, err := decodePayload[protocol.RequestMelodyPlayed](env)
		if err != nil {
			return err
		}
		return h.HandleRequestMelodyPlayed(req)

	case protocol.IntentNewGame:
		req, err := decodePayload[protocol.RequestNewGame](env)
		if err != nil {
			return err
		}
		return h.HandleRequestNewGame(req)

	default:
		h.logger.Printf("Unknown message type: %s", env.Type)
		return nil
	}
}
