package main

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Ko-stant/melody-dungeon/internal/config"
	"github.com/Ko-stant/melody-dungeon/internal/dungeon"
	"github.com/Ko-stant/melody-dungeon/internal/game"
	"github.com/Ko-stant/melody-dungeon/internal/protocol"
	"github.com/Ko-stant/melody-dungeon/internal/web/views"
	"github.com/Ko-stant/melody-dungeon/internal/ws"
)

// Server owns the hub and hands every connection its own session and
// generator.
type Server struct {
	cfg    config.Config
	hub    *ws.Hub
	logger Logger
}

func NewServer(cfg config.Config, logger Logger) *Server {
	return &Server{
		cfg:    cfg,
		hub:    ws.NewHub(cfg.Server.WriteTimeout),
		logger: logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/stream", s.handleStream)
	r.HandleFunc("/api/levels/{level:[0-9-]+}", s.handleLevel).Methods(http.MethodGet)
	r.Use(s.requestLogger)
	return r
}

func (s *Server) newSession() (*game.Session, error) {
	gen, err := dungeon.NewGenerator(s.cfg.Dungeon, s.logger)
	if err != nil {
		return nil, err
	}
	return game.NewSession(gen, s.cfg.Game.StartLevel, s.logger)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.newSession()
	if err != nil {
		s.logger.Printf("index: %v", err)
		http.Error(w, "failed to build level", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.IndexPage(sess.Snapshot(), sess.Level().String()).Render(r.Context(), w); err != nil {
		s.logger.Printf("render index: %v", err)
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	sess, err := s.newSession()
	if err != nil {
		s.logger.Printf("stream: %v", err)
		_ = conn.Close(websocket.StatusInternalError, "failed to build level")
		return
	}

	id := uuid.NewString()
	s.hub.Add(id, conn)
	defer s.hub.Remove(id)
	s.logger.Printf("session %s connected (%d open)", id, s.hub.Count())

	handlers := NewSessionHandlers(sess, NewSessionBroadcaster(s.hub, id, NewSequenceGenerator(), s.logger), s.logger, s.cfg.Game.StartLevel)
	handlers.SendLevel()

	for {
		_, data, err := conn.Read(r.Context())
		if err != nil {
			s.logger.Printf("session %s closed: %v", id, websocket.CloseStatus(err))
			return
		}
		if err := handlers.HandleWebSocketMessage(data); err != nil {
			s.logger.Printf("session %s: %v", id, err)
		}
	}
}

// LevelResponse is the debug preview of one generated level.
type LevelResponse struct {
	Dungeon     *dungeon.Level `json:"dungeon"`
	Verified    bool           `json:"verified"`
	VerifyError string         `json:"verifyError,omitempty"`
	Sections    int            `json:"sections"`
	Map         string         `json:"map"`
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(mux.Vars(r)["level"])
	if err != nil || level < 1 {
		writeError(w, http.StatusBadRequest, "INVALID_LEVEL", "level must be a positive integer")
		return
	}

	gen, err := dungeon.NewGenerator(s.cfg.Dungeon, s.logger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "CONFIG", err.Error())
		return
	}

	var lvl *dungeon.Level
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SEED", "seed must be an integer")
			return
		}
		lvl, err = gen.GenerateSeeded(level, seed)
	} else {
		lvl, err = gen.Generate(level)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "GENERATION_FAILED", err.Error())
		return
	}

	resp := LevelResponse{Dungeon: lvl, Verified: true, Sections: lvl.Sections(), Map: lvl.String()}
	if verr := dungeon.Verify(lvl); verr != nil {
		resp.Verified = false
		resp.VerifyError = verr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Notify sends a server notice to every connected client.
func (s *Server) Notify(text string) {
	data, err := marshalPatch(0, protocol.PatchMessage, protocol.Message{Text: text})
	if err != nil {
		s.logger.Printf("notify: %v", err)
		return
	}
	s.hub.Broadcast(data)
}

// Close notifies and disconnects every client.
func (s *Server) Close(reason string) {
	s.Notify(reason)
	s.hub.CloseAll(reason)
}

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Hijack lets the WebSocket upgrade through the logger.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		s.logger.Printf("http %s %s status=%d bytes=%d dur=%s",
			r.Method, r.URL.Path, sw.status, sw.bytes, time.Since(start).Round(time.Millisecond))
	})
}
