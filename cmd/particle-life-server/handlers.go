package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/olivierh59500/particle-life/internal/life"
	"github.com/olivierh59500/particle-life/internal/logging"
	"github.com/olivierh59500/particle-life/internal/stream"
)

// maxRelationsBody bounds a PUT /relations body. A full table at the
// species limit is well under 4 KiB.
const maxRelationsBody = 64 << 10

// Server exposes one engine over HTTP and websocket.
type Server struct {
	engine *life.Engine
	hub    *stream.Hub
	logger *logging.Logger
}

// NewServer wires the handlers for e.
func NewServer(e *life.Engine, hub *stream.Hub, logger *logging.Logger) *Server {
	return &Server{engine: e, hub: hub, logger: logger}
}

// Routes returns the HTTP handler tree.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /frame", s.handleFrame)
	mux.HandleFunc("GET /relations", s.handleGetRelations)
	mux.HandleFunc("PUT /relations", s.handlePutRelations)
	mux.HandleFunc("POST /control", s.handleControl)
	mux.Handle("GET /ws", s.hub)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// GET /frame
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Snapshot())
}

// GET /relations
func (s *Server) handleGetRelations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Relations())
}

// PUT /relations
// Body: [[...], [...]] square table; the species count follows its size.
func (s *Server) handlePutRelations(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRelationsBody)
	defer r.Body.Close()
	m := &life.RelationMatrix{}
	if err := json.NewDecoder(r.Body).Decode(m); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "relations body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid relations: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.engine.AdoptRelations(m); err != nil {
		s.logger.Warnf("rejected relations from %s: %v", r.RemoteAddr, err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.logger.Infof("adopted %dx%d relations from %s", m.Size(), m.Size(), r.RemoteAddr)
	writeJSON(w, s.engine.Relations())
}

// POST /control
// Body: {"type": "friction", "value": 0.3}
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var msg stream.Control
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := stream.Apply(s.engine, msg); err != nil {
		s.logger.Warnf("rejected control %q from %s: %v", msg.Type, r.RemoteAddr, err)
		status := http.StatusUnprocessableEntity
		if errors.Is(err, stream.ErrUnknownControl) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, s.engine.Config())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}
