package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/inkmap"
	"github.com/aretw0/inkmap/internal/logging"
	"github.com/aretw0/inkmap/internal/runtime"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies. A long freehand trace is a few thousand points.
const maxBodyBytes = 4 << 20

// SaveRequest is the body of POST /add_coordinates/.
type SaveRequest struct {
	WordID      domain.WordID      `json:"word_id"`
	Coordinates domain.Coordinates `json:"coordinates"`
}

// DeleteRequest is the body of POST /delete_coordinate/.
type DeleteRequest struct {
	WordID domain.WordID `json:"word_id"`
}

// CoordinatesResponse is the body of GET /coordinates/{word_id}/.
// Coordinates is null when the word has nothing persisted.
type CoordinatesResponse struct {
	Coordinates domain.Coordinates `json:"coordinates"`
}

// WordsResponse is the body of GET /words/.
type WordsResponse struct {
	Words []domain.WordID `json:"words"`
}

// StitchRequest is the body of POST /stitch/.
type StitchRequest struct {
	Strokes []domain.Stroke `json:"strokes"`
}

// Update is broadcast to subscribers of a word after a save or delete.
type Update struct {
	WordID      domain.WordID      `json:"word_id"`
	Coordinates domain.Coordinates `json:"coordinates"`
}

// Server serves the coordinate API over a CoordinateStore.
type Server struct {
	Store    ports.CoordinateStore
	Streams  *StreamManager
	Logger   *slog.Logger
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithGatherer exposes the given registry on /metrics instead of the default one.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithStreams shares a StreamManager, e.g. with an in-process session.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// NewHandler creates a new HTTP handler for the store.
func NewHandler(store ports.CoordinateStore, opts ...Option) http.Handler {
	server := &Server{
		Store:    store,
		gatherer: prometheus.DefaultGatherer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Logger == nil {
		server.Logger = logging.NewNop()
	}
	if server.Streams == nil {
		server.Streams = NewStreamManager(server.Logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))

	r.Post("/add_coordinates/", server.SaveCoordinates)
	r.Get("/coordinates/{word_id}/", server.GetCoordinates)
	r.Post("/delete_coordinate/", server.DeleteCoordinates)
	r.Get("/words/", server.ListWords)
	r.Post("/stitch/", server.Stitch)

	r.Get("/events", server.SubscribeEvents)
	r.Get("/ws/coordinates/{word_id}", server.SubscribeSocket)
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SaveCoordinates handles POST /add_coordinates/.
func (s *Server) SaveCoordinates(w http.ResponseWriter, r *http.Request) {
	var body SaveRequest
	if !s.decode(w, r, &body) {
		return
	}
	if err := body.WordID.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body.Coordinates) == 0 {
		http.Error(w, "coordinates are required", http.StatusBadRequest)
		return
	}

	if err := s.Store.Save(r.Context(), body.WordID, body.Coordinates); err != nil {
		s.fail(w, "save", err)
		return
	}
	s.broadcast(Update{WordID: body.WordID, Coordinates: body.Coordinates})
	writeJSON(w, s.Logger, map[string]string{"status": "ok"})
}

// GetCoordinates handles GET /coordinates/{word_id}/.
func (s *Server) GetCoordinates(w http.ResponseWriter, r *http.Request) {
	wordID := domain.WordID(chi.URLParam(r, "word_id"))
	if err := wordID.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	coords, err := s.Store.Load(r.Context(), wordID)
	switch {
	case errors.Is(err, domain.ErrWordNotFound):
		coords = nil
	case err != nil:
		s.fail(w, "load", err)
		return
	}
	writeJSON(w, s.Logger, CoordinatesResponse{Coordinates: coords})
}

// DeleteCoordinates handles POST /delete_coordinate/.
func (s *Server) DeleteCoordinates(w http.ResponseWriter, r *http.Request) {
	var body DeleteRequest
	if !s.decode(w, r, &body) {
		return
	}
	if err := body.WordID.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.Store.Delete(r.Context(), body.WordID); err != nil {
		s.fail(w, "delete", err)
		return
	}
	s.broadcast(Update{WordID: body.WordID})
	writeJSON(w, s.Logger, map[string]string{"status": "ok"})
}

// ListWords handles GET /words/.
func (s *Server) ListWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, "list", err)
		return
	}
	if words == nil {
		words = []domain.WordID{}
	}
	writeJSON(w, s.Logger, WordsResponse{Words: words})
}

// Stitch handles POST /stitch/: it orders the given strokes into one path
// without persisting anything.
func (s *Server) Stitch(w http.ResponseWriter, r *http.Request) {
	var body StitchRequest
	if !s.decode(w, r, &body) {
		return
	}
	for i, st := range body.Strokes {
		if len(st.Path) == 0 {
			http.Error(w, fmt.Sprintf("stroke %d has an empty path", i), http.StatusBadRequest)
			return
		}
	}
	coords := domain.FromPoints(runtime.Order(body.Strokes))
	writeJSON(w, s.Logger, CoordinatesResponse{Coordinates: coords})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, map[string]string{
		"app":     "inkmap-http",
		"version": strings.TrimSpace(inkmap.Version),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrInvalidWordID) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
	s.Logger.Error("store operation failed", "op", op, "error", err)
}

func (s *Server) broadcast(u Update) {
	data, err := json.Marshal(u)
	if err != nil {
		s.Logger.Error("update encode failed", "error", err)
		return
	}
	s.Streams.Broadcast(string(u.WordID), string(data))
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}

// AllWords is the subscription key that receives the updates of every word.
// It is empty, which no valid word id can be.
const AllWords = ""

// StreamManager fans out updates to the subscribers of each word and to the
// AllWords subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // WordID -> set of channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe(wordID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[wordID]; !ok {
		sm.subscribers[wordID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[wordID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[wordID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, wordID)
				}
			}
		})
	}
}

func (sm *StreamManager) Broadcast(wordID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.send(wordID, wordID, msg)
	if wordID != AllWords {
		sm.send(AllWords, wordID, msg)
	}
}

// send must be called with sm.mu held.
func (sm *StreamManager) send(key, wordID, msg string) {
	for ch := range sm.subscribers[key] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("subscriber buffer full, dropping update", "word_id", wordID)
		}
	}
}

// SubscribeEvents handles GET /events?word_id=... (SSE). Without word_id the
// stream carries the updates of every word.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	wordID := r.URL.Query().Get("word_id")
	if wordID != AllWords {
		if err := domain.WordID(wordID).Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(wordID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: update\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// SubscribeSocket handles GET /ws/coordinates/{word_id}. The current
// coordinates are sent first, then every update until the peer disconnects.
func (s *Server) SubscribeSocket(w http.ResponseWriter, r *http.Request) {
	wordID := domain.WordID(chi.URLParam(r, "word_id"))
	if err := wordID.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ch, cancel := s.Streams.Subscribe(string(wordID))
	defer cancel()

	current := Update{WordID: wordID}
	if coords, err := s.Store.Load(r.Context(), wordID); err == nil {
		current.Coordinates = coords
	}
	if err := conn.WriteJSON(current); err != nil {
		return
	}

	// Reader goroutine: detects the peer closing the socket.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				s.Logger.Debug("websocket write failed", "word_id", string(wordID), "error", err)
				return
			}
		}
	}
}
