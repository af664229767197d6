// Package http exposes a workspace over a JSON API with a Server-Sent Events
// stream of engine frames.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/robotstudio"
	"github.com/aretw0/robotstudio/internal/logging"
	"github.com/aretw0/robotstudio/internal/presentation/graph"
	"github.com/aretw0/robotstudio/pkg/catalog"
	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/aretw0/robotstudio/pkg/program"
	"github.com/aretw0/robotstudio/pkg/workspace"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps request bodies, program documents included.
const maxBodyBytes = 1 << 20

// Server serves one workspace.
type Server struct {
	Workspace *workspace.Workspace
	Streams   *StreamManager
	Gatherer  prometheus.Gatherer
	Logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStreams sets the stream manager backing GET /events. Its Hooks must be
// installed on the workspace's engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithGatherer exposes g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewServer creates a server for ws.
func NewServer(ws *workspace.Workspace, opts ...Option) *Server {
	s := &Server{
		Workspace: ws,
		Logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.Logger)
	}
	return s
}

// NewHandler creates a new HTTP handler for the workspace.
func NewHandler(ws *workspace.Workspace, opts ...Option) http.Handler {
	return NewServer(ws, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/catalog", s.GetCatalog)

	r.Route("/blocks", func(r chi.Router) {
		r.Get("/", s.ListBlocks)
		r.Post("/", s.AddBlock)
		r.Put("/{id}", s.UpdateBlock)
		r.Delete("/{id}", s.RemoveBlock)
		r.Post("/{id}/move", s.MoveBlock)
	})

	r.Route("/config", func(r chi.Router) {
		r.Get("/", s.GetConfig)
		r.Patch("/", s.PatchConfig)
		r.Post("/preset", s.ApplyPreset)
		r.Put("/sensors/{name}", s.FitSensor)
		r.Delete("/sensors/{name}", s.RemoveSensor)
	})

	r.Get("/program", s.GetProgram)
	r.Put("/program", s.PutProgram)
	r.Get("/graph", s.GetGraph)

	r.Post("/run", s.Run)
	r.Post("/stop", s.Stop)
	r.Get("/state", s.GetState)
	r.Get("/log", s.GetLog)
	r.Get("/events", s.SubscribeEvents)

	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "robotstudio-http",
		"version": strings.TrimSpace(robotstudio.Version),
	})
}

// CatalogGroup is one palette section.
type CatalogGroup struct {
	Category  catalog.Category   `json:"category"`
	Title     string             `json:"title"`
	Templates []catalog.Template `json:"templates"`
}

// GetCatalog handles the GET /catalog request.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	var groups []CatalogGroup
	for _, c := range catalog.Categories() {
		groups = append(groups, CatalogGroup{Category: c, Title: c.Title(), Templates: catalog.Templates(c)})
	}
	s.writeJSON(w, http.StatusOK, groups)
}

// ListBlocks handles the GET /blocks request.
func (s *Server) ListBlocks(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Workspace.Blocks())
}

// AddBlockRequest names the catalog template to instantiate.
type AddBlockRequest struct {
	Category catalog.Category `json:"category"`
	Type     domain.BlockType `json:"type"`
}

// AddBlock handles the POST /blocks request.
func (s *Server) AddBlock(w http.ResponseWriter, r *http.Request) {
	var body AddBlockRequest
	if !s.decode(w, r, &body) {
		return
	}
	block, err := s.Workspace.AddBlock(body.Category, body.Type)
	if err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusCreated, block)
}

// UpdateBlockRequest carries a new block parameter. A null value clears it.
type UpdateBlockRequest struct {
	Value any `json:"value"`
}

// UpdateBlock handles the PUT /blocks/{id} request.
func (s *Server) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	var body UpdateBlockRequest
	if !s.decode(w, r, &body) {
		return
	}
	if err := s.Workspace.UpdateBlock(chi.URLParam(r, "id"), body.Value); err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveBlock handles the DELETE /blocks/{id} request.
func (s *Server) RemoveBlock(w http.ResponseWriter, r *http.Request) {
	if err := s.Workspace.RemoveBlock(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveBlockRequest is the target position, 0-based.
type MoveBlockRequest struct {
	Index int `json:"index"`
}

// MoveBlock handles the POST /blocks/{id}/move request.
func (s *Server) MoveBlock(w http.ResponseWriter, r *http.Request) {
	var body MoveBlockRequest
	if !s.decode(w, r, &body) {
		return
	}
	if err := s.Workspace.MoveBlock(chi.URLParam(r, "id"), body.Index); err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Workspace.Blocks())
}

// GetConfig handles the GET /config request.
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Workspace.Config())
}

// PatchConfig handles the PATCH /config request. The body is a partial
// configuration keyed by field name.
func (s *Server) PatchConfig(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if !s.decode(w, r, &updates) {
		return
	}
	cfg, err := s.Workspace.UpdateConfig(updates)
	if err != nil {
		s.writeError(w, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, cfg)
}

// ApplyPreset handles the POST /config/preset request.
func (s *Server) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.Workspace.ApplyPreset()
	if err != nil {
		s.writeError(w, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, cfg)
}

// FitSensor handles the PUT /config/sensors/{name} request.
func (s *Server) FitSensor(w http.ResponseWriter, r *http.Request) {
	s.setSensor(w, r, true)
}

// RemoveSensor handles the DELETE /config/sensors/{name} request.
func (s *Server) RemoveSensor(w http.ResponseWriter, r *http.Request) {
	s.setSensor(w, r, false)
}

func (s *Server) setSensor(w http.ResponseWriter, r *http.Request, fitted bool) {
	cfg, err := s.Workspace.SetSensor(chi.URLParam(r, "name"), fitted)
	if err != nil {
		s.writeError(w, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, cfg)
}

// GetProgram handles the GET /program request, returning a YAML document.
func (s *Server) GetProgram(w http.ResponseWriter, r *http.Request) {
	data, err := program.Marshal(s.Workspace.Program())
	if err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(data)
}

// ProgramResponse reports a loaded program and its validation issues.
type ProgramResponse struct {
	Blocks []domain.Block  `json:"blocks"`
	Issues []program.Issue `json:"issues,omitempty"`
}

// PutProgram handles the PUT /program request. The body is a YAML program
// that replaces the workspace contents.
func (s *Server) PutProgram(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to read program: %w", err), http.StatusBadRequest)
		return
	}
	prog, err := program.Parse(data)
	if err != nil {
		s.writeError(w, err, http.StatusBadRequest)
		return
	}
	issues := program.Validate(prog.Blocks)
	if program.HasErrors(issues) {
		s.writeJSON(w, http.StatusUnprocessableEntity, ProgramResponse{Blocks: prog.Blocks, Issues: issues})
		return
	}
	if err := s.Workspace.Load(prog); err != nil {
		s.writeError(w, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, ProgramResponse{Blocks: s.Workspace.Blocks(), Issues: issues})
}

// GetGraph handles the GET /graph request, returning a Mermaid flowchart.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(s.Workspace.Blocks(), nil))
}

// RunResponse identifies a started run.
type RunResponse struct {
	RunID      string `json:"run_id"`
	Generation uint64 `json:"generation"`
}

// Run handles the POST /run request.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	run, err := s.Workspace.Run()
	if err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}
	s.Logger.Info("run requested", "run", run.ID, "generation", run.Generation)
	s.writeJSON(w, http.StatusAccepted, RunResponse{RunID: run.ID, Generation: run.Generation})
}

// Stop handles the POST /stop request.
func (s *Server) Stop(w http.ResponseWriter, r *http.Request) {
	s.Workspace.Stop()
	s.writeJSON(w, http.StatusOK, s.view())
}

// StateResponse is the renderer view plus the stats overlay.
type StateResponse struct {
	workspace.View
	Overlay []string `json:"overlay"`
}

func (s *Server) view() StateResponse {
	v := s.Workspace.View()
	return StateResponse{View: v, Overlay: workspace.OverlayLines(v)}
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.view())
}

// GetLog handles the GET /log request.
func (s *Server) GetLog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"lines": s.Workspace.Log()})
}

// SubscribeEvents handles the GET /events request (SSE). The optional watch
// query parameter filters events, see Watch.Match.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	watch := ParseWatch(r.URL.Query().Get("watch"))
	events, cancel := s.Streams.Subscribe()
	defer cancel()
	s.Logger.Info("SSE: client subscribed", "watch", watch)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: client disconnected")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !watch.Match(ev) {
				continue
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				s.Logger.Error("SSE: encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: frame\ndata: %s\n\n", ev.Sequence, payload)
			flusher.Flush()
		}
	}
}

// -- Helpers --

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error, fallback int) int {
	switch {
	case errors.Is(err, domain.ErrBlockNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRunActive):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownTemplate),
		errors.Is(err, domain.ErrUnknownArchetype),
		errors.Is(err, domain.ErrEmptyProgram):
		return http.StatusBadRequest
	}
	return fallback
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		s.Logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error, fallback int) {
	status := statusOf(err, fallback)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
