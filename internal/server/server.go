package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/raysh454/sentaku/docs/swagger" // generated swagger docs
	"github.com/raysh454/sentaku/internal/backend"
	"github.com/raysh454/sentaku/internal/history"
	"github.com/raysh454/sentaku/internal/logging"
	"github.com/raysh454/sentaku/internal/parser"
	"github.com/raysh454/sentaku/internal/selector"
)

// Server is the HTTP + WebSocket API surface for Sentaku.
type Server struct {
	cfg      Config
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
	store    *history.Store
}

// NewServer creates a new Server with its own run history store.
func NewServer(cfg Config) (*Server, error) {
	if cfg.BackendConfig == nil {
		cfg.BackendConfig = backend.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	storageRoot, err := expandPath(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("expanding storage root path: %w", err)
	}
	cfg.StorageRoot = storageRoot
	if err := os.MkdirAll(cfg.StorageRoot, 0755); err != nil {
		logger.Warn("creating storage root directory", logging.Field{Key: "path", Value: cfg.StorageRoot}, logging.Field{Key: "error", Value: err.Error()})
	}

	store, err := history.NewStore(cfg.StorageRoot, logger)
	if err != nil {
		return nil, fmt.Errorf("creating run history store: %w", err)
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:    cfg,
		router: r,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
		store: store,
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/validate", s.optionsHandler("POST"))
	r.Options("/runs", s.optionsHandler("GET"))
	r.Options("/runs/{runID}", s.optionsHandler("GET"))
	r.Options("/ws/validate", s.optionsHandler("GET"))

	r.Get("/health", s.handleHealth)

	// Validation
	r.Post("/validate", s.handleValidate)

	// Run history
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{runID}", s.handleGetRun)

	// WebSocket for streaming per-field progress
	r.Get("/ws/validate", s.handleValidateWS)

	// API docs
	r.Get("/swagger/*", httpSwagger.Handler())
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close releases the run history store.
func (s *Server) Close() {
	if s.store != nil {
		s.store.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// --- HTTP handlers ---

// handleHealth godoc
// @Summary Liveness check
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// newBackend constructs the backend for one request; name "" falls back to
// the server default.
func (s *Server) newBackend(name string) (backend.Backend, error) {
	cfg := *s.cfg.BackendConfig
	if name != "" {
		cfg.Backend = name
	}
	return backend.New(&cfg, s.logger)
}

// runValidation executes one validation pass and persists the result,
// returning the run ID alongside.
func (s *Server) runValidation(r *http.Request, req *ValidateRequest, observe parser.Observer) (string, *parser.Result, error) {
	b, err := s.newBackend(req.Backend)
	if err != nil {
		return "", nil, err
	}
	defer b.Close()

	source, err := json.Marshal(req.Selectors)
	if err != nil {
		return "", nil, fmt.Errorf("re-encoding selectors: %w", err)
	}

	p := parser.New(b, s.logger)
	res, err := p.ParseAndValidate(r.Context(), string(source), req.HTML, observe)
	if err != nil {
		return "", nil, err
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return "", nil, fmt.Errorf("encoding result: %w", err)
	}
	runID, err := s.store.SaveRun(r.Context(), payload, res.Batch.AllValid)
	if err != nil {
		// the validation itself succeeded; report it even if persistence failed
		s.logger.Warn("saving run", logging.Field{Key: "error", Value: err.Error()})
		runID = ""
	}
	return runID, res, nil
}

// handleValidate godoc
// @Summary Classify and validate a selector payload
// @Tags validation
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "selectors plus optional HTML and backend name"
// @Success 200 {object} ValidateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /validate [post]
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	runID, res, err := s.runValidation(r, &req, nil)
	if err != nil {
		status := http.StatusInternalServerError
		if parser.IsParseError(err) {
			status = http.StatusBadRequest
		}
		s.logger.Warn("validating selectors", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, status, err.Error())
		return
	}

	payload, err := json.Marshal(res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("validated selectors",
		logging.Field{Key: "run_id", Value: runID},
		logging.Field{Key: "all_valid", Value: res.Batch.AllValid})
	writeJSON(w, http.StatusOK, ValidateResponse{RunID: runID, Result: payload})
}

// handleListRuns godoc
// @Summary List recent validation runs
// @Tags history
// @Produce json
// @Param limit query int false "maximum number of runs to return"
// @Success 200 {array} RunSummary
// @Failure 500 {object} ErrorResponse
// @Router /runs [get]
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Warn("listing runs", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, RunSummary{
			RunID:     run.ID,
			CreatedAt: run.CreatedAt,
			AllValid:  run.AllValid,
		})
	}
	s.logger.Info("listed runs", logging.Field{Key: "count", Value: len(summaries)})
	writeJSON(w, http.StatusOK, summaries)
}

// handleGetRun godoc
// @Summary Fetch one validation run
// @Tags history
// @Produce json
// @Param runID path string true "run id"
// @Success 200 {object} history.Run
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /runs/{runID} [get]
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, err := s.store.GetRun(r.Context(), runID)
	if errors.Is(err, history.ErrRunNotFound) {
		s.logger.Warn("getting run: not found", logging.Field{Key: "run_id", Value: runID})
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Warn("getting run", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("got run", logging.Field{Key: "run_id", Value: run.ID})
	writeJSON(w, http.StatusOK, run)
}

// WebSocket

func (s *Server) handleValidateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	var req ValidateRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(ErrorResponse{Error: "invalid request frame: " + err.Error()})
		return
	}

	observe := func(field string, rec *selector.Record, probe *backend.ProbeResult) {
		_ = conn.WriteJSON(FieldUpdate{Field: field, Record: rec, Probe: probe})
	}

	runID, res, err := s.runValidation(r, &req, observe)
	if err != nil {
		s.logger.Warn("validating selectors over websocket", logging.Field{Key: "error", Value: err.Error()})
		_ = conn.WriteJSON(ErrorResponse{Error: err.Error()})
		return
	}

	s.logger.Info("streamed validation run",
		logging.Field{Key: "run_id", Value: runID},
		logging.Field{Key: "all_valid", Value: res.Batch.AllValid})
	_ = conn.WriteJSON(StreamSummary{Done: true, AllValid: res.Batch.AllValid, RunID: runID})
}

func expandPath(p string) (string, error) {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}
