// Package server exposes the knowledge base, the refresh scheduler and
// project checks over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness and package count
//	GET  /status           scheduler status
//	POST /update           force an update (409 while one runs, 502 on failure)
//	GET  /packages         deprecated package names, or records matching ?q=
//	GET  /packages/{name}  one record, 404 when the package is not deprecated
//	GET  /stats            knowledge base statistics
//	POST /check            {"path": "..."} checks a local project
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/julicq/is-deprecated-or-not/pkg/checker"
	"github.com/julicq/is-deprecated-or-not/pkg/collector"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
	"github.com/julicq/is-deprecated-or-not/pkg/scheduler"
)

// Updater is the part of the scheduler the API drives.
type Updater interface {
	Update(ctx context.Context) error
	Status() scheduler.Status
}

// Snapshots supplies the active knowledge base.
type Snapshots interface {
	Current() *kb.Snapshot
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Store     Snapshots
	Scheduler Updater
	Checker   *checker.Checker
	Logger    *log.Logger
}

// Server wraps an http.Server serving the API.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New returns a server listening on addr.
func New(addr string, d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	d.Logger = logger
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(d),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("api listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewRouter builds the route table.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	h := &handlers{Deps: d}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(d.Logger))

	r.Get("/healthz", h.health)
	r.Get("/status", h.status)
	r.Post("/update", h.update)
	r.Get("/packages", h.listPackages)
	r.Get("/packages/{name}", h.getPackage)
	r.Get("/stats", h.stats)
	r.Post("/check", h.check)
	return r
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("api request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

type handlers struct {
	Deps
}

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"packages": h.Store.Current().Len(),
	})
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeUnsupported, "scheduler not configured"))
		return
	}
	writeJSON(w, http.StatusOK, h.Scheduler.Status())
}

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeUnsupported, "scheduler not configured"))
		return
	}
	err := h.Scheduler.Update(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"updated":  true,
			"packages": h.Store.Current().Len(),
		})
	case errors.Is(err, errors.ErrCodeUpdateInProgress):
		writeError(w, http.StatusConflict, err)
	default:
		h.Logger.Warn("forced update failed", "err", err)
		writeError(w, http.StatusBadGateway, err)
	}
}

func (h *handlers) listPackages(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Current()
	if q := r.URL.Query().Get("q"); q != "" {
		found := snap.Search(q)
		if found == nil {
			found = []kb.Record{}
		}
		writeJSON(w, http.StatusOK, found)
		return
	}
	writeJSON(w, http.StatusOK, snap.Names())
}

func (h *handlers) getPackage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, ok := h.Store.Current().Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodePackageNotFound, "package %q is not in the knowledge base", name))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, collector.StatisticsOf(h.Store.Current()))
}

type checkRequest struct {
	Path string `json:"path"`
}

func (h *handlers) check(w http.ResponseWriter, r *http.Request) {
	if h.Checker == nil {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeUnsupported, "checker not configured"))
		return
	}
	var req checkRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode check request"))
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "path is required"))
		return
	}

	format := checker.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		parsed, err := checker.ParseFormat(f)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		format = parsed
	}

	result, err := h.Checker.CheckProject(r.Context(), req.Path)
	if err != nil {
		writeError(w, checkStatus(err), err)
		return
	}
	report, err := checker.GenerateReport(result, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	switch format {
	case checker.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case checker.FormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, report)
}

func checkStatus(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeFileNotFound, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidPath, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidManifest, errors.ErrCodeParse:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
