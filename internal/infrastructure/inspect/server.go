// Package inspect serves a read-only HTTP view of the running session: the
// latest extracted page state, the compacted document markup, and a viewport
// screenshot. It exists for operators debugging a session, not for control.
package inspect

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
)

// PageSource is the slice of the browser surface the server reads from. The
// page URL is not part of it; the recorded state already carries the URL
// captured at extraction time.
type PageSource interface {
	Screenshot(ctx context.Context) ([]byte, error)
	HTML(ctx context.Context) (string, error)
}

type Server struct {
	src       PageSource
	compactor *Compactor
	log       output.LoggerPort

	mu        sync.RWMutex
	lastState *entity.PageState
}

func NewServer(src PageSource, log output.LoggerPort) *Server {
	return &Server{
		src:       src,
		compactor: NewCompactor(DefaultCompactConfig()),
		log:       log,
	}
}

// RecordPageState stores the latest extraction payload for serving, filling
// in the compacted document markup alongside it.
func (s *Server) RecordPageState(state *entity.PageState) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if raw, err := s.src.HTML(ctx); err == nil {
		state.CleanedHTML = s.compactor.Compact(raw)
	} else {
		s.log.Debug("failed to read document markup", "error", err)
	}

	s.mu.Lock()
	s.lastState = state
	s.mu.Unlock()
}

func (s *Server) Handler() http.Handler {
	requestLogger := httplog.NewLogger("page-pilot-inspect", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(requestLogger))

	r.Get("/state", s.handleState)
	r.Get("/html", s.handleHTML)
	r.Get("/screenshot", s.handleScreenshot)
	return r
}

// Serve runs the server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()
	s.log.Info("inspect server listening", "addr", addr)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	state := s.lastState
	s.mu.RUnlock()

	if state == nil {
		http.Error(w, "no extraction yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		s.log.Error("failed to encode page state", "error", err)
	}
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	raw, err := s.src.HTML(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.compactor.Compact(raw)))
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	img, err := s.src.Screenshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = w.Write(img)
}
