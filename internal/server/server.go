package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/levente-murgas/producthunt-ideator/internal/jobs"
)

// Server exposes the task submission and status endpoints over HTTP. It is
// a thin shell around the jobs runner; all pipeline logic lives behind it.
type Server struct {
	runner  *jobs.Runner
	logger  *slog.Logger
	httpSrv *http.Server

	// baseCtx bounds background job execution; set once in Start before
	// the listener accepts traffic.
	baseCtx context.Context
}

type taskOut struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type runIn struct {
	Date string `json:"date"`
}

// New builds the HTTP server for the given listen address.
func New(addr string, runner *jobs.Runner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{runner: runner, logger: logger, baseCtx: context.Background()}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/ideator", s.handleRun)
	mux.HandleFunc("/api/ideator/status", s.handleStatus)
	mux.HandleFunc("/api/ideator/publish", s.handlePublish)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.baseCtx = ctx

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("http server listening", "addr", s.httpSrv.Addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, jobs.KindRun)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, jobs.KindPublish)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, kind jobs.Kind) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// An empty or absent body means "today".
	var in runIn
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&in)
	}
	if in.Date == "" {
		in.Date = time.Now().UTC().Format("2006-01-02")
	}

	job, err := s.runner.Submit(s.baseCtx, kind, in.Date)
	if err != nil {
		s.logger.Error("job submission failed", "kind", kind, "error", err)
		http.Error(w, "cannot submit job", http.StatusInternalServerError)
		return
	}

	s.logger.Info("job submitted", "kind", kind, "id", job.ID, "date", job.Date)
	writeJSON(w, http.StatusOK, taskOut{ID: job.ID, Status: string(job.Status)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("task_id")
	if id == "" {
		http.Error(w, "task_id is required", http.StatusBadRequest)
		return
	}

	job, ok := s.runner.Status(id)
	if !ok {
		http.Error(w, "unknown task", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, taskOut{ID: job.ID, Status: string(job.Status)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
