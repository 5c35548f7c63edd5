package visualization

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nvandessel/knowsim/internal/results"
)

// Server serves stored simulation runs as an HTML index and SVG charts.
type Server struct {
	store      results.ResultStore
	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
	addr       string
}

// NewServer creates a new results visualization server.
func NewServer(store results.ResultStore) *Server {
	return &Server{store: store}
}

// Addr returns the address the server is listening on (e.g., "localhost:PORT").
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// ListenAndServe starts the HTTP server on an OS-assigned port and blocks
// until the context is cancelled. Returns nil on clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/chart.svg", s.handleChart)

	// Let the OS pick a free port.
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{Handler: mux}
	s.mu.Unlock()

	// Graceful shutdown when context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	err = s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handleIndex lists the stored runs with links to their charts.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		http.Error(w, "listing runs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<!DOCTYPE html>\n<html><head><title>knowsim runs</title></head><body>\n")
	fmt.Fprint(w, "<h1>Simulation runs</h1>\n")
	if len(runs) == 0 {
		fmt.Fprint(w, "<p>No runs recorded yet.</p>\n")
	} else {
		fmt.Fprint(w, `<p><a href="/chart.svg">Combined chart</a></p>`+"\n<ul>\n")
		for _, run := range runs {
			fmt.Fprintf(w, `<li><a href="/chart.svg?run=%s">%s</a> — %s, agents=%d, facts=%d, final rate %.3f</li>`+"\n",
				html.EscapeString(run.ID), html.EscapeString(run.ID),
				html.EscapeString(run.Cohort), run.Agents, run.Facts, run.FinalRate())
		}
		fmt.Fprint(w, "</ul>\n")
	}
	fmt.Fprint(w, "</body></html>\n")
}

// handleChart renders the rate chart for one run (?run=ID) or all runs.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var runs []results.Run

	if id := r.URL.Query().Get("run"); id != "" {
		run, err := s.store.GetRun(r.Context(), id)
		if err != nil {
			http.Error(w, "loading run: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if run == nil {
			http.Error(w, "run not found: "+id, http.StatusNotFound)
			return
		}
		runs = []results.Run{*run}
	} else {
		all, err := s.store.ListRuns(r.Context())
		if err != nil {
			http.Error(w, "listing runs: "+err.Error(), http.StatusInternalServerError)
			return
		}
		runs = all
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprint(w, RenderRateChart(runs))
}
