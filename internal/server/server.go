package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/yourorg/tassdoc/internal/config"
	"github.com/yourorg/tassdoc/internal/store"
	"github.com/yourorg/tassdoc/pkg/types"
)

// Server exposes a read-only JSON API over the catalog store.
type Server struct {
	cfg   *config.Config
	store store.Store
	mux   *http.ServeMux
}

// New constructs a new Server with routes registered.
func New(cfg *config.Config, st store.Store) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if st == nil {
		return nil, errors.New("store is nil")
	}

	srv := &Server{
		cfg:   cfg,
		store: st,
		mux:   http.NewServeMux(),
	}
	srv.registerRoutes()
	return srv, nil
}

// Handler returns the http handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the server on addr.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) registerRoutes() {
	// Static file server for exported catalogs.
	s.mux.Handle("/docs/", http.StripPrefix("/docs/", http.FileServer(http.Dir(s.cfg.Output.Dir))))

	s.mux.HandleFunc("/api/scans", s.handleScans)
	s.mux.HandleFunc("/api/scans/", s.handleScanRoutes)
	s.mux.HandleFunc("/api/requests/", s.handleRequest)
}

func (s *Server) handleScans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	scans, err := s.store.ListScans()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, scans)
}

func (s *Server) handleScanRoutes(w http.ResponseWriter, r *http.Request) {
	id, tail, ok := splitPath(r.URL.Path, "/api/scans/")
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}
	if tail == "requests" {
		s.handleScanRequests(w, r, id)
		return
	}
	if tail != "" {
		http.NotFound(w, r)
		return
	}
	s.handleScanDetail(w, r, id)
}

func (s *Server) handleScanDetail(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	scan, err := s.store.GetScan(id)
	if err != nil {
		http.Error(w, "scan not found", http.StatusNotFound)
		return
	}
	failures, err := s.store.GetFailures(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp := struct {
		Scan     *types.Scan     `json:"scan"`
		Failures []types.Failure `json:"failures"`
	}{
		Scan:     scan,
		Failures: failures,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScanRequests(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, err := s.store.GetScan(id); err != nil {
		http.Error(w, "scan not found", http.StatusNotFound)
		return
	}
	entries, err := s.store.GetRequests(id, r.URL.Query().Get("scope"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	idStr, tail, ok := splitPath(r.URL.Path, "/api/requests/")
	if !ok || idStr == "" || tail != "" {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "request not found", http.StatusNotFound)
		return
	}
	entry, err := s.store.GetRequest(id)
	if err != nil {
		http.Error(w, "request not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func splitPath(fullPath, prefix string) (string, string, bool) {
	if !strings.HasPrefix(fullPath, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(fullPath, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", "", false
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	tail := ""
	if len(parts) > 1 {
		tail = strings.Join(parts[1:], "/")
	}
	return id, tail, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
