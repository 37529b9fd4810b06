// Package webtui serves the interactive TUI to a browser terminal: each
// WebSocket connection gets its own `tally` subprocess on a PTY.
package webtui

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"tally-cli/internal/logging"
)

//go:embed templates/*.html static/*.css static/*.js
var assetsFS embed.FS

type ServerConfig struct {
	Addr      string
	Dir       string
	Workspace string
	List      string
	Backend   string

	// Executable is the binary started per session; empty means the running one.
	Executable string
	Logger     *slog.Logger
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
	log  *slog.Logger

	sessions atomic.Int64
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("webtui: missing addr")
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Server{cfg: cfg, tmpl: tmpl, log: log}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

// ActiveSessions is the number of terminals currently attached.
func (s *Server) ActiveSessions() int64 { return s.sessions.Load() }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/terminal", http.StatusFound)
	})
	mux.HandleFunc("GET /terminal", s.handleTerminal)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	mux.HandleFunc("GET /static/app.js", s.handleStatic("static/app.js", "text/javascript; charset=utf-8"))

	return mux
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type terminalVM struct {
	Workspace string
	List      string
	Dir       string
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	vm := terminalVM{
		Workspace: strings.TrimSpace(s.cfg.Workspace),
		List:      strings.TrimSpace(s.cfg.List),
		Dir:       strings.TrimSpace(s.cfg.Dir),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "terminal.html", vm); err != nil {
		s.log.Error("render terminal", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// sessionArgs are the flags passed to each TUI subprocess. No subcommand
// means the interactive TUI.
func (s *Server) sessionArgs() []string {
	args := []string{}
	add := func(flag, v string) {
		if v = strings.TrimSpace(v); v != "" {
			args = append(args, flag, v)
		}
	}
	add("--dir", s.cfg.Dir)
	add("--workspace", s.cfg.Workspace)
	add("--list", s.cfg.List)
	add("--backend", s.cfg.Backend)
	return args
}
