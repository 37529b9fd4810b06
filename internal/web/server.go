// Package web serves one managed list as server-rendered HTML. Mutations are
// plain form posts; open pages follow changes over a Datastar SSE stream.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"tally-cli/internal/listmgr"
	"tally-cli/internal/logging"
	"tally-cli/internal/model"
	"tally-cli/internal/store"

	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const mainSelector = "#tally-main"

type ServerConfig struct {
	Addr      string
	Workspace string
	Dir       string
	ReadOnly  bool

	Manager *listmgr.Manager
	// Watch, when set, is polled for writes made by other processes.
	Watch        store.ModTimer
	PollInterval time.Duration

	Logger *slog.Logger
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
	log  *slog.Logger
	hub  *changeHub

	// mu guards the manager and everything below it.
	mu      sync.Mutex
	mgr     *listmgr.Manager
	flash   string
	lastMod time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Workspace = strings.TrimSpace(cfg.Workspace)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Manager == nil {
		return nil, errors.New("web: missing list manager")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
		"add":  func(a, b int) int { return a + b },
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	srv := &Server{
		cfg:    cfg,
		tmpl:   tmpl,
		log:    log,
		hub:    newChangeHub(),
		mgr:    cfg.Manager,
		stopCh: make(chan struct{}),
	}
	if cfg.Watch != nil {
		srv.lastMod = srv.modTime(context.Background())
		go srv.watchLoop()
	}
	return srv, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

// Stop ends the storage watch loop.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /view.json", s.handleViewJSON)
	mux.HandleFunc("GET /report", s.handleReport)
	mux.HandleFunc("GET /export.csv", s.handleExportCSV)
	mux.HandleFunc("GET /export.xlsx", s.handleExportXLSX)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /items", s.handleAdd)
	mux.HandleFunc("POST /items/{id}/remove", s.handleRemove)
	mux.HandleFunc("POST /items/{id}/edit", s.handleStartEdit)
	mux.HandleFunc("POST /items/{id}/save", s.handleSaveEdit)
	mux.HandleFunc("POST /items/{id}/cancel", s.handleCancelEdit)
	mux.HandleFunc("POST /items/{id}/quantity", s.handleQuantity)
	mux.HandleFunc("POST /sort", s.handleSortApply)
	mux.HandleFunc("POST /sort/clear", s.handleSortClear)
	mux.HandleFunc("POST /sort/reset", s.handleSortReset)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("POST /clear", s.handleClear)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if r.URL.Path == "/events" {
			return
		}
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(b)
}

func (s *Server) schema() *model.Schema { return s.cfg.Manager.Schema() }

func (s *Server) modTime(ctx context.Context) time.Time {
	if s.cfg.Watch == nil {
		return time.Time{}
	}
	mt, err := s.cfg.Watch.ModTime(ctx, s.cfg.Manager.Key())
	if err != nil {
		s.log.Debug("mod time", "err", err)
		return time.Time{}
	}
	return mt
}

// watchLoop reloads the list when another process writes it.
func (s *Server) watchLoop() {
	t := time.NewTicker(s.cfg.PollInterval)
	defer t.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-t.C:
		}
		if s.reloadIfChanged(context.Background()) {
			s.hub.broadcast()
		}
	}
}

func (s *Server) reloadIfChanged(ctx context.Context) bool {
	mt := s.modTime(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if mt.IsZero() || mt.Equal(s.lastMod) {
		return false
	}
	s.lastMod = mt
	if err := s.mgr.Reload(ctx); err != nil {
		s.log.Warn("reload failed", "err", err)
		return false
	}
	s.log.Info("list changed on disk; reloaded", "key", s.mgr.Key())
	return true
}

// mutate runs fn with the manager locked, records the outcome as the flash
// message and wakes every open page.
func (s *Server) mutate(ctx context.Context, fn func(m *listmgr.Manager) error) error {
	s.mu.Lock()
	err := fn(s.mgr)
	if err != nil {
		s.flash = err.Error()
	} else {
		s.flash = ""
	}
	if s.cfg.Watch != nil {
		s.lastMod = s.modTime(ctx)
	}
	s.mu.Unlock()

	var perr *listmgr.PersistError
	if errors.As(err, &perr) {
		s.log.Error("save failed", "op", perr.Op, "err", perr.Err)
	}
	s.hub.broadcast()
	return err
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		s.log.Error("render", "template", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) renderMain() (string, error) {
	s.mu.Lock()
	vm := s.mainVM()
	s.mu.Unlock()
	return s.renderTemplate("main.html", vm)
}

// handleEvents streams a fresh #tally-main every time the list changes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch, cancel := s.hub.subscribe()
	defer cancel()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			html, err := s.renderMain()
			if err != nil {
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
				continue
			}
			_ = sse.PatchElements(html, datastar.WithSelector(mainSelector), datastar.WithMode(datastar.ElementPatchModeOuter))
		}
	}
}

// changeHub fans a "list changed" signal out to SSE subscribers.
type changeHub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newChangeHub() *changeHub {
	return &changeHub{subs: map[chan struct{}]struct{}{}}
}

func (h *changeHub) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}
}

func (h *changeHub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

func (h *changeHub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
