package webtui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, cfg ServerConfig) *Server {
	t.Helper()
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s
}

func TestNewServer_RequiresAddr(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSessionArgs(t *testing.T) {
	s := newTestServer(t, ServerConfig{Dir: " /tmp/ws ", List: "cutting", Backend: "file"})
	got := strings.Join(s.sessionArgs(), " ")
	if got != "--dir /tmp/ws --list cutting --backend file" {
		t.Fatalf("unexpected args: %q", got)
	}
	if args := newTestServer(t, ServerConfig{}).sessionArgs(); len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestHandler_TerminalPage(t *testing.T) {
	s := newTestServer(t, ServerConfig{Workspace: "yard", List: "cutting"})
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/terminal", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "workspace: yard") || !strings.Contains(body, "list: cutting") {
		t.Fatalf("unexpected page:\n%s", body)
	}
}

func TestHandler_RootRedirectsAndStatic(t *testing.T) {
	h := newTestServer(t, ServerConfig{}).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/terminal" {
		t.Fatalf("expected redirect, got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/javascript") {
		t.Fatalf("unexpected static response: %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
}

func TestParseControl(t *testing.T) {
	m, ok := parseControl(websocket.TextMessage, []byte(`{"type":" Resize ","cols":80,"rows":24}`))
	if !ok || m.Type != "resize" || m.Cols != 80 || m.Rows != 24 {
		t.Fatalf("unexpected control: %+v ok=%v", m, ok)
	}
	if _, ok := parseControl(websocket.TextMessage, []byte("q")); ok {
		t.Fatalf("keystroke parsed as control")
	}
	if _, ok := parseControl(websocket.BinaryMessage, []byte(`{"type":"resize"}`)); ok {
		t.Fatalf("binary frame parsed as control")
	}
	if _, ok := parseControl(websocket.TextMessage, []byte(`{not json`)); ok {
		t.Fatalf("bad json parsed as control")
	}
}

func TestSameOrigin(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://127.0.0.1:3334/ws", nil)
	if !sameOrigin(r) {
		t.Fatalf("missing origin should pass")
	}
	r.Header.Set("Origin", "http://127.0.0.1:3334")
	if !sameOrigin(r) {
		t.Fatalf("same origin should pass")
	}
	r.Header.Set("Origin", "http://evil.example")
	if sameOrigin(r) {
		t.Fatalf("foreign origin should fail")
	}
}
