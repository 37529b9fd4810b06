package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"tally-cli/internal/listmgr"
	"tally-cli/internal/publish"

	"github.com/starfederation/datastar-go/datastar"
)

// handleHome renders the page. ?q= filters this response only; the shared
// search changes through POST /search.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.mgr.View()
	if r.URL.Query().Has("q") {
		v = s.mgr.ViewFor(r.URL.Query().Get("q"))
	}
	vm := pageVM{
		Title:     s.schema().Title,
		Workspace: s.cfg.Workspace,
		Main:      s.mainVMFor(v),
	}
	s.mu.Unlock()
	s.writeHTMLTemplate(w, "index.html", vm)
}

func (s *Server) handleViewJSON(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.mgr.View()
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := s.mgr.Items()
	s.mu.Unlock()
	md, err := publish.RenderListMarkdown(s.schema(), items, publish.RenderOptions{Workspace: s.cfg.Workspace})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeHTMLTemplate(w, "report.html", reportVM{
		Title:     s.schema().Title,
		Workspace: s.cfg.Workspace,
		Body:      renderMarkdownHTML(md),
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, func(m *listmgr.Manager, d listmgr.Downloader) error { return m.Export(r.Context(), d) })
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, func(m *listmgr.Manager, d listmgr.Downloader) error { return m.ExportXLSX(r.Context(), d) })
}

// export builds the file under s.mu and sends it after unlocking.
func (s *Server) export(w http.ResponseWriter, r *http.Request, fn func(*listmgr.Manager, listmgr.Downloader) error) {
	var d capturedDownload
	s.mu.Lock()
	err := fn(s.mgr, &d)
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ct := listmgr.ContentTypeCSV
	if strings.HasSuffix(d.filename, ".xlsx") {
		ct = listmgr.ContentTypeXLSX
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", `attachment; filename="`+d.filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(d.content)))
	_, _ = w.Write(d.content)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.mgr.SetSearch(r.Form.Get("q"))
	s.mu.Unlock()
	s.hub.broadcast()
	s.respond(w, r)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if !s.writable(w, r) {
		return
	}
	_ = s.mutate(r.Context(), func(m *listmgr.Manager) error {
		for _, name := range m.Schema().FieldNames() {
			if r.Form.Has(name) {
				if err := m.SetDraftField(name, r.Form.Get(name)); err != nil {
					return err
				}
			}
		}
		_, err := m.Add(r.Context())
		return err
	})
	s.respond(w, r)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok || !s.writable(w, r) {
		return
	}
	_ = s.mutate(r.Context(), func(m *listmgr.Manager) error {
		_, err := m.Remove(r.Context(), id)
		return err
	})
	s.respond(w, r)
}

func (s *Server) handleStartEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok || !s.writable(w, r) {
		return
	}
	_ = s.mutate(r.Context(), func(m *listmgr.Manager) error { return m.StartEdit(id) })
	s.respond(w, r)
}

func (s *Server) handleSaveEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok || !s.writable(w, r) {
		return
	}
	_ = s.mutate(r.Context(), func(m *listmgr.Manager) error {
		if editID, _, editing := m.Editing(); !editing || editID != id {
			if err := m.StartEdit(id); err != nil {
				return err
			}
		}
		for _, name := range m.Schema().FieldNames() {
			if r.Form.Has(name) {
				if err := m.ChangeEditField(name, r.Form.Get(name)); err != nil {
					return err
				}
			}
		}
		return m.SaveEdit(r.Context(), id)
	})
	s.respond(w, r)
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.itemID(w, r); !ok {
		return
	}
	_ = s.mutate(r.Context(), func(m *listmgr.Manager) error {
		m.CancelEdit()
		return nil
	})
	s.respond(w, r)
}

func (s *Server) handleQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok || !s.writable(w, r) {
		return
	}
	q, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("quantity")))
	if err != nil {
		http.Error(w, "quantity must be a whole number", http.StatusBadRequest)
		return
	}
	_ = s.mutate(r.Context(), func(m *listmgr.Manager) error {
		_, err := m.QuantityChange(r.Context(), id, q)
		return err
	})
	s.respond(w, r)
}

func (s *Server) handleSortApply(w http.ResponseWriter, r *http.Request) {
	if !s.writable(w, r) {
		return
	}
	dir, err := listmgr.ParseDirection(r.Form.Get("dir"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	field := strings.TrimSpace(r.Form.Get("field"))
	_ = s.mutate(r.Context(), func(m *listmgr.Manager) error { return m.SortApply(r.Context(), field, dir) })
	s.respond(w, r)
}

func (s *Server) handleSortClear(w http.ResponseWriter, r *http.Request) {
	_ = s.mutate(r.Context(), func(m *listmgr.Manager) error {
		m.ClearSort()
		return nil
	})
	s.respond(w, r)
}

func (s *Server) handleSortReset(w http.ResponseWriter, r *http.Request) {
	if !s.writable(w, r) {
		return
	}
	_ = s.mutate(r.Context(), func(m *listmgr.Manager) error { return m.SortReset(r.Context()) })
	s.respond(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !s.writable(w, r) {
		return
	}
	_ = s.mutate(r.Context(), func(m *listmgr.Manager) error { return m.ResetToSeed(r.Context()) })
	s.respond(w, r)
}

// handleClear empties the list. The page asks the user first and posts
// confirm=yes; anything else is treated as a declined prompt.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if !s.writable(w, r) {
		return
	}
	confirmed := strings.EqualFold(strings.TrimSpace(r.Form.Get("confirm")), "yes")
	_ = s.mutate(r.Context(), func(m *listmgr.Manager) error {
		_, err := m.BulkClear(r.Context(), listmgr.ConfirmFunc(func(string) bool { return confirmed }))
		return err
	})
	s.respond(w, r)
}

// writable parses the form and rejects mutations on read-only servers.
func (s *Server) writable(w http.ResponseWriter, r *http.Request) bool {
	if s.cfg.ReadOnly {
		http.Error(w, "read-only", http.StatusForbidden)
		return false
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) itemID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(r.PathValue("id")))
	if err != nil || id < 1 {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// respond answers a mutation: Datastar requests get the new #tally-main
// patched in place, plain form posts are redirected home.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	if !isDatastarRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	html, err := s.renderMain()
	sse := datastar.NewSSE(w, r)
	if err != nil {
		_ = sse.ExecuteScript("console.error(" + strconv.Quote(err.Error()) + ")")
		return
	}
	_ = sse.PatchElements(html, datastar.WithSelector(mainSelector), datastar.WithMode(datastar.ElementPatchModeOuter))
}

func isDatastarRequest(r *http.Request) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("Datastar-Request")), "true")
}

// capturedDownload holds an export until the handler writes it out.
type capturedDownload struct {
	filename string
	content  []byte
}

func (d *capturedDownload) Download(_ context.Context, filename string, content []byte) error {
	d.filename = filename
	d.content = content
	return nil
}
