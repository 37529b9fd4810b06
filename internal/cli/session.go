package cli

import (
	"context"
	"strings"

	"tally-cli/internal/listmgr"
	"tally-cli/internal/model"
	"tally-cli/internal/store"
)

// session is one opened list: the resolved storage plus its manager.
type session struct {
	dir   string
	cfg   *store.GlobalConfig
	kv    store.KV
	watch store.ModTimer
	mgr   *listmgr.Manager
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}

	// Workspace-first:
	// 1) --workspace
	// 2) ~/.tally/config.json currentWorkspace
	// 3) default workspace ("default")
	if app.Workspace != "" {
		d, err := store.WorkspaceDir(app.Workspace)
		if err != nil {
			return "", err
		}
		app.Dir = d
		return d, nil
	}
	if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
		d, err := store.WorkspaceDir(cfg.CurrentWorkspace)
		if err != nil {
			return "", err
		}
		app.Workspace = cfg.CurrentWorkspace
		app.Dir = d
		return d, nil
	}

	app.Workspace = "default"
	d, err := store.WorkspaceDir(app.Workspace)
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}

// resolveSchema picks the list kind (--list, then config "list", then cart)
// and applies configured rate overrides.
func resolveSchema(app *App, cfg *store.GlobalConfig) (*model.Schema, error) {
	kind := strings.TrimSpace(app.List)
	if kind == "" {
		kind = cfg.List
	}
	v, err := model.ParseVariant(kind)
	if err != nil {
		return nil, err
	}
	s, err := model.Lookup(v)
	if err != nil {
		return nil, err
	}
	if len(cfg.Rates) > 0 && s.Rates != nil {
		s = s.WithRates(cfg.Rates)
	}
	return s, nil
}

func openSession(ctx context.Context, app *App) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dir, err := resolveDir(app)
	if err != nil {
		return nil, err
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	schema, err := resolveSchema(app, cfg)
	if err != nil {
		return nil, err
	}
	backend, err := store.ParseBackend(app.Backend)
	if err != nil {
		return nil, err
	}
	if backend != store.BackendMemory {
		if err := store.EnsureDir(dir); err != nil {
			return nil, err
		}
	}
	kv, err := store.Open(backend, dir)
	if err != nil {
		return nil, err
	}
	mgr, err := listmgr.New(ctx, listmgr.Options{Schema: schema, KV: kv, Logger: app.logger()})
	if err != nil {
		return nil, err
	}
	watch, _ := kv.(store.ModTimer)
	return &session{dir: dir, cfg: cfg, kv: kv, watch: watch, mgr: mgr}, nil
}
