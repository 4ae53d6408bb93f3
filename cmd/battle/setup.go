package main

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/config"
	"github.com/cory-johannsen/turnbattle/internal/game/ai"
	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/game/npc"
	"github.com/cory-johannsen/turnbattle/internal/history"
	"github.com/cory-johannsen/turnbattle/internal/scripting"
	"github.com/cory-johannsen/turnbattle/internal/storage/postgres"
	"github.com/cory-johannsen/turnbattle/internal/storage/sqlite"
)

// Content subdirectories read here rather than by battle.LoadContent.
const (
	conditionsDir = "conditions"
	aiDir         = "ai"
)

// openHistory connects the configured history driver.
//
// Postcondition: the returned close function is always non-nil.
func openHistory(ctx context.Context, cfg config.Config, logger *zap.Logger) (history.Store, func(), error) {
	switch cfg.History.Driver {
	case config.HistorySQLite:
		store, err := sqlite.Open(ctx, cfg.History.SQLitePath)
		if err != nil {
			return nil, func() {}, err
		}
		logger.Info("battle history in sqlite", zap.String("path", cfg.History.SQLitePath))
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing sqlite history", zap.Error(err))
			}
		}, nil
	case config.HistoryPostgres:
		repo, closeRepo, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, func() {}, err
		}
		logger.Info("battle history in postgres", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
		return repo, closeRepo, nil
	default:
		return history.NewMemoryStore(), func() {}, nil
	}
}

// subdir returns dir/name when it is an existing directory.
func subdir(dir, name string) (string, bool) {
	if dir == "" {
		return "", false
	}
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return path, true
}

func loadContent(dir string) (battle.Content, error) {
	if dir == "" {
		return battle.DefaultContent(), nil
	}
	return battle.LoadContent(dir)
}

func loadConditions(dir string) (*condition.Registry, error) {
	path, ok := subdir(dir, conditionsDir)
	if !ok {
		return condition.DefaultRegistry(), nil
	}
	return condition.LoadDirectory(path)
}

// loadScripts creates the Lua manager: every *.lua file directly under
// scriptDir goes into the global VM and each template's ai_script into the
// scope named by the template ID.
//
// Postcondition: returns a nil Manager when scripting is disabled.
func loadScripts(cfg config.BattleConfig, bestiary *npc.Bestiary, roller *dice.Roller, logger *zap.Logger) (*scripting.Manager, error) {
	if cfg.ScriptDir == "" {
		return nil, nil
	}
	mgr := scripting.NewManager(roller, logger)
	if err := mgr.LoadGlobal(cfg.ScriptDir, cfg.ScriptInstructionLimit); err != nil {
		mgr.Close()
		return nil, err
	}
	scopes := 0
	for _, bosses := range []bool{false, true} {
		for _, id := range bestiary.IDs(bosses) {
			tmpl, _ := bestiary.Get(id)
			if tmpl.AIScript == "" {
				continue
			}
			path := filepath.Join(cfg.ScriptDir, tmpl.AIScript)
			if err := mgr.LoadScope(tmpl.ID, path, cfg.ScriptInstructionLimit); err != nil {
				mgr.Close()
				return nil, err
			}
			scopes++
		}
	}
	logger.Info("scripts loaded", zap.String("dir", cfg.ScriptDir), zap.Int("scopes", scopes))
	return mgr, nil
}

// loadAI registers the built-in domains overlaid with dir/ai/*.yaml; a file
// may replace a built-in domain by reusing its ID.
func loadAI(dir string, scripts *scripting.Manager, roller *dice.Roller) (*ai.Registry, error) {
	domains := ai.DefaultDomains()
	if path, ok := subdir(dir, aiDir); ok {
		loaded, err := ai.LoadDomains(path)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]int, len(domains))
		for i, d := range domains {
			byID[d.ID] = i
		}
		for _, d := range loaded {
			if i, ok := byID[d.ID]; ok {
				domains[i] = d
				continue
			}
			byID[d.ID] = len(domains)
			domains = append(domains, d)
		}
	}

	var caller ai.ScriptCaller
	if scripts != nil {
		caller = scripts
	}
	reg := ai.NewRegistry()
	if err := reg.RegisterAll(domains, caller, roller); err != nil {
		return nil, err
	}
	return reg, nil
}
