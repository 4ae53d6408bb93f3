// Package main runs one turn-based battle in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/config"
	"github.com/cory-johannsen/turnbattle/internal/frontend/terminal"
	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/observability"
	"github.com/cory-johannsen/turnbattle/internal/storage/snapshot"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty uses built-in defaults")
	historyLimit := flag.Int("history", -1, "print the N most recent battles (0 = all) and exit")
	demo := flag.Bool("demo", false, "fight the fixed demo encounter instead of a rolled lineup")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.Defaults()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store, closeStore, err := openHistory(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening battle history", zap.Error(err))
	}
	defer closeStore()

	color := !*noColor && os.Getenv("NO_COLOR") == ""
	console := terminal.NewConsole(os.Stdin, os.Stdout, terminal.WithColor(color))

	if *historyLimit >= 0 {
		records, err := store.List(ctx, *historyLimit)
		if err != nil {
			logger.Fatal("listing battle history", zap.Error(err))
		}
		console.Print(terminal.RenderHistory(records))
		return
	}

	var src dice.Source
	if cfg.Battle.Seed != 0 {
		src = dice.NewSeededSource(cfg.Battle.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	dispatch, err := combat.ParseDispatch(cfg.Battle.Dispatch)
	if err != nil {
		logger.Fatal("parsing dispatch mode", zap.Error(err))
	}

	contentStart := time.Now()
	content, err := loadContent(cfg.Battle.ContentDir)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	conds, err := loadConditions(cfg.Battle.ContentDir)
	if err != nil {
		logger.Fatal("loading condition definitions", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Battle.ContentDir),
		zap.Int("items", content.Catalog.Len()),
		zap.Int("enemy_templates", len(content.Bestiary.IDs(false))),
		zap.Int("boss_templates", len(content.Bestiary.IDs(true))),
		zap.Int("conditions", len(conds.All())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	scripts, err := loadScripts(cfg.Battle, content.Bestiary, roller, logger)
	if err != nil {
		logger.Fatal("loading scripts", zap.Error(err))
	}
	if scripts != nil {
		defer scripts.Close()
	}
	registry, err := loadAI(cfg.Battle.ContentDir, scripts, roller)
	if err != nil {
		logger.Fatal("loading ai domains", zap.Error(err))
	}
	logger.Info("ai domains ready", zap.Strings("domains", registry.Domains()))

	var heroes, enemies []*combat.Combatant
	if *demo {
		heroes, enemies, err = battle.DefaultEncounter(content.Catalog)
	} else {
		heroes, enemies, err = content.Muster(battle.DefaultLineup(), roller)
	}
	if err != nil {
		logger.Fatal("building encounter", zap.Error(err))
	}

	s, err := battle.New(heroes, enemies, battle.Deps{
		Input:           console,
		Notify:          console.Notify,
		Catalog:         content.Catalog,
		Conditions:      conds,
		Roller:          roller,
		Logger:          logger,
		Dispatch:        dispatch,
		ResolverOptions: []combat.ResolverOption{combat.WithFortifyAmount(cfg.Battle.FortifyAmount)},
		Persistence:     snapshot.FileStore{},
		SavePath:        cfg.Battle.SavePath,
		History:         store,
		Bestiary:        content.Bestiary,
		AI:              registry,
		Scripts:         scripts,
	})
	if err != nil {
		logger.Fatal("creating battle", zap.Error(err))
	}
	console.Watch(s.Roster())
	console.Print(terminal.RenderRoster(s.Roster()))

	err = s.Run(ctx)
	switch {
	case errors.Is(err, io.EOF):
		logger.Info("input closed, leaving battle", zap.Int("turn", s.Turn()))
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted, leaving battle", zap.Int("turn", s.Turn()))
	case err != nil:
		logger.Fatal("running battle", zap.Error(err))
	}

	logger.Info("battle finished",
		zap.String("battle_id", s.ID().String()),
		zap.Stringer("outcome", s.Outcome()),
		zap.Int("turns", s.Turn()),
		zap.Duration("elapsed", time.Since(start)),
	)
}
