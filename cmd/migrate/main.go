// Package main provides the battle history migration runner.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"github.com/cory-johannsen/turnbattle/internal/config"
	"github.com/cory-johannsen/turnbattle/internal/storage/postgres"
	"github.com/cory-johannsen/turnbattle/internal/storage/sqlite"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	var m *migrate.Migrate
	var target string
	switch cfg.History.Driver {
	case config.HistoryPostgres:
		target = fmt.Sprintf("postgres %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		m, err = postgres.NewMigrator(cfg.Database.DSN())
	case config.HistorySQLite:
		target = "sqlite " + cfg.History.SQLitePath
		m, err = sqlite.NewMigrator(cfg.History.SQLitePath)
	default:
		log.Fatalf("history.driver %q has no schema to migrate", cfg.History.Driver)
	}
	if err != nil {
		log.Fatalf("creating migrator: %v", err)
	}
	defer m.Close()

	switch *direction {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	default:
		log.Fatalf("invalid direction %q: must be 'up' or 'down'", *direction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	version, dirty, _ := m.Version()
	elapsed := time.Since(start)

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintf(os.Stdout, "%s: no changes (version=%d dirty=%v) [%s]\n", target, version, dirty, elapsed)
	} else {
		fmt.Fprintf(os.Stdout, "%s: migrated %s to version=%d dirty=%v [%s]\n", target, *direction, version, dirty, elapsed)
	}
}
