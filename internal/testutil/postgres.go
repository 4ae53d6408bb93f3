// Package testutil provides test helpers for container-backed storage tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/turnbattle/internal/config"
	"github.com/cory-johannsen/turnbattle/internal/storage/postgres"
)

const (
	postgresImage = "postgres:16-alpine"
	postgresPort  = "5432"
	dbCredential  = "turnbattle"
)

// PostgresContainer is a throwaway PostgreSQL server for one test.
type PostgresContainer struct {
	container testcontainers.Container
	Config    config.DatabaseConfig
}

// NewPostgresContainer starts a PostgreSQL container and terminates it when
// the test ends. Tests calling it are skipped in -short mode.
//
// Precondition: Docker must be available.
// Postcondition: Config addresses the running server, or the test has failed.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in -short mode")
	}
	ctx := context.Background()
	start := time.Now()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{postgresPort + "/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     dbCredential,
				"POSTGRES_PASSWORD": dbCredential,
				"POSTGRES_DB":       dbCredential,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("getting container host: %v", err)
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		t.Fatalf("getting mapped port: %v", err)
	}
	t.Logf("postgres container started [%s]", time.Since(start))

	return &PostgresContainer{
		container: container,
		Config: config.DatabaseConfig{
			Host:            host,
			Port:            port.Int(),
			User:            dbCredential,
			Password:        dbCredential,
			Name:            dbCredential,
			SSLMode:         "disable",
			MaxConns:        4,
			MinConns:        1,
			MaxConnLifetime: 5 * time.Minute,
		},
	}
}

// HistoryRepository migrates the container's schema and returns a repository
// whose pool is closed when the test ends.
func (pc *PostgresContainer) HistoryRepository(t *testing.T) *postgres.HistoryRepository {
	t.Helper()
	start := time.Now()
	repo, closeRepo, err := postgres.Open(context.Background(), pc.Config)
	if err != nil {
		t.Fatalf("opening history repository: %v [%s]", err, time.Since(start))
	}
	t.Cleanup(closeRepo)
	t.Logf("history schema migrated [%s]", time.Since(start))
	return repo
}
