// Package testdb starts a shared Postgres container for integration tests and
// applies the service schema to it.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/JaimeStill/vouch/internal/schema"
	"github.com/JaimeStill/vouch/pkg/database"
)

var (
	once      sync.Once
	sharedURL string
	initErr   error
)

// Open returns a connection to the shared test database, starting the container
// on first use. The test is skipped under -short or when no container runtime is
// reachable. The connection is closed via t.Cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}

	once.Do(func() {
		sharedURL, initErr = startContainerAndMigrate()
	})
	if initErr != nil {
		t.Skipf("postgres container unavailable: %v", initErr)
	}

	db, err := sql.Open("pgx", sharedURL)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func startContainerAndMigrate() (url string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("start container: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "vouch",
			"POSTGRES_PASSWORD": "vouch",
			"POSTGRES_DB":       "vouch",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	cfg := database.Config{
		Host:     host,
		Port:     port.Int(),
		Name:     "vouch",
		User:     "vouch",
		Password: "vouch",
		SSLMode:  "disable",
	}
	url = cfg.URL()

	m, err := database.NewMigrator(schema.Migrations, schema.Dir, url)
	if err != nil {
		return "", err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		return "", fmt.Errorf("apply migrations: %w", err)
	}

	return url, nil
}
