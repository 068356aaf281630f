package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testStore is nil when no container runtime is available. Tests that need
// it call requirePostgres.
var testStore *Store

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := startPostgres(ctx)
	if err != nil {
		log.Printf("postgres tests disabled: %s", err)
		os.Exit(m.Run())
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("failed to connect to test database: %s", err)
	}

	testStore = NewStore(pool)
	if err := testStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to apply schema: %s", err)
	}

	code := m.Run()

	pool.Close()
	if err := pgContainer.Terminate(ctx); err != nil {
		log.Printf("failed to terminate postgres container: %s", err)
	}
	os.Exit(code)
}

func startPostgres(ctx context.Context) (container *postgres.PostgresContainer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("container provider unavailable: %v", r)
		}
	}()

	return postgres.Run(ctx,
		"postgres:14-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
}

func requirePostgres(t *testing.T) {
	t.Helper()
	if testStore == nil {
		t.Skip("postgres container not available")
	}
}
