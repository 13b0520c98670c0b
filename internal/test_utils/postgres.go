package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/co2tracker/co2tracker/internal/config"
	"github.com/co2tracker/co2tracker/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	testDbName     = "co2tracker"
	testDbUser     = "test_co2tracker"
	testDbPassword = "test_co2tracker"
	testDbSchema   = "co2tracker"
)

func preparePostgresContainer() (*postgres.PostgresContainer, error) {
	ctx := context.Background()

	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %v", err)
	}

	pgContainer, err := postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
		postgres.WithDatabase(testDbName),
		postgres.WithUsername(testDbUser),
		postgres.WithPassword(testDbPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return nil, err
	}
	return pgContainer, nil
}

// TestWithDB starts a Postgres container, applies all migrations and snapshots the clean state.
// The returned function opens a new pool against the container; tests restore the snapshot
// between runs with container.Restore.
func TestWithDB() (*postgres.PostgresContainer, func() *pgxpool.Pool) {
	ctx := context.Background()

	container, err := preparePostgresContainer()
	if err != nil {
		log.Printf("Failed to start postgres container: %v", err)
		os.Exit(1)
	}

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432/tcp")

	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   testDbUser,
		Pass:   testDbPassword,
		Name:   testDbName,
		Schema: testDbSchema,
	}

	err = database.Migrate(cfg)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	err = container.Snapshot(ctx, postgres.WithSnapshotName("postgres-test-snapshot"))
	if err != nil {
		log.Fatalf("Failed to snapshot postgres container: %v", err)
	}

	return container, func() *pgxpool.Pool {
		db, err := database.Open(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to open database connection: %v", err)
		}
		return db
	}
}

// OpenForTest opens a pool for a single test. On cleanup the pool is closed and the database
// is restored to the migrated snapshot.
func OpenForTest(t *testing.T, container *postgres.PostgresContainer, openDb func() *pgxpool.Pool) *pgxpool.Pool {
	db := openDb()
	t.Cleanup(func() {
		db.Close()
		err := container.Restore(context.Background())
		require.NoError(t, err)
	})
	return db
}

// RunWithDB is the body of a TestMain for packages with repository tests.
func RunWithDB(m *testing.M, setup func(*postgres.PostgresContainer, func() *pgxpool.Pool)) int {
	container, openDb := TestWithDB()
	setup(container, openDb)
	code := m.Run()
	if err := testcontainers.TerminateContainer(container); err != nil {
		log.Errorf("failed to terminate container: %s", err)
	}
	return code
}

// InsertUser stores a bare user row so record tables can reference it.
func InsertUser(ctx context.Context, db *pgxpool.Pool, username string) (int, error) {
	var id int
	err := db.QueryRow(ctx,
		`INSERT INTO users (uid, username, email, password_hash) VALUES ($1, $2, $3, 'x') RETURNING id`,
		username+"-uid", username, username+"@example.com",
	).Scan(&id)
	return id, err
}

// findProjectRoot attempts to locate the project root directory
// It looks for .git directory or go.mod file
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if fileExists(filepath.Join(dir, ".git")) || fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
