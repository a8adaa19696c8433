//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/SridharServico/Ghostprotocal/internal/applier"
	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

const (
	postgresImage = "postgres:16-alpine"
	testDB        = "ghost_test"
	testUser      = "ghost"
	testPassword  = "ghost"
)

// SetupPostgres starts a PostgreSQL 16 container and returns a connection pool.
// The container and pool are automatically cleaned up when the test completes.
func SetupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       testDB,
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := "postgres://" + testUser + ":" + testPassword + "@" + host + ":" + port.Port() + "/" + testDB + "?sslmode=disable"

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	require.NoError(t, pool.Ping(ctx))

	return pool
}

// ApplySchema applies the full content_posts schema and fails the test
// on any error. Returns the progress events for assertions.
func ApplySchema(t *testing.T, pool *pgxpool.Pool) []applier.ProgressEvent {
	t.Helper()

	var events []applier.ProgressEvent

	app := applier.New(pool,
		applier.WithProgressCallback(func(e applier.ProgressEvent) {
			events = append(events, e)
		}),
	)

	require.NoError(t, app.Apply(context.Background(), schema.Objects()))

	return events
}

// TerminalStatuses filters out "starting" events, leaving one terminal
// status per object in application order.
func TerminalStatuses(events []applier.ProgressEvent) map[string]string {
	statuses := make(map[string]string)

	for _, e := range events {
		if e.Status == applier.StatusStarting {
			continue
		}

		statuses[e.Object.Name] = e.Status
	}

	return statuses
}
