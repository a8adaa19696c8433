//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SridharServico/Ghostprotocal/internal/applier"
	"github.com/SridharServico/Ghostprotocal/internal/catalog"
	"github.com/SridharServico/Ghostprotocal/internal/database"
	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

func TestApply_freshDatabase_createsAllObjects(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	events := ApplySchema(t, pool)

	statuses := TerminalStatuses(events)
	require.Len(t, statuses, len(schema.Objects()))

	for name, status := range statuses {
		assert.Equal(t, applier.StatusCreated, status, "object %s", name)
	}

	cat := catalog.New(pool)

	for _, obj := range schema.Objects() {
		exists, err := cat.ObjectExists(ctx, obj)
		require.NoError(t, err)
		assert.True(t, exists, "%s %s should exist after apply", obj.Kind, obj.Name)
	}

	rls, err := cat.RowSecurityEnabled(ctx, schema.TableName)
	require.NoError(t, err)
	assert.True(t, rls, "row-level security should be enabled")
}

func TestApply_twice_isIdempotent(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	ApplySchema(t, pool)
	second := ApplySchema(t, pool)

	statuses := TerminalStatuses(second)
	assert.Equal(t, applier.StatusExists, statuses[schema.TableName])
	assert.Equal(t, applier.StatusExists, statuses[schema.PolicyName])
	assert.Equal(t, applier.StatusExists, statuses[schema.IndexTypeName])
	assert.Equal(t, applier.StatusReplaced, statuses[schema.FunctionName])
	assert.Equal(t, applier.StatusReplaced, statuses[schema.TriggerName])

	// Exactly one table, one policy, one trigger binding, four indexes.
	var count int

	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM pg_tables WHERE tablename = $1`,
		schema.TableName).Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM pg_policies WHERE tablename = $1`,
		schema.TableName).Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM pg_trigger t
		 JOIN pg_class c ON c.oid = t.tgrelid
		 WHERE c.relname = $1 AND NOT t.tgisinternal`,
		schema.TableName).Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM pg_indexes
		 WHERE tablename = $1 AND indexname LIKE 'idx_%'`,
		schema.TableName).Scan(&count))
	assert.Equal(t, 4, count)
}

func TestApply_dryRun_changesNothing(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	app := applier.New(pool, applier.WithDryRun(true))
	require.NoError(t, app.Apply(ctx, schema.Objects()))

	exists, err := catalog.New(pool).TableExists(ctx, schema.TableName)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestApply_lockHeld_fails(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	lock, err := database.TryAcquireLock(ctx, pool)
	require.NoError(t, err)
	defer lock.Release(ctx) //nolint:errcheck // released again below is a no-op

	app := applier.New(pool)
	err = app.Apply(ctx, schema.Objects())

	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrLockNotAcquired)

	require.NoError(t, lock.Release(ctx))

	// With the lock released the apply goes through.
	require.NoError(t, app.Apply(ctx, schema.Objects()))
}
