package schema_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

func TestObjects_applicationOrder(t *testing.T) {
	t.Parallel()

	objects := schema.Objects()
	require.Len(t, objects, 8)

	// Later objects reference earlier ones by name: the table comes
	// first, the trigger binding last (it needs both table and function).
	assert.Equal(t, schema.KindTable, objects[0].Kind)
	assert.Equal(t, schema.KindPolicy, objects[1].Kind)
	assert.Equal(t, schema.KindFunction, objects[6].Kind)
	assert.Equal(t, schema.KindTrigger, objects[7].Kind)
}

func TestObjects_fourIndexes(t *testing.T) {
	t.Parallel()

	indexes := 0

	for _, obj := range schema.Objects() {
		if obj.Kind == schema.KindIndex {
			indexes++
			assert.Equal(t, schema.GuardIfNotExists, obj.Guard)
		}
	}

	assert.Equal(t, 4, indexes)
}

func TestObjects_deterministicNames(t *testing.T) {
	t.Parallel()

	want := []string{
		schema.TableName,
		schema.PolicyName,
		schema.IndexTypeName,
		schema.IndexStatusName,
		schema.IndexSchedName,
		schema.IndexRecentName,
		schema.FunctionName,
		schema.TriggerName,
	}

	objects := schema.Objects()
	require.Len(t, objects, len(want))

	for i, obj := range objects {
		assert.Equal(t, want[i], obj.Name)
	}
}

func TestObjects_ddlNamesItsObject(t *testing.T) {
	t.Parallel()

	for _, obj := range schema.Objects() {
		assert.Contains(t, obj.CreateSQL, obj.Name,
			"DDL for %s must create the declared name", obj.Name)
	}
}

func TestObjects_guards(t *testing.T) {
	t.Parallel()

	guards := make(map[string]schema.Guard)
	for _, obj := range schema.Objects() {
		guards[obj.Name] = obj.Guard
	}

	assert.Equal(t, schema.GuardIfNotExists, guards[schema.TableName])
	assert.Equal(t, schema.GuardExistenceCheck, guards[schema.PolicyName])
	assert.Equal(t, schema.GuardCreateOrReplace, guards[schema.FunctionName])
	assert.Equal(t, schema.GuardDropAndRecreate, guards[schema.TriggerName])
}

func TestObjects_onlyTriggerHasDropSQL(t *testing.T) {
	t.Parallel()

	for _, obj := range schema.Objects() {
		if obj.Kind == schema.KindTrigger {
			require.NotEmpty(t, obj.DropSQL)
			assert.Contains(t, obj.DropSQL, "IF EXISTS")
			continue
		}

		assert.Empty(t, obj.DropSQL, "%s should have no drop statement", obj.Name)
	}
}

func TestObjects_tableConstraints(t *testing.T) {
	t.Parallel()

	var table schema.Object

	for _, obj := range schema.Objects() {
		if obj.Kind == schema.KindTable {
			table = obj
			break
		}
	}

	// Enum CHECKs and defaults live in the table definition itself.
	assert.Contains(t, table.CreateSQL, "'create_post', 'lead_magnet'")
	assert.Contains(t, table.CreateSQL, "'draft', 'scheduled', 'published', 'archived'")
	assert.Contains(t, table.CreateSQL, "DEFAULT 'draft'")
	assert.Contains(t, table.CreateSQL, "DEFAULT '{}'::jsonb")
	assert.Contains(t, table.CreateSQL, "DEFAULT '[]'::jsonb")
	assert.Contains(t, table.CreateSQL, "DEFAULT gen_random_uuid()")
	assert.Equal(t, 2, strings.Count(table.CreateSQL, "DEFAULT NOW()"))
}

func TestGuard_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "if-not-exists", schema.GuardIfNotExists.String())
	assert.Equal(t, "existence-check", schema.GuardExistenceCheck.String())
	assert.Equal(t, "create-or-replace", schema.GuardCreateOrReplace.String())
	assert.Equal(t, "drop-and-recreate", schema.GuardDropAndRecreate.String())
	assert.Equal(t, "unknown", schema.Guard(99).String())
}
