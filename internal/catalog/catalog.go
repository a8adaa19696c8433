// Package catalog answers existence questions about schema objects by
// probing pg_catalog. The applier runs these checks inside the same
// transaction as the conditional CREATE, so check-then-create is atomic.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

// Querier is the subset of pgx needed for catalog probes. Satisfied by
// *pgxpool.Pool, *pgxpool.Conn, and pgx.Tx, so checks can run either
// standalone (status command) or inside an apply transaction.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Catalog probes pg_catalog for the existence of schema objects.
type Catalog struct {
	q Querier
}

// New creates a Catalog backed by the given querier.
func New(q Querier) *Catalog {
	return &Catalog{q: q}
}

// TableExists reports whether a table of the given name exists in the
// current search path.
func (c *Catalog) TableExists(ctx context.Context, name string) (bool, error) {
	var exists bool

	err := c.q.QueryRow(ctx,
		`SELECT to_regclass($1) IS NOT NULL`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", name, err)
	}

	return exists, nil
}

// IndexExists reports whether an index of the given name exists in the
// current schema.
func (c *Catalog) IndexExists(ctx context.Context, name string) (bool, error) {
	var exists bool

	err := c.q.QueryRow(ctx,
		`SELECT EXISTS(
		     SELECT 1 FROM pg_indexes
		     WHERE schemaname = current_schema() AND indexname = $1
		 )`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking index %s: %w", name, err)
	}

	return exists, nil
}

// PolicyExists reports whether a policy of the given name exists on the
// given table. This is the pre-check guarding CREATE POLICY, which has
// no IF NOT EXISTS form.
func (c *Catalog) PolicyExists(ctx context.Context, table, name string) (bool, error) {
	var exists bool

	err := c.q.QueryRow(ctx,
		`SELECT EXISTS(
		     SELECT 1 FROM pg_policies
		     WHERE schemaname = current_schema() AND tablename = $1 AND policyname = $2
		 )`,
		table, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking policy %s on %s: %w", name, table, err)
	}

	return exists, nil
}

// FunctionExists reports whether a function of the given name exists.
func (c *Catalog) FunctionExists(ctx context.Context, name string) (bool, error) {
	var exists bool

	err := c.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1)`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking function %s: %w", name, err)
	}

	return exists, nil
}

// TriggerExists reports whether a user trigger of the given name exists
// on the given table.
func (c *Catalog) TriggerExists(ctx context.Context, table, name string) (bool, error) {
	var exists bool

	err := c.q.QueryRow(ctx,
		`SELECT EXISTS(
		     SELECT 1 FROM pg_trigger t
		     JOIN pg_class c ON c.oid = t.tgrelid
		     WHERE c.relname = $1 AND t.tgname = $2 AND NOT t.tgisinternal
		 )`,
		table, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking trigger %s on %s: %w", name, table, err)
	}

	return exists, nil
}

// RowSecurityEnabled reports whether row-level security is enabled on
// the given table.
func (c *Catalog) RowSecurityEnabled(ctx context.Context, table string) (bool, error) {
	var enabled bool

	err := c.q.QueryRow(ctx,
		`SELECT relrowsecurity FROM pg_class WHERE relname = $1`,
		table,
	).Scan(&enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("table %s: %w", table, ErrObjectNotFound)
		}

		return false, fmt.Errorf("checking row security on %s: %w", table, err)
	}

	return enabled, nil
}

// ObjectExists dispatches to the probe matching the object's kind.
// Policies and triggers are scoped to the content_posts table.
func (c *Catalog) ObjectExists(ctx context.Context, obj schema.Object) (bool, error) {
	switch obj.Kind {
	case schema.KindTable:
		return c.TableExists(ctx, obj.Name)
	case schema.KindIndex:
		return c.IndexExists(ctx, obj.Name)
	case schema.KindPolicy:
		return c.PolicyExists(ctx, schema.TableName, obj.Name)
	case schema.KindFunction:
		return c.FunctionExists(ctx, obj.Name)
	case schema.KindTrigger:
		return c.TriggerExists(ctx, schema.TableName, obj.Name)
	default:
		return false, fmt.Errorf("object %s: %w: %s", obj.Name, ErrUnknownKind, obj.Kind)
	}
}
