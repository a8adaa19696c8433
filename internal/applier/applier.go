// Package applier applies the content_posts schema objects to a
// database. Application is idempotent: each object is created only if
// absent, inside its own transaction, under an advisory lock that
// prevents concurrent deployment runs.
package applier

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SridharServico/Ghostprotocal/internal/catalog"
	"github.com/SridharServico/Ghostprotocal/internal/database"
	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

// Progress status constants reported via ProgressEvent.
const (
	StatusStarting = "starting"
	StatusCreated  = "created"
	StatusExists   = "exists"
	StatusReplaced = "replaced"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// ProgressEvent is emitted by the applier for each schema object processed.
type ProgressEvent struct {
	Object   *schema.Object
	Status   string
	Duration time.Duration
	Error    error
}

// objectCatalog abstracts pg_catalog existence checks for testability.
type objectCatalog interface {
	ObjectExists(ctx context.Context, obj schema.Object) (bool, error)
}

// lockReleaser is returned by lockFn and must be released when done.
type lockReleaser interface {
	Release(ctx context.Context) error
}

// lockFunc acquires an advisory lock and returns a releaser.
type lockFunc func(ctx context.Context) (lockReleaser, error)

// applyFunc applies a single object and returns its terminal status.
type applyFunc func(ctx context.Context, obj *schema.Object) (string, error)

// catalogFunc builds an objectCatalog over the given querier, so
// existence checks run inside the apply transaction.
type catalogFunc func(q catalog.Querier) objectCatalog

// Applier applies schema objects with transaction safety, timeouts, and
// an advisory lock against concurrent runs.
type Applier struct {
	pool             *pgxpool.Pool
	lockTimeout      time.Duration
	statementTimeout time.Duration
	dryRun           bool
	onProgress       func(ProgressEvent)
	acquireLock      lockFunc
	applyObject      applyFunc
	newCatalog       catalogFunc
}

// Option configures an Applier.
type Option func(*Applier)

// WithLockTimeout sets the per-transaction lock_timeout.
func WithLockTimeout(d time.Duration) Option {
	return func(a *Applier) { a.lockTimeout = d }
}

// WithStatementTimeout sets the per-transaction statement_timeout.
func WithStatementTimeout(d time.Duration) Option {
	return func(a *Applier) { a.statementTimeout = d }
}

// WithDryRun enables dry-run mode where no DDL is executed.
func WithDryRun(b bool) Option {
	return func(a *Applier) { a.dryRun = b }
}

// WithProgressCallback sets a function called for each object processed.
func WithProgressCallback(fn func(ProgressEvent)) Option {
	return func(a *Applier) { a.onProgress = fn }
}

// New creates an Applier with the given pool and options.
func New(pool *pgxpool.Pool, opts ...Option) *Applier {
	a := &Applier{pool: pool}

	for _, opt := range opts {
		opt(a)
	}

	// Set defaults for injectable functions after options are applied,
	// so tests can override them directly.
	if a.acquireLock == nil {
		a.acquireLock = func(ctx context.Context) (lockReleaser, error) {
			return database.TryAcquireLock(ctx, a.pool)
		}
	}

	if a.newCatalog == nil {
		a.newCatalog = func(q catalog.Querier) objectCatalog {
			return catalog.New(q)
		}
	}

	if a.applyObject == nil {
		a.applyObject = a.applyObjectTx
	}

	return a
}

// Apply applies the objects in order. Already-present objects are left
// untouched. The advisory lock prevents concurrent apply runs; each
// object's existence check and conditional create share one transaction.
func (a *Applier) Apply(ctx context.Context, objects []schema.Object) error {
	lock, err := a.acquireLock(ctx)
	if err != nil {
		return fmt.Errorf("acquiring apply lock: %w", err)
	}
	defer lock.Release(ctx) //nolint:errcheck // best-effort release on return

	for i := range objects {
		if err := a.applyOne(ctx, &objects[i]); err != nil {
			return err
		}
	}

	return nil
}

// applyOne handles a single object: dry-run check, execute, and fire
// progress events.
func (a *Applier) applyOne(ctx context.Context, obj *schema.Object) error {
	if a.dryRun {
		a.fireProgress(ProgressEvent{Object: obj, Status: StatusSkipped})
		return nil
	}

	a.fireProgress(ProgressEvent{Object: obj, Status: StatusStarting})

	start := time.Now()
	status, applyErr := a.applyObject(ctx, obj)
	duration := time.Since(start)

	if applyErr != nil {
		a.fireProgress(ProgressEvent{
			Object:   obj,
			Status:   StatusFailed,
			Duration: duration,
			Error:    applyErr,
		})

		return fmt.Errorf("applying %s %s: %w", obj.Kind, obj.Name, applyErr)
	}

	a.fireProgress(ProgressEvent{
		Object:   obj,
		Status:   status,
		Duration: duration,
	})

	return nil
}

// applyObjectTx applies one object inside a transaction: set timeouts,
// check existence, then create, replace, or skip according to the
// object's guard.
func (a *Applier) applyObjectTx(ctx context.Context, obj *schema.Object) (string, error) {
	var status string

	err := ExecInTransaction(ctx, a.pool, func(tx pgx.Tx) error {
		if a.lockTimeout > 0 {
			if err := SetLockTimeout(ctx, tx, a.lockTimeout); err != nil {
				return err
			}
		}

		if a.statementTimeout > 0 {
			if err := SetStatementTimeout(ctx, tx, a.statementTimeout); err != nil {
				return err
			}
		}

		exists, err := a.newCatalog(tx).ObjectExists(ctx, *obj)
		if err != nil {
			return err
		}

		var applyErr error
		status, applyErr = applyGuarded(ctx, tx, obj, exists)

		return applyErr
	})
	if err != nil {
		return "", err
	}

	return status, nil
}

// applyGuarded runs the object's DDL according to its guard. exists is
// the pre-checked state inside the same transaction.
func applyGuarded(ctx context.Context, tx pgx.Tx, obj *schema.Object, exists bool) (string, error) {
	switch obj.Guard {
	case schema.GuardIfNotExists, schema.GuardExistenceCheck:
		if exists {
			return StatusExists, nil
		}

		if _, err := tx.Exec(ctx, obj.CreateSQL); err != nil {
			return "", fmt.Errorf("creating %s: %w", obj.Name, err)
		}

		return StatusCreated, nil

	case schema.GuardCreateOrReplace:
		if _, err := tx.Exec(ctx, obj.CreateSQL); err != nil {
			return "", fmt.Errorf("replacing %s: %w", obj.Name, err)
		}

		if exists {
			return StatusReplaced, nil
		}

		return StatusCreated, nil

	case schema.GuardDropAndRecreate:
		if obj.DropSQL == "" {
			return "", fmt.Errorf("object %s: %w", obj.Name, ErrMissingDropSQL)
		}

		if _, err := tx.Exec(ctx, obj.DropSQL); err != nil {
			return "", fmt.Errorf("dropping %s: %w", obj.Name, err)
		}

		if _, err := tx.Exec(ctx, obj.CreateSQL); err != nil {
			return "", fmt.Errorf("recreating %s: %w", obj.Name, err)
		}

		if exists {
			return StatusReplaced, nil
		}

		return StatusCreated, nil

	default:
		return "", fmt.Errorf("object %s: %w", obj.Name, ErrUnknownGuard)
	}
}

func (a *Applier) fireProgress(event ProgressEvent) {
	if a.onProgress != nil {
		a.onProgress(event)
	}
}
