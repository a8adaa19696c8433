package applier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

// mockLock implements lockReleaser for testing.
type mockLock struct {
	released bool
}

func (m *mockLock) Release(_ context.Context) error {
	m.released = true
	return nil
}

func testObject(name string, kind schema.Kind) schema.Object {
	return schema.Object{
		Name:      name,
		Kind:      kind,
		Guard:     schema.GuardIfNotExists,
		CreateSQL: "CREATE TABLE IF NOT EXISTS " + name + " (id INT)",
	}
}

func lockFnReturning(lock *mockLock, err error) lockFunc {
	return func(_ context.Context) (lockReleaser, error) {
		if err != nil {
			return nil, err
		}

		return lock, nil
	}
}

func TestApply_lockError_propagates(t *testing.T) {
	t.Parallel()

	lockErr := errors.New("lock held")
	a := &Applier{acquireLock: lockFnReturning(nil, lockErr)}

	err := a.Apply(context.Background(), []schema.Object{testObject("t", schema.KindTable)})

	require.Error(t, err)
	assert.ErrorIs(t, err, lockErr)
	assert.Contains(t, err.Error(), "acquiring apply lock")
}

func TestApply_releasesLock(t *testing.T) {
	t.Parallel()

	lock := &mockLock{}
	a := &Applier{
		acquireLock: lockFnReturning(lock, nil),
		applyObject: func(_ context.Context, _ *schema.Object) (string, error) {
			return StatusCreated, nil
		},
	}

	err := a.Apply(context.Background(), []schema.Object{testObject("t", schema.KindTable)})

	require.NoError(t, err)
	assert.True(t, lock.released)
}

func TestApply_stopsOnFirstFailure(t *testing.T) {
	t.Parallel()

	lock := &mockLock{}
	applyErr := errors.New("create failed")
	calls := 0

	a := &Applier{
		acquireLock: lockFnReturning(lock, nil),
		applyObject: func(_ context.Context, _ *schema.Object) (string, error) {
			calls++
			return "", applyErr
		},
	}

	objects := []schema.Object{
		testObject("a", schema.KindTable),
		testObject("b", schema.KindIndex),
	}

	err := a.Apply(context.Background(), objects)

	require.Error(t, err)
	assert.ErrorIs(t, err, applyErr)
	assert.Equal(t, 1, calls)
	assert.True(t, lock.released)
}

func TestApplyOne_dryRun_firesSkippedOnly(t *testing.T) {
	t.Parallel()

	var events []ProgressEvent

	a := &Applier{
		dryRun:     true,
		onProgress: func(ev ProgressEvent) { events = append(events, ev) },
		applyObject: func(_ context.Context, _ *schema.Object) (string, error) {
			t.Fatal("dry run must not execute DDL")
			return "", nil
		},
	}

	obj := testObject("t", schema.KindTable)
	err := a.applyOne(context.Background(), &obj)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, StatusSkipped, events[0].Status)
}

func TestApplyOne_success_firesStartingThenStatus(t *testing.T) {
	t.Parallel()

	var events []ProgressEvent

	a := &Applier{
		onProgress: func(ev ProgressEvent) { events = append(events, ev) },
		applyObject: func(_ context.Context, _ *schema.Object) (string, error) {
			return StatusExists, nil
		},
	}

	obj := testObject("t", schema.KindTable)
	err := a.applyOne(context.Background(), &obj)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, StatusStarting, events[0].Status)
	assert.Equal(t, StatusExists, events[1].Status)
}

func TestApplyOne_failure_firesFailedAndWraps(t *testing.T) {
	t.Parallel()

	var events []ProgressEvent

	applyErr := errors.New("boom")
	a := &Applier{
		onProgress: func(ev ProgressEvent) { events = append(events, ev) },
		applyObject: func(_ context.Context, _ *schema.Object) (string, error) {
			return "", applyErr
		},
	}

	obj := testObject("content_posts", schema.KindTable)
	err := a.applyOne(context.Background(), &obj)

	require.Error(t, err)
	assert.ErrorIs(t, err, applyErr)
	assert.Contains(t, err.Error(), "applying table content_posts")

	require.Len(t, events, 2)
	assert.Equal(t, StatusFailed, events[1].Status)
	assert.ErrorIs(t, events[1].Error, applyErr)
}

func TestApplyGuarded_missingDropSQL_returnsError(t *testing.T) {
	t.Parallel()

	obj := schema.Object{
		Name:      "trg",
		Kind:      schema.KindTrigger,
		Guard:     schema.GuardDropAndRecreate,
		CreateSQL: "CREATE TRIGGER trg BEFORE UPDATE ON t FOR EACH ROW EXECUTE FUNCTION f()",
	}

	// The guard dispatch rejects the object before touching the transaction.
	_, err := applyGuarded(context.Background(), nil, &obj, false)

	require.ErrorIs(t, err, ErrMissingDropSQL)
}

func TestApplyGuarded_unknownGuard_returnsError(t *testing.T) {
	t.Parallel()

	obj := schema.Object{Name: "x", Guard: schema.Guard(99)}

	_, err := applyGuarded(context.Background(), nil, &obj, false)

	require.ErrorIs(t, err, ErrUnknownGuard)
}

func TestFireProgress_nilCallback_noPanic(t *testing.T) {
	t.Parallel()

	a := &Applier{}
	obj := testObject("t", schema.KindTable)

	assert.NotPanics(t, func() {
		a.fireProgress(ProgressEvent{Object: &obj, Status: StatusCreated})
	})
}
