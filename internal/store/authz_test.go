package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/SridharServico/Ghostprotocal/internal/store"
)

func TestAllowAll_permitsEveryAction(t *testing.T) {
	t.Parallel()

	gate := store.AllowAll{}
	ctx := context.Background()

	actions := []store.Action{
		store.ActionCreate,
		store.ActionRead,
		store.ActionUpdate,
		store.ActionDelete,
	}

	for _, action := range actions {
		assert.NoError(t, gate.Authorize(ctx, action, uuid.Nil))
		assert.NoError(t, gate.Authorize(ctx, action, uuid.New()))
	}
}
