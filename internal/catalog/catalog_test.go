package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SridharServico/Ghostprotocal/internal/catalog"
	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

func TestNew_returnsNonNil(t *testing.T) {
	t.Parallel()

	// nil querier is accepted at construction time; errors surface on use.
	c := catalog.New(nil)
	assert.NotNil(t, c)
}

func TestObjectExists_unknownKind_returnsError(t *testing.T) {
	t.Parallel()

	c := catalog.New(nil)
	obj := schema.Object{Name: "mystery", Kind: schema.Kind("view")}

	// The kind dispatch rejects unknown kinds before any query runs,
	// so the nil querier is never touched.
	_, err := c.ObjectExists(context.Background(), obj)

	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUnknownKind)
	assert.Contains(t, err.Error(), "mystery")
}

func TestErrors_sentinel(t *testing.T) {
	t.Parallel()

	assert.EqualError(t, catalog.ErrObjectNotFound, "object not found in pg_catalog")
	assert.EqualError(t, catalog.ErrUnknownKind, "unknown object kind")
}
