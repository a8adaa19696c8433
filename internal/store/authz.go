package store

import (
	"context"

	"github.com/google/uuid"
)

// Action is one of the operations the access gate is consulted for.
type Action string

// Actions checked before each repository operation.
const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorizer decides whether the caller may perform an action on a
// post. postID is uuid.Nil for creation and listing. Swapping the
// implementation requires no change to the schema or repository.
type Authorizer interface {
	Authorize(ctx context.Context, action Action, postID uuid.UUID) error
}

// AllowAll permits every operation for every caller. It mirrors the
// permissive row policy on content_posts and is an explicit placeholder
// until a real identity/authorization system exists.
// TODO: replace with a caller-aware implementation once authn lands.
type AllowAll struct{}

// Authorize always permits the operation.
func (AllowAll) Authorize(_ context.Context, _ Action, _ uuid.UUID) error {
	return nil
}
