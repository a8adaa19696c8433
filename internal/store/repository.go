// Package store is the CRUD surface over the content_posts table.
// Every operation passes the access gate first; timestamps are owned by
// the database (created_at default, updated_at trigger) and read back
// via RETURNING.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SridharServico/Ghostprotocal/internal/content"
)

// postColumns is the canonical column list shared by all queries.
const postColumns = `id, title, content, content_type, status, source_data,
       original_content, edit_history, scheduled_date, platform, tags,
       created_at, updated_at`

// Repository provides create/read/update/delete access to content posts.
type Repository struct {
	pool  *pgxpool.Pool
	authz Authorizer
}

// Option configures a Repository.
type Option func(*Repository)

// WithAuthorizer replaces the default AllowAll access gate.
func WithAuthorizer(a Authorizer) Option {
	return func(r *Repository) { r.authz = a }
}

// New creates a Repository backed by the given connection pool.
func New(pool *pgxpool.Pool, opts ...Option) *Repository {
	r := &Repository{
		pool:  pool,
		authz: AllowAll{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Create inserts a new post. Omitted status, source_data, and
// edit_history fall back to draft, {}, and []; id, created_at, and
// updated_at are server-assigned and returned on the stored row.
func (r *Repository) Create(ctx context.Context, p content.CreateParams) (*content.Post, error) {
	if err := r.authorize(ctx, ActionCreate, uuid.Nil); err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO content_posts (
		     title, content, content_type, status, source_data,
		     original_content, edit_history, scheduled_date, platform, tags
		 ) VALUES (
		     $1, $2, $3, COALESCE(NULLIF($4, ''), 'draft'),
		     COALESCE($5::jsonb, '{}'::jsonb), $6, COALESCE($7::jsonb, '[]'::jsonb),
		     $8, $9, $10
		 )
		 RETURNING `+postColumns,
		p.Title, p.Content, string(p.ContentType), string(p.Status), p.SourceData,
		p.OriginalContent, p.EditHistory, p.ScheduledDate, p.Platform, p.Tags,
	)

	post, err := scanPost(row)
	if err != nil {
		return nil, wrapWriteError("creating post", err)
	}

	return post, nil
}

// Get returns the post with the given id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*content.Post, error) {
	if err := r.authorize(ctx, ActionRead, id); err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM content_posts WHERE id = $1`, id)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", id, ErrPostNotFound)
		}

		return nil, fmt.Errorf("getting post %s: %w", id, err)
	}

	return post, nil
}

// Update overwrites the caller-settable fields of a post. updated_at is
// deliberately not in the SET list: the row trigger overwrites it with
// the transaction time, discarding anything a caller might supply.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p content.UpdateParams) (*content.Post, error) {
	if err := r.authorize(ctx, ActionUpdate, id); err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE content_posts SET
		     title = $2,
		     content = $3,
		     content_type = $4,
		     status = $5,
		     source_data = COALESCE($6::jsonb, '{}'::jsonb),
		     original_content = $7,
		     edit_history = COALESCE($8::jsonb, '[]'::jsonb),
		     scheduled_date = $9,
		     platform = $10,
		     tags = $11
		 WHERE id = $1
		 RETURNING `+postColumns,
		id, p.Title, p.Content, string(p.ContentType), string(p.Status), p.SourceData,
		p.OriginalContent, p.EditHistory, p.ScheduledDate, p.Platform, p.Tags,
	)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", id, ErrPostNotFound)
		}

		return nil, wrapWriteError(fmt.Sprintf("updating post %s", id), err)
	}

	return post, nil
}

// Delete removes the post with the given id. Deletion is unrestricted
// and carries no special logic beyond the not-found check.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.authorize(ctx, ActionDelete, id); err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM content_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting post %s: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, ErrPostNotFound)
	}

	return nil
}

// ListByType returns posts of one content type, newest first.
// Served by idx_content_posts_content_type.
func (r *Repository) ListByType(ctx context.Context, t content.Type) ([]content.Post, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrConstraintViolation, content.ErrInvalidType)
	}

	return r.list(ctx,
		`SELECT `+postColumns+`
		 FROM content_posts
		 WHERE content_type = $1
		 ORDER BY created_at DESC`,
		string(t))
}

// ListByStatus returns posts in one status, newest first.
// Served by idx_content_posts_status.
func (r *Repository) ListByStatus(ctx context.Context, s content.Status) ([]content.Post, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrConstraintViolation, content.ErrInvalidStatus)
	}

	return r.list(ctx,
		`SELECT `+postColumns+`
		 FROM content_posts
		 WHERE status = $1
		 ORDER BY created_at DESC`,
		string(s))
}

// ListScheduledBetween returns posts scheduled inside [from, to),
// ordered by schedule time. Served by idx_content_posts_scheduled_date;
// calendar-style views query this.
func (r *Repository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]content.Post, error) {
	return r.list(ctx,
		`SELECT `+postColumns+`
		 FROM content_posts
		 WHERE scheduled_date >= $1 AND scheduled_date < $2
		 ORDER BY scheduled_date`,
		from, to)
}

// ListRecent returns posts in recency order.
// Served by idx_content_posts_created_at.
func (r *Repository) ListRecent(ctx context.Context, limit, offset int) ([]content.Post, error) {
	return r.list(ctx,
		`SELECT `+postColumns+`
		 FROM content_posts
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset)
}

// list runs a query through the read gate and collects the rows.
func (r *Repository) list(ctx context.Context, sql string, args ...any) ([]content.Post, error) {
	if err := r.authorize(ctx, ActionRead, uuid.Nil); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (content.Post, error) {
		p, scanErr := scanPost(row)
		if scanErr != nil {
			return content.Post{}, scanErr
		}

		return *p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning posts: %w", err)
	}

	return posts, nil
}

// authorize consults the access gate and wraps denials.
func (r *Repository) authorize(ctx context.Context, action Action, id uuid.UUID) error {
	if err := r.authz.Authorize(ctx, action, id); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotAuthorized, action, err)
	}

	return nil
}

// scanPost reads one content_posts row in postColumns order.
func scanPost(row pgx.Row) (*content.Post, error) {
	var p content.Post

	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.ContentType, &p.Status, &p.SourceData,
		&p.OriginalContent, &p.EditHistory, &p.ScheduledDate, &p.Platform, &p.Tags,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// PostgreSQL error codes surfaced as constraint violations.
const (
	pgErrNotNullViolation = "23502" // missing required field
	pgErrCheckViolation   = "23514" // enum value outside its CHECK list
	pgErrStringTooLong    = "22001" // varchar length exceeded
)

// wrapWriteError maps constraint failures onto ErrConstraintViolation
// so callers can test with errors.Is regardless of which CHECK fired.
func wrapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrNotNullViolation, pgErrCheckViolation, pgErrStringTooLong:
			return fmt.Errorf("%s: %w: %s", op, ErrConstraintViolation, pgErr.Message)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
