package schema

// createTableSQL is the ContentPost entity definition. The CHECK
// constraints keep content_type and status inside their enumerations at
// the storage layer; the defaults let a caller omit id, status,
// source_data, edit_history, created_at, and updated_at entirely.
const createTableSQL = `CREATE TABLE IF NOT EXISTS content_posts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title VARCHAR(255),
    content TEXT NOT NULL,
    content_type VARCHAR(50) NOT NULL CHECK (content_type IN ('create_post', 'lead_magnet')),
    status VARCHAR(50) NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'scheduled', 'published', 'archived')),
    source_data JSONB NOT NULL DEFAULT '{}'::jsonb,
    original_content TEXT,
    edit_history JSONB NOT NULL DEFAULT '[]'::jsonb,
    scheduled_date TIMESTAMPTZ,
    platform VARCHAR(50),
    tags TEXT[],
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// createPolicySQL enables row-level security and attaches a permissive
// allow-everything policy. This is an explicit placeholder until a real
// authorization model exists; CREATE POLICY has no IF NOT EXISTS form,
// so the applier pre-checks pg_policies in the same transaction.
const createPolicySQL = `ALTER TABLE content_posts ENABLE ROW LEVEL SECURITY;
CREATE POLICY content_posts_allow_all ON content_posts
    FOR ALL
    USING (true)
    WITH CHECK (true)`

// The four secondary indexes exist purely for read-path performance:
// equality filters on content_type and status, range scans on
// scheduled_date for calendar views, and recency-ordered listing.
// None participates in any constraint.
const (
	createIndexTypeSQL = `CREATE INDEX IF NOT EXISTS idx_content_posts_content_type
    ON content_posts (content_type)`

	createIndexStatusSQL = `CREATE INDEX IF NOT EXISTS idx_content_posts_status
    ON content_posts (status)`

	createIndexSchedSQL = `CREATE INDEX IF NOT EXISTS idx_content_posts_scheduled_date
    ON content_posts (scheduled_date)`

	createIndexRecentSQL = `CREATE INDEX IF NOT EXISTS idx_content_posts_created_at
    ON content_posts (created_at DESC)`
)

// createFunctionSQL defines the freshness routine. It overwrites
// NEW.updated_at with the transaction time regardless of what the
// caller supplied, making the column non-client-settable in practice.
const createFunctionSQL = `CREATE OR REPLACE FUNCTION set_updated_at()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql`

// dropTriggerSQL and createTriggerSQL rebind the freshness routine to
// the table. Drop-then-create in one transaction leaves exactly one
// binding in effect: never zero, never duplicated.
const (
	dropTriggerSQL = `DROP TRIGGER IF EXISTS content_posts_set_updated_at ON content_posts`

	createTriggerSQL = `CREATE TRIGGER content_posts_set_updated_at
    BEFORE UPDATE ON content_posts
    FOR EACH ROW
    EXECUTE FUNCTION set_updated_at()`
)
