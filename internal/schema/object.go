// Package schema declares the content_posts table and its dependent
// objects (indexes, access policy, updated_at trigger) as a fixed,
// ordered list of guarded DDL statements.
package schema

// Kind identifies what sort of database object an Object creates.
type Kind string

// Object kinds, matching the pg_catalog relation each is checked against.
const (
	KindTable    Kind = "table"
	KindIndex    Kind = "index"
	KindPolicy   Kind = "policy"
	KindFunction Kind = "function"
	KindTrigger  Kind = "trigger"
)

// Guard describes how an Object's DDL stays safe to re-run.
type Guard int

const (
	// GuardIfNotExists relies on IF NOT EXISTS in the CREATE statement.
	GuardIfNotExists Guard = iota
	// GuardExistenceCheck relies on a pg_catalog pre-check run in the
	// same transaction as the CREATE. Used where SQL offers no
	// IF NOT EXISTS form (CREATE POLICY).
	GuardExistenceCheck
	// GuardCreateOrReplace relies on CREATE OR REPLACE overwriting the
	// previous definition in place.
	GuardCreateOrReplace
	// GuardDropAndRecreate drops any previous object (IF EXISTS) and
	// recreates it in the same transaction, leaving exactly one.
	GuardDropAndRecreate
)

// String returns the guard's label for progress output.
func (g Guard) String() string {
	switch g {
	case GuardIfNotExists:
		return "if-not-exists"
	case GuardExistenceCheck:
		return "existence-check"
	case GuardCreateOrReplace:
		return "create-or-replace"
	case GuardDropAndRecreate:
		return "drop-and-recreate"
	default:
		return "unknown"
	}
}

// Object is one structural piece of the schema: a deterministic name,
// the DDL that creates it, and the guard that makes re-application safe.
type Object struct {
	Name      string // deterministic object name used for existence checks
	Kind      Kind
	Guard     Guard
	CreateSQL string
	DropSQL   string // only set for GuardDropAndRecreate
}

// Deterministic object names. Repeated application detects existing
// objects by these names.
const (
	TableName       = "content_posts"
	PolicyName      = "content_posts_allow_all"
	FunctionName    = "set_updated_at"
	TriggerName     = "content_posts_set_updated_at"
	IndexTypeName   = "idx_content_posts_content_type"
	IndexStatusName = "idx_content_posts_status"
	IndexSchedName  = "idx_content_posts_scheduled_date"
	IndexRecentName = "idx_content_posts_created_at"
)

// Objects returns the schema objects in application order. Later objects
// reference earlier ones by name, so the order is load-bearing:
// table, access policy, indexes, trigger function, trigger binding.
func Objects() []Object {
	return []Object{
		{
			Name:      TableName,
			Kind:      KindTable,
			Guard:     GuardIfNotExists,
			CreateSQL: createTableSQL,
		},
		{
			Name:      PolicyName,
			Kind:      KindPolicy,
			Guard:     GuardExistenceCheck,
			CreateSQL: createPolicySQL,
		},
		{
			Name:      IndexTypeName,
			Kind:      KindIndex,
			Guard:     GuardIfNotExists,
			CreateSQL: createIndexTypeSQL,
		},
		{
			Name:      IndexStatusName,
			Kind:      KindIndex,
			Guard:     GuardIfNotExists,
			CreateSQL: createIndexStatusSQL,
		},
		{
			Name:      IndexSchedName,
			Kind:      KindIndex,
			Guard:     GuardIfNotExists,
			CreateSQL: createIndexSchedSQL,
		},
		{
			Name:      IndexRecentName,
			Kind:      KindIndex,
			Guard:     GuardIfNotExists,
			CreateSQL: createIndexRecentSQL,
		},
		{
			Name:      FunctionName,
			Kind:      KindFunction,
			Guard:     GuardCreateOrReplace,
			CreateSQL: createFunctionSQL,
		},
		{
			Name:      TriggerName,
			Kind:      KindTrigger,
			Guard:     GuardDropAndRecreate,
			CreateSQL: createTriggerSQL,
			DropSQL:   dropTriggerSQL,
		},
	}
}
