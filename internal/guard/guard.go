// Package guard statically verifies that each schema object's DDL
// implements its declared re-application guard, using the real
// PostgreSQL parser. Unguarded DDL is how double-application conflicts
// happen, so apply refuses to run objects with findings.
package guard

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

// Finding reports one way an object's DDL fails to match its guard.
type Finding struct {
	Object  string // schema object name
	Rule    string // rule identifier (e.g., "create-missing-if-not-exists")
	Message string
}

// Option configures a Verifier.
type Option func(*Verifier)

// Verifier checks schema objects against their declared guards.
type Verifier struct {
	parseFn func(sql string) ([]*pg_query.RawStmt, error)
}

// New creates a Verifier with the given options.
func New(opts ...Option) *Verifier {
	v := &Verifier{parseFn: parseStatements}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// WithParser overrides the SQL parser function (useful for testing).
func WithParser(fn func(string) ([]*pg_query.RawStmt, error)) Option {
	return func(v *Verifier) { v.parseFn = fn }
}

// Verify checks a single object's DDL against its declared guard.
func (v *Verifier) Verify(obj schema.Object) ([]Finding, error) {
	stmts, err := v.parseFn(obj.CreateSQL)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", obj.Name, err)
	}

	switch obj.Guard {
	case schema.GuardIfNotExists:
		return checkIfNotExists(obj, stmts), nil
	case schema.GuardExistenceCheck:
		return checkExistenceCheck(obj, stmts), nil
	case schema.GuardCreateOrReplace:
		return checkCreateOrReplace(obj, stmts), nil
	case schema.GuardDropAndRecreate:
		return v.checkDropAndRecreate(obj, stmts)
	default:
		return []Finding{{
			Object:  obj.Name,
			Rule:    "unknown-guard",
			Message: fmt.Sprintf("object declares unknown guard %d", obj.Guard),
		}}, nil
	}
}

// VerifyAll checks every object and returns the combined findings.
func (v *Verifier) VerifyAll(objects []schema.Object) ([]Finding, error) {
	var findings []Finding

	for i := range objects {
		fs, err := v.Verify(objects[i])
		if err != nil {
			return nil, err
		}

		findings = append(findings, fs...)
	}

	return findings, nil
}

// parseStatements parses a DDL string into raw statements. Empty or
// whitespace-only input yields zero statements.
func parseStatements(sql string) ([]*pg_query.RawStmt, error) {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return nil, nil
	}

	tree, err := pg_query.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parsing DDL: %w", err)
	}

	return tree.Stmts, nil
}
