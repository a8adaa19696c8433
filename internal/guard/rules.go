package guard

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/SridharServico/Ghostprotocal/internal/schema"
)

// checkIfNotExists verifies that every CREATE TABLE / CREATE INDEX in the
// object's DDL carries IF NOT EXISTS and creates the declared name.
func checkIfNotExists(obj schema.Object, stmts []*pg_query.RawStmt) []Finding {
	var findings []Finding

	for _, stmt := range stmts {
		switch node := stmt.Stmt.Node.(type) {
		case *pg_query.Node_CreateStmt:
			if !node.CreateStmt.IfNotExists {
				findings = append(findings, Finding{
					Object:  obj.Name,
					Rule:    "create-missing-if-not-exists",
					Message: "CREATE TABLE lacks IF NOT EXISTS and fails on re-application",
				})
			}

			findings = append(findings, checkName(obj, node.CreateStmt.GetRelation().GetRelname())...)
		case *pg_query.Node_IndexStmt:
			if !node.IndexStmt.IfNotExists {
				findings = append(findings, Finding{
					Object:  obj.Name,
					Rule:    "create-missing-if-not-exists",
					Message: "CREATE INDEX lacks IF NOT EXISTS and fails on re-application",
				})
			}

			findings = append(findings, checkName(obj, node.IndexStmt.GetIdxname())...)
		default:
			findings = append(findings, unexpectedStatement(obj))
		}
	}

	return findings
}

// checkExistenceCheck verifies a runtime-guarded object: exactly one
// CREATE POLICY naming the object, optionally preceded by ALTER TABLE
// statements (enabling row-level security is idempotent by itself).
func checkExistenceCheck(obj schema.Object, stmts []*pg_query.RawStmt) []Finding {
	var findings []Finding

	policies := 0

	for _, stmt := range stmts {
		switch node := stmt.Stmt.Node.(type) {
		case *pg_query.Node_CreatePolicyStmt:
			policies++

			findings = append(findings, checkName(obj, node.CreatePolicyStmt.GetPolicyName())...)
		case *pg_query.Node_AlterTableStmt:
			// ALTER TABLE ... ENABLE ROW LEVEL SECURITY re-runs cleanly.
		default:
			findings = append(findings, unexpectedStatement(obj))
		}
	}

	if policies != 1 {
		findings = append(findings, Finding{
			Object:  obj.Name,
			Rule:    "policy-count",
			Message: fmt.Sprintf("expected exactly one CREATE POLICY, found %d", policies),
		})
	}

	return findings
}

// checkCreateOrReplace verifies the function definition uses
// CREATE OR REPLACE and defines the declared name.
func checkCreateOrReplace(obj schema.Object, stmts []*pg_query.RawStmt) []Finding {
	var findings []Finding

	for _, stmt := range stmts {
		node, ok := stmt.Stmt.Node.(*pg_query.Node_CreateFunctionStmt)
		if !ok {
			findings = append(findings, unexpectedStatement(obj))
			continue
		}

		fn := node.CreateFunctionStmt
		if !fn.Replace {
			findings = append(findings, Finding{
				Object:  obj.Name,
				Rule:    "function-missing-or-replace",
				Message: "CREATE FUNCTION without OR REPLACE fails on re-application",
			})
		}

		findings = append(findings, checkName(obj, functionName(fn))...)
	}

	return findings
}

// checkDropAndRecreate verifies the trigger rebind: the drop statement
// must be DROP TRIGGER IF EXISTS naming the object, and the create
// statement must recreate the same trigger name.
func (v *Verifier) checkDropAndRecreate(obj schema.Object, stmts []*pg_query.RawStmt) ([]Finding, error) {
	var findings []Finding

	if obj.DropSQL == "" {
		return []Finding{{
			Object:  obj.Name,
			Rule:    "missing-drop",
			Message: "drop-and-recreate object has no drop statement",
		}}, nil
	}

	dropStmts, err := v.parseFn(obj.DropSQL)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", obj.Name, err)
	}

	findings = append(findings, checkTriggerDrop(obj, dropStmts)...)

	for _, stmt := range stmts {
		node, ok := stmt.Stmt.Node.(*pg_query.Node_CreateTrigStmt)
		if !ok {
			findings = append(findings, unexpectedStatement(obj))
			continue
		}

		findings = append(findings, checkName(obj, node.CreateTrigStmt.GetTrigname())...)
	}

	return findings, nil
}

// checkTriggerDrop verifies a DROP TRIGGER IF EXISTS targeting obj.Name.
func checkTriggerDrop(obj schema.Object, stmts []*pg_query.RawStmt) []Finding {
	var findings []Finding

	for _, stmt := range stmts {
		node, ok := stmt.Stmt.Node.(*pg_query.Node_DropStmt)
		if !ok {
			findings = append(findings, unexpectedStatement(obj))
			continue
		}

		drop := node.DropStmt

		if drop.RemoveType != pg_query.ObjectType_OBJECT_TRIGGER {
			findings = append(findings, Finding{
				Object:  obj.Name,
				Rule:    "drop-wrong-object-type",
				Message: "drop statement does not remove a trigger",
			})

			continue
		}

		if !drop.MissingOk {
			findings = append(findings, Finding{
				Object:  obj.Name,
				Rule:    "drop-missing-if-exists",
				Message: "DROP TRIGGER lacks IF EXISTS and fails on first application",
			})
		}

		if !dropTargets(drop, obj.Name) {
			findings = append(findings, Finding{
				Object:  obj.Name,
				Rule:    "object-name-mismatch",
				Message: fmt.Sprintf("drop statement does not target trigger %q", obj.Name),
			})
		}
	}

	return findings
}

// dropTargets reports whether the drop statement names the given object.
// Trigger drop targets are qualified lists like (table, trigger).
func dropTargets(drop *pg_query.DropStmt, name string) bool {
	for _, objNode := range drop.GetObjects() {
		list := objNode.GetList()
		if list == nil {
			continue
		}

		for _, item := range list.GetItems() {
			if s := item.GetString_(); s != nil && s.GetSval() == name {
				return true
			}
		}
	}

	return false
}

// functionName extracts the unqualified name from a CREATE FUNCTION statement.
func functionName(fn *pg_query.CreateFunctionStmt) string {
	names := fn.GetFuncname()
	if len(names) == 0 {
		return ""
	}

	last := names[len(names)-1].GetString_()
	if last == nil {
		return ""
	}

	return last.GetSval()
}

// checkName flags a created name that differs from the declared object
// name; the applier's runtime existence check would probe the wrong name.
func checkName(obj schema.Object, created string) []Finding {
	if created == obj.Name {
		return nil
	}

	return []Finding{{
		Object:  obj.Name,
		Rule:    "object-name-mismatch",
		Message: fmt.Sprintf("DDL creates %q but the object declares %q", created, obj.Name),
	}}
}

// unexpectedStatement flags a statement kind the guard cannot prove safe.
func unexpectedStatement(obj schema.Object) Finding {
	return Finding{
		Object:  obj.Name,
		Rule:    "unexpected-statement",
		Message: "statement kind does not match the object's declared guard",
	}
}
