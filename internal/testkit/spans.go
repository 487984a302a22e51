// Package testkit holds invariant checks shared by parser and
// evaluator tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"cascade/internal/ast"
	"cascade/internal/source"
)

// CheckSpanInvariants verifies the span bookkeeping of a parsed file:
// every statement span is non-empty, points at the file it was parsed
// from, and lies within the file's content bounds.
func CheckSpanInvariants(file *ast.File, sf *source.File) error {
	if file == nil || sf == nil {
		return fmt.Errorf("nil file")
	}
	limit, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("content length overflow: %w", err)
	}
	for i, s := range file.Statements {
		if err := checkStmt(s, sf, limit); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	return nil
}

func checkStmt(s ast.Statement, sf *source.File, limit uint32) error {
	if err := checkSpan(s.Span(), sf, limit); err != nil {
		return err
	}
	switch s := s.(type) {
	case *ast.AssignStatement:
		return checkExpr(s.Value, sf, limit)
	case *ast.FunctionDef:
		return checkBody(s.Body, sf, limit)
	case *ast.ModuleDef:
		return checkBody(s.Body, sf, limit)
	case *ast.WorkbenchDef:
		return checkBody(s.Body, sf, limit)
	case *ast.ReturnStatement:
		if s.Value != nil {
			return checkExpr(s.Value, sf, limit)
		}
	case *ast.IfStatement:
		if err := checkExpr(s.Cond, sf, limit); err != nil {
			return err
		}
		if err := checkBody(s.Then, sf, limit); err != nil {
			return err
		}
		return checkBody(s.Else, sf, limit)
	case *ast.ExpressionStatement:
		return checkExpr(s.Expr, sf, limit)
	}
	return nil
}

func checkBody(b *ast.Body, sf *source.File, limit uint32) error {
	if b == nil {
		return nil
	}
	for _, s := range b.Statements {
		if err := checkStmt(s, sf, limit); err != nil {
			return err
		}
	}
	return nil
}

func checkExpr(e ast.Expression, sf *source.File, limit uint32) error {
	if e == nil {
		return fmt.Errorf("nil expression")
	}
	if err := checkSpan(e.Span(), sf, limit); err != nil {
		return err
	}
	switch e := e.(type) {
	case *ast.ListExpr:
		for _, el := range e.Elems {
			if err := checkExpr(el, sf, limit); err != nil {
				return err
			}
		}
	case *ast.CallExpr:
		if err := checkExpr(e.Callee, sf, limit); err != nil {
			return err
		}
		for _, a := range e.Args {
			if err := checkExpr(a.Value, sf, limit); err != nil {
				return err
			}
		}
		if e.Trailing != nil {
			if err := checkExpr(e.Trailing, sf, limit); err != nil {
				return err
			}
		}
		return checkBody(e.Body, sf, limit)
	case *ast.GroupExpr:
		return checkBody(e.Body, sf, limit)
	case *ast.BinaryExpr:
		if err := checkExpr(e.LHS, sf, limit); err != nil {
			return err
		}
		return checkExpr(e.RHS, sf, limit)
	case *ast.UnaryExpr:
		return checkExpr(e.Operand, sf, limit)
	}
	return nil
}

func checkSpan(sp source.Span, sf *source.File, limit uint32) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("empty span %v", sp)
	}
	if sp.File != sf.ID {
		return fmt.Errorf("span file mismatch: got %d want %d", sp.File, sf.ID)
	}
	if sp.End > limit {
		return fmt.Errorf("span end %d beyond content length %d", sp.End, limit)
	}
	return nil
}
