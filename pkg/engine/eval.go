// pkg/engine/eval.go
package engine

import (
	"github.com/pkg/errors"

	"reldb/pkg/sql/filter"
	"reldb/pkg/types"
)

// check walks filters with an operand stack, resolving Var tokens against
// row and casting Const tokens against whichever side of the operator is
// typed (§4.7 predicate evaluator).
func (t *Table) check(filters []filter.Token, row int) (bool, error) {
	stack := make([]filter.Token, 0, len(filters))
	for _, f := range filters {
		switch f.Kind {
		case filter.Var, filter.Const:
			stack = append(stack, f)
		default:
			if len(stack) < 2 {
				return false, errors.New("Invalid logic expression")
			}
			t2 := stack[len(stack)-1]
			t1 := stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			a, err := t.resolveOperand(t1, t2, row)
			if err != nil {
				return false, err
			}
			b, err := t.resolveOperand(t2, t1, row)
			if err != nil {
				return false, err
			}
			result, err := compareValues(f.Kind, a, b)
			if err != nil {
				return false, err
			}
			lexeme := "0"
			if result {
				lexeme = "1"
			}
			stack = append(stack, filter.Token{Kind: filter.Res, Lexeme: lexeme})
		}
	}
	if len(stack) != 1 {
		return false, errors.New("Invalid logic expression")
	}
	v, err := types.Cast(stack[0].Lexeme, types.Bool)
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

// resolveOperand resolves self to a Value for the current row: a Var reads
// the column; a Const is cast against the other side's column type if that
// side is a Var, else cast to BOOL (§4.7). Against BOOL, the tokenizer's
// TRUE/FALSE constants resolve to true/false.
func (t *Table) resolveOperand(self, other filter.Token, row int) (types.Value, error) {
	switch self.Kind {
	case filter.Var:
		col, ok := t.columns[self.Lexeme]
		if !ok {
			return types.Value{}, errors.New("No column with given name")
		}
		return col.At(row), nil
	case filter.Const:
		target := types.Bool
		if other.Kind == filter.Var {
			col, ok := t.columns[other.Lexeme]
			if !ok {
				return types.Value{}, errors.New("No column with given name")
			}
			target = col.Type()
		}
		if target == types.Bool && (self.Lexeme == "TRUE" || self.Lexeme == "FALSE") {
			return types.NewBool(self.Lexeme == "TRUE"), nil
		}
		return types.Cast(self.Lexeme, target)
	default: // Res, produced by a prior comparison
		return types.Cast(self.Lexeme, types.Bool)
	}
}

// compareValues implements the six comparison operators plus AND/OR, which
// require both operands to be Bool (§4.7). An unsupported operator fails
// with "Invalid operation".
func compareValues(op filter.Kind, a, b types.Value) (bool, error) {
	switch op {
	case filter.Eq:
		return a.Equal(b), nil
	case filter.Neq:
		return !a.Equal(b), nil
	case filter.Gt, filter.Lt, filter.Gte, filter.Lte:
		cmp, ok := a.Compare(b)
		if !ok {
			return false, errors.New("Invalid operation")
		}
		switch op {
		case filter.Gt:
			return cmp > 0, nil
		case filter.Lt:
			return cmp < 0, nil
		case filter.Gte:
			return cmp >= 0, nil
		default:
			return cmp <= 0, nil
		}
	case filter.Or, filter.And:
		if a.IsNull() || b.IsNull() || a.Type() != types.Bool || b.Type() != types.Bool {
			return false, errors.New("Invalid operation")
		}
		if op == filter.Or {
			return a.Bool() || b.Bool(), nil
		}
		return a.Bool() && b.Bool(), nil
	default:
		return false, errors.New("Invalid operation")
	}
}
