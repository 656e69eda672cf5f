// pkg/engine/table.go
package engine

import (
	"github.com/pkg/errors"

	"reldb/pkg/sql/filter"
	"reldb/pkg/types"
)

// Table is a named-column collection with a row count (§3). columnOrder
// fixes a stable iteration order — declaration order for a created table,
// left-then-right for a joined one — resolving §4.10's note that column
// iteration order is otherwise unspecified.
type Table struct {
	columnOrder []string
	columns     map[string]*Column
	nRows       int
}

// NewTable returns an empty table ready for CreateColumn calls.
func NewTable() *Table {
	return &Table{columns: map[string]*Column{}}
}

// CreateColumn adds a fresh, empty column (§4.7).
func (t *Table) CreateColumn(name string, dataType types.DataType, maxLen int, notNull bool) {
	t.columnOrder = append(t.columnOrder, name)
	t.columns[name] = NewColumn(dataType, maxLen, notNull)
}

// SetPrimaryKey marks name as the table's primary key. Unlike the source,
// this also sets not_null true: allowing null in a primary key contradicts
// the uniqueness invariant (§9 open question 1).
func (t *Table) SetPrimaryKey(name string) {
	col := t.columns[name]
	col.SetNotNull(true)
	col.SetPrimary(true)
}

// Contains reports whether the table declares a column by this name.
func (t *Table) Contains(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.columns[name]
	return c, ok
}

// ColumnNames returns the table's columns in stable order.
func (t *Table) ColumnNames() []string {
	return append([]string(nil), t.columnOrder...)
}

// NumRows reports the table's row count.
func (t *Table) NumRows() int { return t.nRows }

// CreateRow emplaces one value per column from info, pushing Null for any
// column info does not mention. Every value is validated before any column
// is mutated, so a failure leaves the table entirely unchanged — fixing the
// non-transactional insert flagged in §9 open question 2.
func (t *Table) CreateRow(info map[string]string) error {
	pending := make(map[string]types.Value, len(t.columnOrder))
	for _, name := range t.columnOrder {
		col := t.columns[name]
		raw, ok := info[name]
		if !ok {
			pending[name] = types.Null()
			continue
		}
		v, err := col.parseEmplace(raw)
		if err != nil {
			return err
		}
		pending[name] = v
	}
	for _, name := range t.columnOrder {
		t.columns[name].PushValue(pending[name])
	}
	t.nRows++
	return nil
}

// matchingRows computes the rows satisfying filters, or all rows if filters
// is empty (§4.7).
func (t *Table) matchingRows(filters []filter.Token) ([]int, error) {
	if len(filters) == 0 {
		rows := make([]int, t.nRows)
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}
	var rows []int
	for i := 0; i < t.nRows; i++ {
		ok, err := t.check(filters, i)
		if err != nil {
			return nil, err
		}
		if ok {
			rows = append(rows, i)
		}
	}
	return rows, nil
}

// Select computes the rows satisfying filters, then projects the named
// columns into a new table (§4.7).
func (t *Table) Select(columnNames []string, filters []filter.Token) (*Table, error) {
	rows, err := t.matchingRows(filters)
	if err != nil {
		return nil, err
	}
	result := NewTable()
	for _, name := range columnNames {
		col, ok := t.columns[name]
		if !ok {
			return nil, errors.New("No column with given name")
		}
		result.columnOrder = append(result.columnOrder, name)
		result.columns[name] = col.Select(rows)
	}
	result.nRows = len(rows)
	return result, nil
}

// Update applies values to every column named, restricted to the rows
// satisfying filters (all rows if filters is empty). If any column fails,
// the columns already updated by this call are restored.
func (t *Table) Update(values map[string]string, filters []filter.Token) error {
	rows, err := t.matchingRows(filters)
	if err != nil {
		return err
	}
	saved := make(map[*Column][]types.Value, len(values))
	rollback := func() {
		for col, vals := range saved {
			col.values = vals
		}
	}
	for name, raw := range values {
		col, ok := t.columns[name]
		if !ok {
			rollback()
			return errors.New("No column with given name")
		}
		saved[col] = append([]types.Value(nil), col.values...)
		if err := col.Update(rows, raw); err != nil {
			rollback()
			return err
		}
	}
	return nil
}

// Delete removes the rows satisfying filters (all rows if filters is
// empty), decrementing n_rows.
func (t *Table) Delete(filters []filter.Token) error {
	rows, err := t.matchingRows(filters)
	if err != nil {
		return err
	}
	for _, name := range t.columnOrder {
		t.columns[name].Delete(rows)
	}
	t.nRows -= len(rows)
	return nil
}

// DeleteAll empties every column and resets the row count.
func (t *Table) DeleteAll() {
	for _, name := range t.columnOrder {
		t.columns[name].DeleteAll()
	}
	t.nRows = 0
}

// RemoveColumn drops a column, used to strip a join key that was pulled in
// only to keep row alignment correct (see Database.selectQuery).
func (t *Table) RemoveColumn(name string) {
	delete(t.columns, name)
	for i, n := range t.columnOrder {
		if n == name {
			t.columnOrder = append(t.columnOrder[:i], t.columnOrder[i+1:]...)
			break
		}
	}
}

// Join produces a new table whose schema is the union of t's and other's
// (§4.8). Column-name collisions between the two schemas are rejected
// rather than silently aliased, resolving §9 open question 3.
//
// For each row i of t (iterating keyA), other is nested-scanned over keyB
// for the first matching row j. A match, or is_inner=false, emits a row:
// t's values at i, and other's values at j if matched else Null for each
// of other's columns. Only the first match per left row is taken — not a
// Cartesian product for many-to-many keys (§9 open question 4, preserved
// as specified).
func (t *Table) Join(other *Table, keyA, keyB string, isInner bool) (*Table, error) {
	for _, name := range t.columnOrder {
		if other.Contains(name) {
			return nil, errors.Errorf("column %q is ambiguous between the joined tables", name)
		}
	}
	colA, ok := t.columns[keyA]
	if !ok {
		return nil, errors.New("No column with given name")
	}
	colB, ok := other.columns[keyB]
	if !ok {
		return nil, errors.New("No column with given name")
	}

	result := NewTable()
	for _, name := range t.columnOrder {
		result.columnOrder = append(result.columnOrder, name)
		result.columns[name] = &Column{dataType: t.columns[name].dataType, maxLen: t.columns[name].maxLen}
	}
	for _, name := range other.columnOrder {
		result.columnOrder = append(result.columnOrder, name)
		result.columns[name] = &Column{dataType: other.columns[name].dataType, maxLen: other.columns[name].maxLen}
	}

	for i := 0; i < colA.Size(); i++ {
		found := false
		j := 0
		for ; j < colB.Size(); j++ {
			if colA.At(i).Equal(colB.At(j)) {
				found = true
				break
			}
		}
		if !found && isInner {
			continue
		}
		for _, name := range t.columnOrder {
			result.columns[name].PushValue(t.columns[name].At(i))
		}
		for _, name := range other.columnOrder {
			if found {
				result.columns[name].PushValue(other.columns[name].At(j))
			} else {
				result.columns[name].PushValue(types.Null())
			}
		}
		result.nRows++
	}
	return result, nil
}
