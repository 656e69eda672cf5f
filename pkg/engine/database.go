// pkg/engine/database.go
package engine

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"reldb/pkg/sql/parser"
)

// Database dispatches parsed queries to table operators and owns the table
// catalog (§4.9). tableOrder fixes a stable save/enumeration order.
type Database struct {
	tableOrder []string
	tables     map[string]*Table
}

// NewDatabase returns an empty catalog.
func NewDatabase() *Database {
	return &Database{tables: map[string]*Table{}}
}

// TableNames returns the catalog's tables in creation order.
func (db *Database) TableNames() []string {
	return append([]string(nil), db.tableOrder...)
}

func (db *Database) addTable(name string, t *Table) {
	if _, exists := db.tables[name]; !exists {
		db.tableOrder = append(db.tableOrder, name)
	}
	db.tables[name] = t
}

func (db *Database) removeTable(name string) {
	delete(db.tables, name)
	for i, n := range db.tableOrder {
		if n == name {
			db.tableOrder = append(db.tableOrder[:i], db.tableOrder[i+1:]...)
			break
		}
	}
}

// Execute parses query_text and dispatches it to the matching table-engine
// operation, returning the resulting Response or the first error
// encountered. No partial state is visible on error (§4.9, §7).
func (db *Database) Execute(queryText string) (*Response, error) {
	q, err := parser.New(queryText).Parse()
	if err != nil {
		zap.S().Infow("query failed to parse", "query", queryText, "error", err)
		return nil, err
	}

	var resp *Response
	switch query := q.(type) {
	case *parser.CreateTable:
		resp, err = db.createTable(query)
	case *parser.DropTable:
		resp, err = db.dropTable(query)
	case *parser.Insert:
		resp, err = db.insert(query)
	case *parser.Select:
		resp, err = db.selectQuery(query)
	case *parser.Update:
		resp, err = db.update(query)
	case *parser.Delete:
		resp, err = db.deleteQuery(query)
	default:
		return nil, errors.Errorf("engine: unrecognized query descriptor %T", q)
	}
	if err != nil {
		zap.S().Infow("query execution failed", "query", queryText, "error", err)
		return nil, err
	}
	return resp, nil
}

func (db *Database) createTable(q *parser.CreateTable) (*Response, error) {
	t := NewTable()
	for _, c := range q.Columns {
		t.CreateColumn(c.Name, c.Type, c.MaxLen, c.NotNull)
	}
	t.SetPrimaryKey(q.Columns[q.PrimaryKey].Name)
	db.addTable(q.TableName, t)
	return NewMessageResponse("Table is successfully created"), nil
}

// dropTable errors on an absent table, matching the policy now also applied
// to Delete — the source's inconsistency between a silent DROP and an
// erroring DELETE is resolved in favor of the stricter, consistent
// behavior (§9 open question 5).
func (db *Database) dropTable(q *parser.DropTable) (*Response, error) {
	if !db.hasTable(q.TableName) {
		return nil, errors.Errorf("No table with name '%s'", q.TableName)
	}
	db.removeTable(q.TableName)
	return NewMessageResponse(fmt.Sprintf("Table '%s' was successfully dropped", q.TableName)), nil
}

func (db *Database) insert(q *parser.Insert) (*Response, error) {
	t, ok := db.tables[q.TableName]
	if !ok {
		return nil, errors.Errorf("No table with name '%s'", q.TableName)
	}
	if err := t.CreateRow(q.Data); err != nil {
		return nil, err
	}
	return NewMessageResponse("Information is successfully inserted"), nil
}

func (db *Database) hasTable(name string) bool {
	_, ok := db.tables[name]
	return ok
}

// selectQuery resolves unqualified columns, applies the filter/projection,
// and — for a join — folds in the second table. Unqualified-column
// resolution is scoped to only the one or two tables named in the query,
// not the whole catalog (§9 open question 9).
func (db *Database) selectQuery(q *parser.Select) (*Response, error) {
	t1, ok := db.tables[q.TableName1]
	if !ok {
		return nil, errors.Errorf("No table with name '%s'", q.TableName1)
	}

	var t2 *Table
	if q.TableName2 != "" {
		t2, ok = db.tables[q.TableName2]
		if !ok {
			return nil, errors.Errorf("No table with name '%s'", q.TableName2)
		}
	}

	columns1 := append([]string(nil), q.Columns1...)
	columns2 := append([]string(nil), q.Columns2...)

	switch {
	case q.AllColumns:
		columns1 = t1.ColumnNames()
	case len(q.UnqualifiedColumns) > 0:
		for _, name := range q.UnqualifiedColumns {
			inT1 := t1.Contains(name)
			inT2 := t2 != nil && t2.Contains(name)
			switch {
			case inT1 && inT2:
				return nil, errors.New("Ambiguous column selection")
			case inT1:
				columns1 = append(columns1, name)
			case inT2:
				columns2 = append(columns2, name)
			default:
				return nil, errors.New("No column with given name")
			}
		}
	}

	if !q.IsJoin {
		result, err := t1.Select(columns1, q.Filters)
		if err != nil {
			return nil, err
		}
		return NewTableResponse(result), nil
	}
	if t2 == nil {
		return nil, errors.New("Invalid query")
	}

	resolvedKeyA, resolvedKeyB, err := resolveJoinKeys(t1, t2, q.JoinColumn1, q.JoinColumn2)
	if err != nil {
		return nil, err
	}

	added1 := includeColumn(&columns1, resolvedKeyA)
	added2 := includeColumn(&columns2, resolvedKeyB)

	projected1, err := t1.Select(columns1, q.Filters)
	if err != nil {
		return nil, err
	}
	projected2, err := t2.Select(columns2, nil)
	if err != nil {
		return nil, err
	}

	var joined *Table
	switch q.JoinType {
	case parser.LeftJoin:
		joined, err = projected1.Join(projected2, resolvedKeyA, resolvedKeyB, false)
	case parser.RightJoin:
		joined, err = projected2.Join(projected1, resolvedKeyB, resolvedKeyA, false)
	default:
		joined, err = projected1.Join(projected2, resolvedKeyA, resolvedKeyB, true)
	}
	if err != nil {
		return nil, err
	}
	if added1 {
		joined.RemoveColumn(resolvedKeyA)
	}
	if added2 {
		joined.RemoveColumn(resolvedKeyB)
	}
	return NewTableResponse(joined), nil
}

// resolveJoinKeys figures out which side of the parsed ON clause belongs to
// which table, since "a.x = b.y" may appear with either table named first.
func resolveJoinKeys(t1, t2 *Table, keyA, keyB string) (string, string, error) {
	switch {
	case t1.Contains(keyA) && t2.Contains(keyB):
		return keyA, keyB, nil
	case t1.Contains(keyB) && t2.Contains(keyA):
		return keyB, keyA, nil
	default:
		return "", "", errors.New("No column with given name")
	}
}

// includeColumn appends name to *columns if absent, reporting whether it
// added it. The join operator needs both key columns present, with row
// alignment consistent with any WHERE filter already applied — pulling the
// key in here (rather than reading it from the unfiltered source table, as
// the original source does) keeps row indices aligned when a WHERE clause
// narrows table1 before the join runs.
func includeColumn(columns *[]string, name string) bool {
	for _, c := range *columns {
		if c == name {
			return false
		}
	}
	*columns = append(*columns, name)
	return true
}

func (db *Database) update(q *parser.Update) (*Response, error) {
	t, ok := db.tables[q.TableName]
	if !ok {
		return nil, errors.Errorf("No table with name '%s'", q.TableName)
	}
	if err := t.Update(q.Values, q.Filters); err != nil {
		return nil, err
	}
	return NewMessageResponse("Information was successfully updated"), nil
}

func (db *Database) deleteQuery(q *parser.Delete) (*Response, error) {
	t, ok := db.tables[q.TableName]
	if !ok {
		return nil, errors.Errorf("No table with name '%s'", q.TableName)
	}
	if q.AllRows {
		t.DeleteAll()
	} else if err := t.Delete(q.Filters); err != nil {
		return nil, err
	}
	return NewMessageResponse("Information was successfully deleted"), nil
}
