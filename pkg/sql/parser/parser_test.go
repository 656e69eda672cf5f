package parser

import (
	"testing"

	"reldb/pkg/sql/filter"
	"reldb/pkg/types"
)

func TestParseCreateTable(t *testing.T) {
	q, err := New("CREATE TABLE emp (id INT PRIMARY KEY, name VARCHAR(20) NOT NULL, salary DOUBLE)").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	create, ok := q.(*CreateTable)
	if !ok {
		t.Fatalf("expected *CreateTable, got %T", q)
	}
	if create.TableName != "emp" {
		t.Errorf("TableName = %q", create.TableName)
	}
	if len(create.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(create.Columns))
	}
	if create.PrimaryKey != 0 || !create.Columns[0].PrimaryKey {
		t.Errorf("expected column 0 to be the primary key")
	}
	if create.Columns[1].Type != types.Varchar || create.Columns[1].MaxLen != 20 {
		t.Errorf("expected VARCHAR(20), got %+v", create.Columns[1])
	}
	if !create.Columns[1].NotNull {
		t.Errorf("expected NOT NULL on column 1")
	}
	if create.Columns[2].Type != types.Double {
		t.Errorf("expected DOUBLE, got %v", create.Columns[2].Type)
	}
}

func TestParseCreateTableMissingPrimaryKey(t *testing.T) {
	_, err := New("CREATE TABLE emp (id INT)").Parse()
	if err == nil || err.Error() != "Primary key is not set" {
		t.Fatalf("expected 'Primary key is not set', got %v", err)
	}
}

func TestParseCreateTableBadVarchar(t *testing.T) {
	_, err := New("CREATE TABLE emp (id INT PRIMARY KEY, name VARCHAR() NOT NULL)").Parse()
	if err == nil {
		t.Fatal("expected an error for an empty VARCHAR size")
	}
}

func TestParseDropTable(t *testing.T) {
	q, err := New("DROP TABLE emp").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	drop, ok := q.(*DropTable)
	if !ok {
		t.Fatalf("expected *DropTable, got %T", q)
	}
	if drop.TableName != "emp" {
		t.Errorf("TableName = %q", drop.TableName)
	}
}

func TestParseInsert(t *testing.T) {
	q, err := New("INSERT INTO emp (id, name, salary) VALUES (1, 'John Doe', 1000.5)").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	ins, ok := q.(*Insert)
	if !ok {
		t.Fatalf("expected *Insert, got %T", q)
	}
	if ins.TableName != "emp" {
		t.Errorf("TableName = %q", ins.TableName)
	}
	want := map[string]string{"id": "1", "name": "John Doe", "salary": "1000.5"}
	for k, v := range want {
		if ins.Data[k] != v {
			t.Errorf("Data[%q] = %q, want %q", k, ins.Data[k], v)
		}
	}
}

func TestParseInsertColumnValueMismatch(t *testing.T) {
	_, err := New("INSERT INTO emp (id, name) VALUES (1, 'a', 'b')").Parse()
	if err == nil || err.Error() != "Invalid query" {
		t.Fatalf("expected 'Invalid query', got %v", err)
	}
}

func TestParseSelectStar(t *testing.T) {
	q, err := New("SELECT * FROM emp").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	sel, ok := q.(*Select)
	if !ok {
		t.Fatalf("expected *Select, got %T", q)
	}
	if !sel.AllColumns || sel.TableName1 != "emp" {
		t.Errorf("got %+v", sel)
	}
}

// Mirrors §8 scenario 3: AND binds tighter than OR.
func TestParseSelectWhere(t *testing.T) {
	q, err := New("SELECT * FROM emp WHERE salary <> 80000 AND sex='M' OR sex='F'").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	sel := q.(*Select)
	want := []filter.Token{
		{Kind: filter.Var, Lexeme: "salary"}, {Kind: filter.Const, Lexeme: "80000"}, {Kind: filter.Neq},
		{Kind: filter.Var, Lexeme: "sex"}, {Kind: filter.Const, Lexeme: "M"}, {Kind: filter.Eq}, {Kind: filter.And},
		{Kind: filter.Var, Lexeme: "sex"}, {Kind: filter.Const, Lexeme: "F"}, {Kind: filter.Eq}, {Kind: filter.Or},
	}
	if len(sel.Filters) != len(want) {
		t.Fatalf("got %d filter tokens, want %d: %+v", len(sel.Filters), len(want), sel.Filters)
	}
	for i := range want {
		if sel.Filters[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, sel.Filters[i], want[i])
		}
	}
}

func TestParseSelectJoin(t *testing.T) {
	q, err := New("SELECT emp.name, dept.name FROM emp JOIN dept ON emp.dept_id = dept.id").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	sel := q.(*Select)
	if !sel.IsJoin || sel.JoinType != InnerJoin {
		t.Fatalf("expected an inner join, got %+v", sel)
	}
	if sel.TableName1 != "emp" || sel.TableName2 != "dept" {
		t.Errorf("got tables %q/%q", sel.TableName1, sel.TableName2)
	}
	if sel.JoinColumn1 != "dept_id" || sel.JoinColumn2 != "id" {
		t.Errorf("got join columns %q/%q", sel.JoinColumn1, sel.JoinColumn2)
	}
	if len(sel.Columns1) != 1 || sel.Columns1[0] != "name" {
		t.Errorf("Columns1 = %v", sel.Columns1)
	}
	if len(sel.Columns2) != 1 || sel.Columns2[0] != "name" {
		t.Errorf("Columns2 = %v", sel.Columns2)
	}
}

func TestParseSelectLeftJoin(t *testing.T) {
	q, err := New("SELECT * FROM emp LEFT JOIN dept ON emp.dept_id = dept.id").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	sel := q.(*Select)
	if sel.JoinType != LeftJoin {
		t.Errorf("expected LeftJoin, got %v", sel.JoinType)
	}
}

// A WHERE clause that is itself immediately followed by JOIN must still
// hand the JOIN keyword back to the statement parser (§4.4).
func TestParseSelectWhereThenJoin(t *testing.T) {
	q, err := New("SELECT * FROM emp WHERE salary > 1000 JOIN dept ON emp.dept_id = dept.id").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	sel := q.(*Select)
	if !sel.IsJoin {
		t.Fatal("expected IsJoin true")
	}
	if len(sel.Filters) != 3 {
		t.Fatalf("expected 3 filter tokens, got %+v", sel.Filters)
	}
}

func TestParseUpdate(t *testing.T) {
	q, err := New("UPDATE emp SET salary = 2000 WHERE id = 1").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	upd, ok := q.(*Update)
	if !ok {
		t.Fatalf("expected *Update, got %T", q)
	}
	if upd.TableName != "emp" {
		t.Errorf("TableName = %q", upd.TableName)
	}
	if upd.Values["salary"] != "2000" {
		t.Errorf("Values[salary] = %q", upd.Values["salary"])
	}
	if len(upd.Filters) != 3 {
		t.Errorf("expected 3 filter tokens, got %+v", upd.Filters)
	}
}

func TestParseUpdateMultipleColumns(t *testing.T) {
	q, err := New("UPDATE emp SET salary = 2000, name = John").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	upd := q.(*Update)
	if upd.Values["salary"] != "2000" || upd.Values["name"] != "John" {
		t.Errorf("got %+v", upd.Values)
	}
}

func TestParseDeleteAll(t *testing.T) {
	q, err := New("DELETE FROM emp").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	del := q.(*Delete)
	if !del.AllRows {
		t.Error("expected AllRows true with no WHERE clause")
	}
}

func TestParseDeleteWhere(t *testing.T) {
	q, err := New("DELETE FROM emp WHERE id = 1").Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	del := q.(*Delete)
	if del.AllRows {
		t.Error("expected AllRows false with a WHERE clause")
	}
	if len(del.Filters) != 3 {
		t.Errorf("expected 3 filter tokens, got %+v", del.Filters)
	}
}

func TestParseUnsupportedQuery(t *testing.T) {
	_, err := New("EXPLAIN SELECT * FROM emp").Parse()
	if err == nil {
		t.Fatal("expected an error for an unsupported query")
	}
}
