// pkg/engine/persist_test.go
package engine

import (
	"bytes"
	"testing"
)

// Mirrors §8 scenario 6: a fresh database that opens a save of a populated
// one reproduces identical SELECT * results.
func TestSaveOpenRoundTrip(t *testing.T) {
	db := NewDatabase()
	mustExecute(t, db, "CREATE TABLE products (product_id INT PRIMARY KEY, name VARCHAR(20), price DOUBLE, weight FLOAT)")
	mustExecute(t, db, "INSERT INTO products(product_id, price) VALUES(239, 23.9)")
	mustExecute(t, db, "CREATE TABLE employee (emp_id INT PRIMARY KEY, first_name VARCHAR(20))")
	mustExecute(t, db, "INSERT INTO employee(emp_id, first_name) VALUES(1, 'A')")
	mustExecute(t, db, "INSERT INTO employee(emp_id) VALUES(2)")

	var buf bytes.Buffer
	if err := db.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh := NewDatabase()
	if err := fresh.Open(&buf); err != nil {
		t.Fatalf("Open: %v", err)
	}

	for _, name := range []string{"products", "employee"} {
		want := mustExecute(t, db, "SELECT * FROM "+name)
		got := mustExecute(t, fresh, "SELECT * FROM "+name)
		if want.Render() != got.Render() {
			t.Errorf("table %q round-trip mismatch:\nwant:\n%s\ngot:\n%s", name, want.Render(), got.Render())
		}
	}
}

func TestOpenClearsExistingCatalog(t *testing.T) {
	db := NewDatabase()
	mustExecute(t, db, "CREATE TABLE a (id INT PRIMARY KEY)")
	var buf bytes.Buffer
	if err := db.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	target := NewDatabase()
	mustExecute(t, target, "CREATE TABLE stale (id INT PRIMARY KEY)")
	if err := target.Open(&buf); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := target.Execute("SELECT * FROM stale"); err == nil {
		t.Fatal("expected the stale table to be gone after Open")
	}
	if _, err := target.Execute("SELECT * FROM a"); err != nil {
		t.Fatalf("expected table 'a' to be restored: %v", err)
	}
}

func TestPersistDistinguishesNullFromEmptyString(t *testing.T) {
	db := NewDatabase()
	mustExecute(t, db, "CREATE TABLE t (id INT PRIMARY KEY, note VARCHAR(10))")
	mustExecute(t, db, "INSERT INTO t(id) VALUES(1)")

	var buf bytes.Buffer
	if err := db.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	fresh := NewDatabase()
	if err := fresh.Open(&buf); err != nil {
		t.Fatalf("Open: %v", err)
	}
	resp := mustExecute(t, fresh, "SELECT * FROM t")
	noteCol, _ := resp.Table().Column("note")
	if !noteCol.At(0).IsNull() {
		t.Errorf("expected note to round-trip as NULL, got %q", noteCol.At(0).Render())
	}
}
