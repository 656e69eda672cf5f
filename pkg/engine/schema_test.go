// pkg/engine/schema_test.go
package engine

import (
	"strings"
	"testing"
)

func TestLoadSchemaCreatesTables(t *testing.T) {
	db := NewDatabase()
	doc := `
tables:
  - name: products
    columns:
      - name: product_id
        type: INT
        primary_key: true
      - name: name
        type: VARCHAR
        length: 20
      - name: price
        type: DOUBLE
  - name: employee
    columns:
      - name: emp_id
        type: INT
        primary_key: true
        not_null: true
      - name: first_name
        type: VARCHAR
        length: 20
`
	if err := db.LoadSchema(strings.NewReader(doc)); err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}

	if !db.hasTable("products") || !db.hasTable("employee") {
		t.Fatalf("expected both tables to exist, got %v", db.TableNames())
	}

	mustExecute(t, db, "INSERT INTO products(product_id, name, price) VALUES(1, 'Widget', 9.99)")
	resp := mustExecute(t, db, "SELECT * FROM products")
	if !strings.Contains(resp.Render(), "Widget") {
		t.Errorf("expected inserted row in rendered output, got: %s", resp.Render())
	}
}

func TestLoadSchemaRejectsMissingPrimaryKey(t *testing.T) {
	db := NewDatabase()
	doc := `
tables:
  - name: bad
    columns:
      - name: id
        type: INT
`
	if err := db.LoadSchema(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for a table with no primary key")
	}
}

func TestLoadSchemaRejectsUnknownType(t *testing.T) {
	db := NewDatabase()
	doc := `
tables:
  - name: bad
    columns:
      - name: id
        type: BLOB
        primary_key: true
`
	if err := db.LoadSchema(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for an unknown column type")
	}
}
