// pkg/sql/parser/ast.go
package parser

import (
	"reldb/pkg/sql/filter"
	"reldb/pkg/types"
)

// Query is a tagged union over the six statement kinds (§3, Query
// descriptor). Each concrete type below implements Query and carries
// exactly the fields its executor needs.
type Query interface {
	queryNode()
}

// ColumnDef is one column declaration inside CREATE TABLE.
type ColumnDef struct {
	Name       string
	Type       types.DataType
	MaxLen     int // 0 means "use the type's default" (§3)
	PrimaryKey bool
	NotNull    bool
}

// CreateTable is the descriptor for `CREATE TABLE` (§4.4).
type CreateTable struct {
	TableName  string
	Columns    []ColumnDef
	PrimaryKey int // index into Columns of the PRIMARY KEY column
}

func (*CreateTable) queryNode() {}

// DropTable is the descriptor for `DROP TABLE` (§4.4).
type DropTable struct {
	TableName string
}

func (*DropTable) queryNode() {}

// Insert is the descriptor for `INSERT` (§4.4): a column -> raw literal map,
// aligned positionally at parse time.
type Insert struct {
	TableName string
	Data      map[string]string
}

func (*Insert) queryNode() {}

// JoinKind distinguishes inner/left/right joins (§3).
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
)

// Select is the descriptor for `SELECT` (§4.4), covering the plain,
// filtered, and joined forms.
type Select struct {
	TableName1 string
	TableName2 string // set once a second table is referenced

	Columns1 []string // bound to TableName1
	Columns2 []string // bound to TableName2

	// UnqualifiedColumns holds bare column names from the SELECT list that
	// were not qualified with "table." at parse time; the dispatcher
	// resolves each to whichever of TableName1/TableName2 actually owns it
	// (§9 open question 9 — resolution is scoped to the two named tables,
	// not the whole catalog).
	UnqualifiedColumns []string

	AllColumns bool // SELECT *

	Filters []filter.Token // postfix; empty means no WHERE clause

	IsJoin       bool
	JoinType     JoinKind
	JoinColumn1  string // join key, bound to TableName1 when qualified
	JoinColumn2  string // join key, bound to TableName2 when qualified
	// A bare ON column name fills whichever join-key slot is free; the
	// dispatcher then matches each key to the table that owns it.
}

func (*Select) queryNode() {}

// Update is the descriptor for `UPDATE` (§4.4).
type Update struct {
	TableName string
	Values    map[string]string
	Filters   []filter.Token
}

func (*Update) queryNode() {}

// Delete is the descriptor for `DELETE` (§4.4).
type Delete struct {
	TableName string
	Filters   []filter.Token
	AllRows   bool
}

func (*Delete) queryNode() {}
