// pkg/engine/schema.go
package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// yamlSchema is a declarative bulk-create document: a list of tables with
// their columns, loaded in one pass instead of one CREATE TABLE statement
// at a time.
type yamlSchema struct {
	Tables []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Name    string       `yaml:"name"`
	Columns []yamlColumn `yaml:"columns"`
}

type yamlColumn struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Length     int    `yaml:"length,omitempty"`
	PrimaryKey bool   `yaml:"primary_key,omitempty"`
	NotNull    bool   `yaml:"not_null,omitempty"`
}

// LoadSchema reads a YAML document describing one or more tables and
// creates each of them in order, lowering every table to a CREATE TABLE
// statement and running it through the ordinary parser/dispatcher path
// rather than building tables by hand. On any table's failure, tables
// already created by this call are left in place; the caller can DROP them.
func (db *Database) LoadSchema(r io.Reader) error {
	var doc yamlSchema
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.Wrap(err, "parsing schema document")
	}

	for _, table := range doc.Tables {
		stmt, err := table.createTableStatement()
		if err != nil {
			return errors.Wrapf(err, "table %q", table.Name)
		}
		if _, err := db.Execute(stmt); err != nil {
			return errors.Wrapf(err, "creating table %q", table.Name)
		}
	}
	return nil
}

func (t yamlTable) createTableStatement() (string, error) {
	if t.Name == "" {
		return "", errors.New("table name is required")
	}
	if len(t.Columns) == 0 {
		return "", errors.New("table must declare at least one column")
	}

	var cols []string
	havePrimary := false
	for _, c := range t.Columns {
		def, err := c.columnClause()
		if err != nil {
			return "", err
		}
		if c.PrimaryKey {
			if havePrimary {
				return "", errors.New("only one column may be the primary key")
			}
			havePrimary = true
		}
		cols = append(cols, def)
	}
	if !havePrimary {
		return "", errors.New("Primary key is not set")
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", t.Name, strings.Join(cols, ", ")), nil
}

func (c yamlColumn) columnClause() (string, error) {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteByte(' ')

	switch strings.ToUpper(c.Type) {
	case "INT":
		sb.WriteString("INT")
	case "DOUBLE":
		sb.WriteString("DOUBLE")
	case "FLOAT":
		sb.WriteString("FLOAT")
	case "BOOL":
		sb.WriteString("BOOL")
	case "VARCHAR":
		if c.Length <= 0 {
			return "", errors.Errorf("column %q: VARCHAR requires a positive length", c.Name)
		}
		fmt.Fprintf(&sb, "VARCHAR(%d)", c.Length)
	default:
		return "", errors.Errorf("column %q: unknown type %q", c.Name, c.Type)
	}

	if c.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")
	}
	if c.NotNull {
		sb.WriteString(" NOT NULL")
	}
	return sb.String(), nil
}
