// pkg/engine/persist.go
package engine

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"reldb/pkg/types"
)

// Save writes the full catalog in the tab-and-newline-delimited format of
// §6. Callers own the destination (file location policy is out of scope,
// §1); w is flushed but never closed here.
func (db *Database) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := io.WriteString(bw, strconv.Itoa(len(db.tableOrder))+"\n"); err != nil {
		return err
	}
	for _, name := range db.tableOrder {
		t := db.tables[name]
		if _, err := io.WriteString(bw, name+"\n"); err != nil {
			return err
		}
		cols := t.ColumnNames()
		header := strconv.Itoa(len(cols)) + "\t" + strconv.Itoa(t.NumRows()) + "\n"
		if _, err := io.WriteString(bw, header); err != nil {
			return err
		}
		for _, cname := range cols {
			col := t.columns[cname]
			fields := make([]string, 0, 6+col.Size())
			fields = append(fields,
				cname,
				strconv.Itoa(col.Type().PersistTypeID()),
				strconv.Itoa(col.MaxLen()),
				boolField(col.IsPrimary()),
				boolField(col.NotNull()),
				strconv.Itoa(col.Size()),
			)
			for i := 0; i < col.Size(); i++ {
				fields = append(fields, col.At(i).PersistField())
			}
			if _, err := io.WriteString(bw, strings.Join(fields, "\t")+"\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Open replaces the entire catalog with the contents read from r, clearing
// any existing tables first (§6).
func (db *Database) Open(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	readLine := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return sc.Text(), nil
	}

	nTablesLine, err := readLine()
	if err != nil {
		return errors.Wrap(err, "reading table count")
	}
	nTables, err := strconv.Atoi(strings.TrimSpace(nTablesLine))
	if err != nil {
		return errors.Wrap(err, "corrupt catalog header")
	}

	tables := make(map[string]*Table, nTables)
	order := make([]string, 0, nTables)

	for i := 0; i < nTables; i++ {
		name, err := readLine()
		if err != nil {
			return errors.Wrap(err, "reading table name")
		}
		headerLine, err := readLine()
		if err != nil {
			return errors.Wrap(err, "reading table header")
		}
		headerParts := strings.Split(headerLine, "\t")
		if len(headerParts) != 2 {
			return errors.Errorf("corrupt table header for %q", name)
		}
		nCols, err := strconv.Atoi(headerParts[0])
		if err != nil {
			return errors.Wrap(err, "corrupt column count")
		}
		nRows, err := strconv.Atoi(headerParts[1])
		if err != nil {
			return errors.Wrap(err, "corrupt row count")
		}

		t := NewTable()
		for c := 0; c < nCols; c++ {
			line, err := readLine()
			if err != nil {
				return errors.Wrap(err, "reading column record")
			}
			fields := strings.Split(line, "\t")
			if len(fields) < 6 {
				return errors.Errorf("corrupt column record in %q", name)
			}
			cname := fields[0]
			typeID, err := strconv.Atoi(fields[1])
			if err != nil {
				return errors.Wrap(err, "corrupt type id")
			}
			dataType, err := types.DataTypeFromPersistID(typeID)
			if err != nil {
				return err
			}
			maxLen, err := strconv.Atoi(fields[2])
			if err != nil {
				return errors.Wrap(err, "corrupt max_len")
			}
			nValues, err := strconv.Atoi(fields[5])
			if err != nil {
				return errors.Wrap(err, "corrupt value count")
			}
			if len(fields) < 6+nValues {
				return errors.Errorf("truncated value list in %q.%q", name, cname)
			}

			col := NewColumn(dataType, maxLen, fields[4] == "1")
			col.SetPrimary(fields[3] == "1")
			for v := 0; v < nValues; v++ {
				val, err := types.ValueFromPersistField(fields[6+v], dataType)
				if err != nil {
					return err
				}
				col.PushValue(val)
			}
			t.columnOrder = append(t.columnOrder, cname)
			t.columns[cname] = col
		}
		t.nRows = nRows
		tables[name] = t
		order = append(order, name)
	}

	db.tables = tables
	db.tableOrder = order
	return nil
}
