// pkg/sql/parser/parser.go
package parser

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"reldb/pkg/sql/filter"
	"reldb/pkg/sql/lexer"
	"reldb/pkg/types"
)

// Parser is a recursive-descent parser over a single statement (§4.4). It
// dispatches on the first keyword letter, case-insensitively, and lowers
// the statement into one of the six Query descriptors.
type Parser struct {
	l *lexer.Lexer
}

// New prepares a Parser over the given query text.
func New(query string) *Parser {
	return &Parser{l: lexer.New(query)}
}

// Parse reads exactly one statement, including its optional trailing ';',
// and fails if trailing garbage remains.
func (p *Parser) Parse() (Query, error) {
	p.l.SkipWhitespace()

	var (
		q   Query
		err error
	)
	switch {
	case p.l.TakeIf('C'):
		q, err = p.parseCreate()
	case p.l.TakeIf('I'):
		q, err = p.parseInsert()
	case p.l.TakeIf('S'):
		q, err = p.parseSelect()
	case p.l.TakeIf('U'):
		q, err = p.parseUpdate()
	case p.l.TakeIf('D'):
		switch {
		case p.l.TakeIf('E'):
			q, err = p.parseDelete()
		case p.l.TakeIf('R'):
			q, err = p.parseDrop()
		default:
			err = p.l.Error("Unsupported query")
		}
	default:
		err = p.l.Error("Unsupported query")
	}
	if err != nil {
		return nil, err
	}
	if err := p.l.CheckEof(); err != nil {
		return nil, err
	}
	return q, nil
}

func (p *Parser) endOfStatement() {
	p.l.SkipWhitespace()
	p.l.TakeIf(';')
	p.l.SkipWhitespace()
}

// parseCreate parses `TABLE <name> '(' <col_def> (, <col_def>)* ')'`,
// continuing from just past the leading 'C' (§4.4 CREATE TABLE).
func (p *Parser) parseCreate() (*CreateTable, error) {
	if err := p.l.ExpectStr("REATE"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()
	if err := p.l.ExpectStr("TABLE"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()

	name := p.l.TakeWord()
	p.l.SkipWhitespace()
	if err := p.l.Expect('('); err != nil {
		return nil, err
	}

	var cols []ColumnDef
	primaryIdx := -1
	for !p.l.Eof() && !p.l.Test(')') {
		p.l.SkipWhitespace()
		colName := p.l.TakeWord()
		p.l.SkipWhitespace()

		dt, maxLen, err := p.parseColumnType()
		if err != nil {
			return nil, err
		}
		p.l.SkipWhitespace()

		isPrimary := false
		if primaryIdx == -1 && p.l.TakeIf('P') {
			if err := p.l.ExpectStr("RIMARY"); err != nil {
				return nil, err
			}
			p.l.SkipWhitespace()
			if err := p.l.ExpectStr("KEY"); err != nil {
				return nil, err
			}
			p.l.SkipWhitespace()
			primaryIdx = len(cols)
			isPrimary = true
		}

		notNull := false
		if p.l.TakeIf('N') {
			if err := p.l.ExpectStr("OT"); err != nil {
				return nil, err
			}
			p.l.SkipWhitespace()
			if err := p.l.ExpectStr("NULL"); err != nil {
				return nil, err
			}
			notNull = true
			p.l.SkipWhitespace()
		}

		if !p.l.Test(')') {
			if err := p.l.Expect(','); err != nil {
				return nil, err
			}
		}
		cols = append(cols, ColumnDef{Name: colName, Type: dt, MaxLen: maxLen, PrimaryKey: isPrimary, NotNull: notNull})
	}
	if err := p.l.Expect(')'); err != nil {
		return nil, err
	}
	if primaryIdx == -1 {
		return nil, errors.New("Primary key is not set")
	}
	p.endOfStatement()
	return &CreateTable{TableName: name, Columns: cols, PrimaryKey: primaryIdx}, nil
}

func (p *Parser) parseColumnType() (types.DataType, int, error) {
	switch {
	case p.l.TakeIf('I'):
		if err := p.l.ExpectStr("NT"); err != nil {
			return 0, 0, err
		}
		return types.Int, 0, nil
	case p.l.TakeIf('B'):
		if err := p.l.ExpectStr("OOL"); err != nil {
			return 0, 0, err
		}
		return types.Bool, 0, nil
	case p.l.TakeIf('D'):
		if err := p.l.ExpectStr("OUBLE"); err != nil {
			return 0, 0, err
		}
		return types.Double, 0, nil
	case p.l.TakeIf('F'):
		if err := p.l.ExpectStr("LOAT"); err != nil {
			return 0, 0, err
		}
		return types.Float, 0, nil
	case p.l.TakeIf('V'):
		if err := p.l.ExpectStr("ARCHAR"); err != nil {
			return 0, 0, err
		}
		p.l.SkipWhitespace()
		if err := p.l.Expect('('); err != nil {
			return 0, 0, err
		}
		p.l.SkipWhitespace()
		var buf strings.Builder
		for !p.l.Eof() && !p.l.Test(')') && !p.l.TestSpace() {
			buf.WriteByte(p.l.Take())
		}
		if buf.Len() == 0 {
			return 0, 0, p.l.Error("Varchar size is not set")
		}
		n, convErr := strconv.Atoi(buf.String())
		if convErr != nil || n <= 0 {
			return 0, 0, p.l.Error("Varchar size is not set")
		}
		p.l.SkipWhitespace()
		if err := p.l.Expect(')'); err != nil {
			return 0, 0, err
		}
		return types.Varchar, n, nil
	default:
		return 0, 0, p.l.Error("Invalid data type")
	}
}

// parseDrop parses `TABLE <name>`, continuing from just past "DR" of DROP.
func (p *Parser) parseDrop() (*DropTable, error) {
	if err := p.l.ExpectStr("OP"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()
	if err := p.l.ExpectStr("TABLE"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()
	name := p.l.TakeWord()
	p.endOfStatement()
	return &DropTable{TableName: name}, nil
}

// parseInsert parses `NSERT INTO <name> '(' <cols> ')' VALUES '(' <vals> ')'`,
// continuing from just past the leading 'I' of INSERT.
func (p *Parser) parseInsert() (*Insert, error) {
	if err := p.l.ExpectStr("NSERT"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()
	if err := p.l.ExpectStr("INTO"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()

	name := p.l.TakeWord()
	p.l.SkipWhitespace()
	if err := p.l.Expect('('); err != nil {
		return nil, err
	}
	var columns []string
	for !p.l.Eof() && !p.l.Test(')') {
		p.l.SkipWhitespace()
		columns = append(columns, p.l.TakeWord())
		p.l.SkipWhitespace()
		if !p.l.Test(')') {
			if err := p.l.Expect(','); err != nil {
				return nil, err
			}
		}
	}
	if err := p.l.Expect(')'); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()

	if err := p.l.ExpectStr("VALUES"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()
	if err := p.l.Expect('('); err != nil {
		return nil, err
	}

	data := make(map[string]string, len(columns))
	idx := 0
	for !p.l.Eof() && !p.l.Test(')') {
		p.l.SkipWhitespace()
		var buf strings.Builder
		for !p.l.Eof() && !p.l.TestAny(",)") && !p.l.TestSpace() {
			if p.l.TakeIf('\'') {
				s, err := p.l.ParseString()
				if err != nil {
					return nil, err
				}
				buf.WriteString(s)
			} else {
				buf.WriteByte(p.l.Take())
			}
		}
		p.l.SkipWhitespace()
		if buf.Len() == 0 {
			return nil, p.l.Error("Invalid value")
		}
		if !p.l.Test(')') {
			if err := p.l.Expect(','); err != nil {
				return nil, err
			}
		}
		if idx >= len(columns) {
			return nil, errors.New("Invalid query")
		}
		data[columns[idx]] = buf.String()
		idx++
	}
	if err := p.l.Expect(')'); err != nil {
		return nil, err
	}
	p.endOfStatement()
	return &Insert{TableName: name, Data: data}, nil
}

// parseSelect parses the SELECT grammar (§4.4), continuing from just past
// the leading 'S'.
func (p *Parser) parseSelect() (*Select, error) {
	if err := p.l.ExpectStr("ELECT"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()

	s := &Select{}
	if p.l.TakeIf('*') {
		s.AllColumns = true
	} else {
		for !p.l.Eof() {
			word := p.l.TakeWord()
			if p.l.TakeIf('.') {
				switch {
				case s.TableName1 == "" || word == s.TableName1:
					s.TableName1 = word
					s.Columns1 = append(s.Columns1, p.l.TakeWord())
				case s.TableName2 == "" || word == s.TableName2:
					s.TableName2 = word
					s.Columns2 = append(s.Columns2, p.l.TakeWord())
				default:
					return nil, errors.New("Invalid query")
				}
			} else {
				s.UnqualifiedColumns = append(s.UnqualifiedColumns, word)
			}
			p.l.SkipWhitespace()
			if p.l.TakeIf(',') {
				p.l.SkipWhitespace()
				continue
			}
			break
		}
	}

	p.l.SkipWhitespace()
	if err := p.l.ExpectStr("FROM"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()

	s.TableName1 = p.l.TakeWord()
	p.l.SkipWhitespace()

	switch {
	case p.l.TakeIf('W'):
		if err := p.l.ExpectStr("HERE"); err != nil {
			return nil, err
		}
		p.l.SkipWhitespace()
		toks, err := filter.ParsePostfix(p.l)
		if err != nil {
			return nil, err
		}
		s.Filters = toks
	case p.l.TakeIf('L'):
		if err := p.l.ExpectStr("EFT"); err != nil {
			return nil, err
		}
		s.JoinType = LeftJoin
	case p.l.TakeIf('R'):
		if err := p.l.ExpectStr("IGHT"); err != nil {
			return nil, err
		}
		s.JoinType = RightJoin
	}

	p.l.SkipWhitespace()
	if err := p.parseJoin(s); err != nil {
		return nil, err
	}

	p.endOfStatement()
	return s, nil
}

// parseJoin parses the optional `JOIN <table2> ON <ref> = <ref>` tail of a
// SELECT (§4.4). Absent a preceding LEFT/RIGHT, JOIN is inner.
func (p *Parser) parseJoin(s *Select) error {
	if !p.l.TakeIf('J') {
		return nil
	}
	if err := p.l.ExpectStr("OIN"); err != nil {
		return err
	}
	s.IsJoin = true
	p.l.SkipWhitespace()

	word := p.l.TakeWord()
	switch {
	case s.TableName2 == "":
		s.TableName2 = word
	case s.TableName2 != word:
		return errors.New("Invalid query")
	}
	p.l.SkipWhitespace()
	if err := p.l.ExpectStr("ON"); err != nil {
		return err
	}
	p.l.SkipWhitespace()

	word = p.l.TakeWord()
	firstBare := false
	if p.l.TakeIf('.') {
		switch word {
		case s.TableName1:
			s.JoinColumn1 = p.l.TakeWord()
		case s.TableName2:
			s.JoinColumn2 = p.l.TakeWord()
		default:
			return errors.New("Invalid query")
		}
	} else {
		s.JoinColumn1 = word
		firstBare = true
	}
	p.l.SkipWhitespace()
	if err := p.l.Expect('='); err != nil {
		return err
	}
	p.l.SkipWhitespace()

	word = p.l.TakeWord()
	if p.l.TakeIf('.') {
		if firstBare && word == s.TableName1 {
			s.JoinColumn1, s.JoinColumn2 = "", s.JoinColumn1
		}
		switch {
		case word == s.TableName1 && s.JoinColumn1 == "":
			s.JoinColumn1 = p.l.TakeWord()
		case word == s.TableName2 && s.JoinColumn2 == "":
			s.JoinColumn2 = p.l.TakeWord()
		default:
			return errors.New("Invalid query")
		}
	} else if s.JoinColumn1 == "" {
		s.JoinColumn1 = word
	} else {
		s.JoinColumn2 = word
	}
	return nil
}

// parseUpdate parses `<name> SET <col> = <val> (, ...)* [WHERE ...]`,
// continuing from just past the leading 'U' of UPDATE.
func (p *Parser) parseUpdate() (*Update, error) {
	if err := p.l.ExpectStr("PDATE"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()

	u := &Update{Values: map[string]string{}}
	u.TableName = p.l.TakeWord()
	p.l.SkipWhitespace()

	if err := p.l.ExpectStr("SET"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()

	for !p.l.Eof() {
		col := p.l.TakeWord()
		p.l.SkipWhitespace()
		if err := p.l.Expect('='); err != nil {
			return nil, err
		}
		p.l.SkipWhitespace()
		var buf strings.Builder
		for !p.l.Eof() && !p.l.TestAny(",;") && !p.l.TestSpace() {
			if p.l.TakeIf('\'') {
				s, err := p.l.ParseString()
				if err != nil {
					return nil, err
				}
				buf.WriteString(s)
			} else {
				buf.WriteByte(p.l.Take())
			}
		}
		val := buf.String()
		p.l.SkipWhitespace()
		if val == "" {
			return nil, p.l.Error("Invalid value")
		}
		u.Values[col] = val
		if p.l.TakeIf(',') {
			p.l.SkipWhitespace()
			continue
		}
		break
	}

	if p.l.TakeIf('W') {
		if err := p.l.ExpectStr("HERE"); err != nil {
			return nil, err
		}
		p.l.SkipWhitespace()
		toks, err := filter.ParsePostfix(p.l)
		if err != nil {
			return nil, err
		}
		u.Filters = toks
	}

	p.endOfStatement()
	return u, nil
}

// parseDelete parses `LETE FROM <name> [WHERE ...]`, continuing from just
// past the leading 'D'+'E' of DELETE (both consumed by Parse).
func (p *Parser) parseDelete() (*Delete, error) {
	if err := p.l.ExpectStr("LETE"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()
	if err := p.l.ExpectStr("FROM"); err != nil {
		return nil, err
	}
	p.l.SkipWhitespace()

	d := &Delete{AllRows: true}
	d.TableName = p.l.TakeWord()
	p.l.SkipWhitespace()

	if p.l.TakeIf('W') {
		if err := p.l.ExpectStr("HERE"); err != nil {
			return nil, err
		}
		p.l.SkipWhitespace()
		toks, err := filter.ParsePostfix(p.l)
		if err != nil {
			return nil, err
		}
		d.Filters = toks
		d.AllRows = false
	}

	p.endOfStatement()
	return d, nil
}
