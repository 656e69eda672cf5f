// pkg/cli/repl.go
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"reldb/pkg/engine"
)

// REPL provides a Read-Eval-Print Loop for interactive SQL execution. The
// underlying database is purely in-memory (§5); dbPath, if non-empty, names
// a TSV catalog file (§6) loaded on start and saved on Close.
type REPL struct {
	db     *engine.Database
	dbPath string

	input  *bufio.Reader
	output io.Writer
	errOut io.Writer

	running       bool
	exitRequested bool
}

// NewREPL creates a REPL reading from stdin, writing results to output and
// errors to errOutput. dbPath may be empty for a throwaway in-memory
// session.
func NewREPL(dbPath string, output, errOutput io.Writer) (*REPL, error) {
	return NewREPLWithInput(dbPath, os.Stdin, output, errOutput)
}

// NewREPLWithInput creates a REPL with custom input/output streams, useful
// for tests or scripted operation.
func NewREPLWithInput(dbPath string, input io.Reader, output, errOutput io.Writer) (*REPL, error) {
	db := engine.NewDatabase()

	if dbPath != "" {
		if f, err := os.Open(dbPath); err == nil {
			err := db.Open(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to open database: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	}

	return &REPL{
		db:     db,
		dbPath: dbPath,
		input:  bufio.NewReader(input),
		output: output,
		errOut: errOutput,
	}, nil
}

// LoadSchemaFile bulk-creates tables from a YAML schema document at path.
func (r *REPL) LoadSchemaFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open schema file: %w", err)
	}
	defer f.Close()
	return r.db.LoadSchema(f)
}

// Close persists the catalog to dbPath, if one was given.
func (r *REPL) Close() error {
	if r.dbPath == "" {
		return nil
	}
	f, err := os.Create(r.dbPath)
	if err != nil {
		return fmt.Errorf("failed to save database: %w", err)
	}
	defer f.Close()
	return r.db.Save(f)
}

// Run starts the REPL loop, reading and executing statements until EOF or
// .exit.
func (r *REPL) Run() {
	r.running = true
	r.exitRequested = false

	fmt.Fprintln(r.output, "reldb version 0.1.0")
	fmt.Fprintln(r.output, "Enter \".help\" for usage hints.")

	for r.running && !r.exitRequested {
		stmt, eof := r.readStatement()

		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			if eof {
				fmt.Fprintln(r.output)
				break
			}
			continue
		}

		if strings.HasPrefix(stmt, ".") {
			r.handleDotCommand(stmt)
		} else if err := r.ExecuteStatement(stmt); err != nil {
			r.printError(err)
		}

		if eof {
			break
		}
	}

	r.running = false
}

// readStatement accumulates input lines until a ';' terminator or EOF. A
// dot command ends at the end of its line.
func (r *REPL) readStatement() (string, bool) {
	var sb strings.Builder
	for {
		line, err := r.input.ReadString('\n')
		sb.WriteString(line)
		if strings.HasPrefix(strings.TrimSpace(sb.String()), ".") {
			return sb.String(), err != nil
		}
		if strings.Contains(line, ";") {
			return sb.String(), false
		}
		if err != nil {
			return sb.String(), true
		}
	}
}

// ExecuteStatement runs a single SQL statement and prints its response.
func (r *REPL) ExecuteStatement(sql string) error {
	resp, err := r.db.Execute(sql)
	if err != nil {
		return err
	}
	fmt.Fprint(r.output, resp.Render())
	if !resp.IsTable() {
		fmt.Fprintln(r.output)
	}
	return nil
}

func (r *REPL) handleDotCommand(cmd string) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return
	}
	switch strings.ToLower(fields[0]) {
	case ".exit", ".quit":
		r.exitRequested = true
	case ".help":
		r.printHelp()
	case ".tables":
		r.showTables()
	default:
		fmt.Fprintf(r.errOut, "Unknown command: %s\n", fields[0])
		fmt.Fprintln(r.errOut, "Use \".help\" for usage hints.")
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.output, `
.exit              Exit this program
.help              Show this help message
.quit              Exit this program
.tables            List all tables

Enter SQL statements terminated with a semicolon.`)
}

func (r *REPL) showTables() {
	names := r.db.TableNames()
	if len(names) == 0 {
		fmt.Fprintln(r.output, "(no tables)")
		return
	}
	for _, name := range names {
		fmt.Fprintln(r.output, name)
	}
}

func (r *REPL) printError(err error) {
	zap.S().Infow("statement failed", "error", err)
	fmt.Fprintf(r.errOut, "Error: %v\n", err)
}
