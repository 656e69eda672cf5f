// cmd/reldb/main.go
//
// reldb CLI - interactive SQL shell over the in-memory relational engine.
//
// Usage:
//
//	reldb [catalog-file] [schema-file]
//
// If no catalog file is specified, the session is throwaway in-memory.
// schema-file, if given, is a YAML document of table definitions loaded
// once at startup (see pkg/engine.Database.LoadSchema). Use .help for
// available commands.
package main

import (
	"fmt"
	"os"

	"reldb/pkg/cli"
)

func main() {
	dbPath := ""
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	repl, err := cli.NewREPL(dbPath, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer repl.Close()

	if len(os.Args) > 2 {
		if err := repl.LoadSchemaFile(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading schema: %v\n", err)
			os.Exit(1)
		}
	}

	repl.Run()
}
