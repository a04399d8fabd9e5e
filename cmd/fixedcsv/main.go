// Package main provides the fixedcsv CLI tool.
//
// Usage:
//
//	fixedcsv -s schema.yaml [flags] <command> [args]
//
// Commands:
//
//	gen      - Generate a record file with sample data
//	append   - Append records to a record file
//	get      - Read one record by index
//	set      - Overwrite one record in place
//	list     - List records, optionally through a jq filter
//
// Record files hold fixed-width records described by a YAML schema, so
// every record can be addressed and rewritten in place.
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/bufseek/cmd/fixedcsv/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
