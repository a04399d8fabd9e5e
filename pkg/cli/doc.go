// Package cli provides common utilities for the fixedcsv command-line
// tools.
//
// This package includes:
//   - Output formatting (JSON, YAML, raw)
//   - Table rendering for terminal output
//   - Request file loading (YAML/JSON)
//
// Example usage:
//
//	// Output result
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
//
//	// Render a table
//	fmt.Println(cli.Table{
//	    Columns: schema.Columns(),
//	    Rows:    rows,
//	}.Render())
package cli
