package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/haivivi/bufseek/pkg/cli"
)

var listQuery string

var listCmd = &cobra.Command{
	Use:   "list FILE",
	Short: "List all records",
	Long: `List reads every record and prints them in the selected output
format. With --query, each record is fed through a jq expression
instead and the results are printed as JSON lines:

  fixedcsv -s schema.yaml list bands.fcsv --query 'select(.band == "Ahab")'`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listQuery, "query", "", "jq expression applied to each record")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	f, err := openRecordFile(args[0], os.O_RDONLY)
	if err != nil {
		return err
	}
	defer f.Close()

	schema := f.Schema()
	var rows [][]string
	records := make([]map[string]string, 0)
	for rec, err := range f.Records() {
		if err != nil {
			return err
		}
		rows = append(rows, rec)
		records = append(records, recordMap(schema, rec))
	}

	if listQuery != "" {
		return runListQuery(listQuery, records)
	}

	if cli.OutputFormat(outputFormat) == cli.FormatTable {
		fmt.Println(cli.Table{Columns: schema.Columns(), Rows: rows}.Render())
		return nil
	}
	return outputResult(records)
}

// runListQuery feeds each record through a jq expression and prints the
// results as JSON lines.
func runListQuery(expr string, records []map[string]string) error {
	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("bad query: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, rec := range records {
		input := make(map[string]any, len(rec))
		for k, v := range rec {
			input[k] = v
		}
		iter := query.Run(input)
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, ok := v.(error); ok {
				return fmt.Errorf("query: %w", err)
			}
			if err := enc.Encode(v); err != nil {
				return err
			}
		}
	}
	return nil
}
