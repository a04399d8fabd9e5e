package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/bufseek/pkg/cli"
)

var appendFile string

// appendRequest is the request-file form of append: a list of records,
// each a list of field values.
type appendRequest struct {
	Records [][]string `yaml:"records" json:"records"`
}

var appendCmd = &cobra.Command{
	Use:   "append FILE [VALUE...]",
	Short: "Append records to a record file",
	Long: `Append adds records at the end of the file, creating it if needed.
A single record can be given as arguments; multiple records via a
YAML/JSON request file:

  records:
    - [Ulcerate, Everything Is Fire]
    - [Ahab, The Call of the Wretched Sea]

Use "-f -" to read the request from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAppend,
}

func init() {
	appendCmd.Flags().StringVarP(&appendFile, "file", "f", "", "request file with records (YAML or JSON, \"-\" for stdin)")
	rootCmd.AddCommand(appendCmd)
}

func runAppend(cmd *cobra.Command, args []string) error {
	path := args[0]

	var records [][]string
	switch {
	case appendFile != "":
		var req appendRequest
		if appendFile == "-" {
			if err := cli.ReadRequest(cmd.InOrStdin(), &req); err != nil {
				return err
			}
		} else if err := cli.LoadRequest(fsys, appendFile, &req); err != nil {
			return err
		}
		if len(req.Records) == 0 {
			return fmt.Errorf("request has no records")
		}
		records = req.Records
	case len(args) > 1:
		records = [][]string{args[1:]}
	default:
		return fmt.Errorf("no records: pass field values or a request file with -f")
	}

	f, err := openRecordFile(path, os.O_RDWR|os.O_CREATE)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := f.Append(rec); err != nil {
			f.Close()
			return err
		}
	}
	if err := f.Close(); err != nil {
		return err
	}

	cli.PrintSuccess("appended %d records to %s", len(records), path)
	return nil
}
