package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get FILE INDEX",
	Short: "Read one record by index",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	index, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad record index %q: %w", args[1], err)
	}

	f, err := openRecordFile(args[0], os.O_RDONLY)
	if err != nil {
		return err
	}
	defer f.Close()

	rec, err := f.Record(index)
	if err != nil {
		return fmt.Errorf("record %d: %w", index, err)
	}

	return outputResult(recordMap(f.Schema(), rec))
}
