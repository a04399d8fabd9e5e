package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haivivi/bufseek/pkg/cli"
)

var setCmd = &cobra.Command{
	Use:   "set FILE INDEX VALUE...",
	Short: "Overwrite one record in place",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	index, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad record index %q: %w", args[1], err)
	}

	f, err := openRecordFile(args[0], os.O_RDWR)
	if err != nil {
		return err
	}

	n, err := f.Len()
	if err != nil {
		f.Close()
		return err
	}
	if index < 0 || index >= n {
		f.Close()
		return fmt.Errorf("no record %d (file has %d)", index, n)
	}

	if err := f.SetRecord(index, args[2:]); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	cli.PrintSuccess("updated record %d in %s", index, args[0])
	return nil
}
