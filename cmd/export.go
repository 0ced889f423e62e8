package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-todo/internal/interchange"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tasks to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: "+strings.Join(interchange.Formats, ", "))
}

func runExport(cmd *cobra.Command, args []string) error {
	loop := openLoop()
	if err := interchange.Export(os.Stdout, exportFormat, loop.Store().Tasks()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return nil
}
