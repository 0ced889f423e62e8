package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-todo/internal/interchange"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import tasks from a JSON export",
	Long: `Import tasks from a file written by "tdl export --format json".
Tasks whose ID already exists are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	incoming, err := interchange.Import(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	loop := openLoop()
	added := 0
	for _, t := range incoming {
		ok, err := loop.Store().Insert(t)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if ok {
			added++
		}
	}

	fmt.Printf("Imported %d of %d tasks.\n", added, len(incoming))
	return nil
}
