package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-todo/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how many tasks are open and done",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	loop := openLoop()
	list := loop.Store().Tasks()
	open, done := countStatus(list)

	if open+done == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	fmt.Printf("Open: %d\n", open)
	fmt.Printf("Done: %d\n", done)
	// The list is newest first.
	for _, t := range list {
		if !t.Completed {
			fmt.Printf("Newest open: %s (%s)\n", t.Description, t.CreatedAt)
			break
		}
	}
	return nil
}

func countStatus(list []model.Task) (open, done int) {
	for _, t := range list {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}
