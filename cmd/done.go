package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-todo/internal/app"
	"github.com/Tiliavir/trivial-todo/internal/timecalc"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as completed",
	Long:  "Mark a task as completed. The ID may be shortened to any unique prefix.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetCompleted(args[0], true)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Mark a task as not completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetCompleted(args[0], false)
	},
}

func runSetCompleted(prefix string, completed bool) error {
	loop := openLoop()
	id := resolveID(loop, prefix)
	dispatch(loop, app.Update{ID: id, Completed: completed})

	task, _ := loop.Store().Find(id)
	state := "not done"
	if completed {
		state = "done"
	}
	fmt.Printf("Marked %s %q as %s\n", timecalc.ShortID(id), task.Description, state)
	return nil
}
