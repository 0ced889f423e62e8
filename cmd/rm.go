package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-todo/internal/app"
	"github.com/Tiliavir/trivial-todo/internal/timecalc"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	loop := openLoop()
	id := resolveID(loop, args[0])
	task, _ := loop.Store().Find(id)
	dispatch(loop, app.Delete{ID: id})

	fmt.Printf("Deleted %s %q\n", timecalc.ShortID(id), task.Description)
	return nil
}
