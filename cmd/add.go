package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-todo/internal/app"
	"github.com/Tiliavir/trivial-todo/internal/timecalc"
)

var addCmd = &cobra.Command{
	Use:   "add <description...>",
	Short: "Add a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		fmt.Fprintln(os.Stderr, "Description cannot be empty.")
		os.Exit(1)
	}

	loop := openLoop()
	dispatch(loop, app.Create{Description: description})

	task := loop.Store().Tasks()[0]
	fmt.Printf("Added %s %q at %s\n", timecalc.ShortID(task.ID), task.Description, task.CreatedAt)
	return nil
}
