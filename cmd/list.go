package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-todo/internal/app"
	"github.com/Tiliavir/trivial-todo/internal/model"
	"github.com/Tiliavir/trivial-todo/internal/projection"
	"github.com/Tiliavir/trivial-todo/internal/timecalc"
)

var (
	listPrefix string
	listOpen   bool
	listDone   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listPrefix, "prefix", "", "Only show tasks whose description starts with this (case-insensitive)")
	listCmd.Flags().BoolVar(&listOpen, "open", false, "Only show tasks that are not done")
	listCmd.Flags().BoolVar(&listDone, "done", false, "Only show completed tasks")
	listCmd.MarkFlagsMutuallyExclusive("open", "done")
}

func runList(cmd *cobra.Command, args []string) error {
	loop := openLoop()
	v := dispatch(loop, app.Filter{Prefix: listPrefix})
	printList(os.Stdout, byStatus(v.Visible, listOpen, listDone))
	return nil
}

// byStatus keeps open tasks, done tasks, or all of them.
func byStatus(list []model.Task, open, done bool) []model.Task {
	if !open && !done {
		return list
	}
	out := make([]model.Task, 0, len(list))
	for _, t := range list {
		if t.Completed == done {
			out = append(out, t)
		}
	}
	return out
}

// printList writes the projected rows as a table with a short ID column.
func printList(w io.Writer, list []model.Task) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	rows := projection.Rows(list)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", rows[0].Description, rows[0].CreatedAt, rows[0].Glyph)
	for _, row := range rows[1:] {
		t.Row(timecalc.ShortID(row.ID), row.Description, row.CreatedAt, row.Glyph)
	}
	fmt.Fprintln(w, t.String())
}
