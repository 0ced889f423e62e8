// Package interchange converts task lists to and from text formats for the
// export and import commands.
package interchange

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Tiliavir/trivial-todo/internal/model"
)

// Formats lists the supported export formats.
var Formats = []string{"csv", "json", "toml", "md"}

// Export writes list to w in the named format.
func Export(w io.Writer, format string, list []model.Task) error {
	if list == nil {
		list = []model.Task{}
	}
	switch format {
	case "csv":
		return writeCSV(w, list)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(model.TaskFile{Tasks: list}); err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		return nil
	case "toml":
		if err := toml.NewEncoder(w).Encode(model.TaskFile{Tasks: list}); err != nil {
			return fmt.Errorf("error encoding TOML: %w", err)
		}
		return nil
	case "md":
		return writeMarkdown(w, list)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func writeCSV(w io.Writer, list []model.Task) error {
	if _, err := fmt.Fprintln(w, "id,description,datetime,completed"); err != nil {
		return err
	}
	for _, t := range list {
		if _, err := fmt.Fprintf(w, "%s,%s,%s,%t\n",
			CSVEscape(t.ID),
			CSVEscape(t.Description),
			CSVEscape(t.CreatedAt),
			t.Completed,
		); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdown(w io.Writer, list []model.Task) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}
	for _, t := range list {
		box := " "
		if t.Completed {
			box = "x"
		}
		if _, err := fmt.Fprintf(w, "- [%s] %s (%s)\n", box, t.Description, t.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

// CSVEscape wraps a field in quotes if it contains a comma, quote, or newline.
func CSVEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
