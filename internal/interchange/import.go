package interchange

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Tiliavir/trivial-todo/internal/model"
	"github.com/Tiliavir/trivial-todo/internal/timecalc"
)

const schemaURL = "tasks.schema.json"

// taskFileSchema describes the JSON export format accepted by Import.
const taskFileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["tasks"],
  "properties": {
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["description"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string"},
          "completed": {"type": "boolean"},
          "description": {"type": "string", "pattern": "\\S"},
          "datetime": {"type": "string"}
        }
      }
    }
  }
}`

var schema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(taskFileSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
})

// Import reads a JSON task file, as written by Export with format "json",
// validates it and returns its tasks in file order. Descriptions are trimmed.
// A datetime, when present, must use the display layout.
func Import(r io.Reader) ([]model.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}
	s, err := schema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid task file: %w", err)
	}

	var file model.TaskFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode import: %w", err)
	}
	for i := range file.Tasks {
		file.Tasks[i].Description = strings.TrimSpace(file.Tasks[i].Description)
		if at := file.Tasks[i].CreatedAt; at != "" {
			if _, err := timecalc.ParseCreatedAt(at); err != nil {
				return nil, fmt.Errorf("task %d: invalid datetime %q: %w", i, at, err)
			}
		}
	}
	if file.Tasks == nil {
		file.Tasks = []model.Task{}
	}
	return file.Tasks, nil
}
