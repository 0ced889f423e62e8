package model

// Task is a single to-do entry.
type Task struct {
	ID          string `msgpack:"id" json:"id" toml:"id"`
	Completed   bool   `msgpack:"completed" json:"completed" toml:"completed"`
	Description string `msgpack:"description" json:"description" toml:"description"`
	// CreatedAt is the display timestamp, formatted as "DD-MM-YYYY • HH:MM:SS".
	CreatedAt string `msgpack:"datetime" json:"datetime" toml:"datetime"`
}

// TaskFile is the document shape used for JSON and TOML interchange.
type TaskFile struct {
	Tasks []Task `json:"tasks" toml:"tasks"`
}
