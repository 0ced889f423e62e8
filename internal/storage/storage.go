package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/Tiliavir/trivial-todo/internal/model"
	"github.com/Tiliavir/trivial-todo/internal/timecalc"
)

// DataFileName is the name of the task file inside BaseDir.
const DataFileName = "tasks.msgpack"

// ErrUnprotected is returned by File.Save after File.Load hit a file that could
// neither be read nor moved aside. Flushing would destroy it.
var ErrUnprotected = errors.New("task file could not be read or backed up; refusing to overwrite it")

// ReadError reports a task file that exists but cannot be read or decoded.
// BackupPath is empty when the file was left in place.
type ReadError struct {
	Path       string
	BackupPath string
	Err        error
}

func (e *ReadError) Error() string {
	if e.BackupPath == "" {
		return fmt.Sprintf("corrupt task file %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("corrupt task file %s (backed up to %s): %v", e.Path, e.BackupPath, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed flush of the task file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage error writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// BaseDir returns the root data directory (~/.tdl).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tdl"), nil
}

// DefaultDataPath returns ~/.tdl/tasks.msgpack.
func DefaultDataPath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DataFileName), nil
}

// Load reads the task list stored at path. A missing or empty file yields an
// empty list. An undecodable file is moved aside to <path>.corrupt and a
// *ReadError is returned together with an empty list.
func Load(path string) ([]model.Task, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Task{}, nil
	}
	if err != nil {
		return []model.Task{}, &ReadError{Path: path, Err: err}
	}
	if len(data) == 0 {
		return []model.Task{}, nil
	}

	list, err := decodeTasks(data)
	if err != nil {
		backupPath := path + ".corrupt"
		if renameErr := os.Rename(path, backupPath); renameErr != nil {
			backupPath = ""
		}
		return []model.Task{}, &ReadError{Path: path, BackupPath: backupPath, Err: err}
	}
	return ensureIDs(list), nil
}

// decodeTasks accepts both record layouts: maps keyed by field name, as Save
// writes them, and the older positional [completed, description, datetime]
// arrays, which carry no ID.
func decodeTasks(data []byte) ([]model.Task, error) {
	var raws []msgpack.RawMessage
	if err := msgpack.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	list := make([]model.Task, 0, len(raws))
	for i, raw := range raws {
		task, err := decodeTask(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		list = append(list, task)
	}
	return list, nil
}

func decodeTask(raw msgpack.RawMessage) (model.Task, error) {
	var task model.Task
	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	code, err := dec.PeekCode()
	if err != nil {
		return task, err
	}
	if !msgpcode.IsFixedArray(code) && code != msgpcode.Array16 && code != msgpcode.Array32 {
		err := msgpack.Unmarshal(raw, &task)
		return task, err
	}

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return task, err
	}
	if n != 3 {
		return task, fmt.Errorf("positional record has %d fields, want 3", n)
	}
	if task.Completed, err = dec.DecodeBool(); err != nil {
		return task, fmt.Errorf("completed: %w", err)
	}
	if task.Description, err = dec.DecodeString(); err != nil {
		return task, fmt.Errorf("description: %w", err)
	}
	if task.CreatedAt, err = dec.DecodeString(); err != nil {
		return task, fmt.Errorf("datetime: %w", err)
	}
	return task, nil
}

// ensureIDs assigns fresh IDs to records written without one and to any
// record whose ID repeats an earlier one.
func ensureIDs(list []model.Task) []model.Task {
	seen := make(map[string]bool, len(list))
	for i := range list {
		if list[i].ID == "" || seen[list[i].ID] {
			list[i].ID = timecalc.GenerateID()
		}
		seen[list[i].ID] = true
	}
	return list
}

// Save atomically replaces the task file at path with list.
func Save(path string, list []model.Task) error {
	if list == nil {
		list = []model.Task{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("creating directories: %w", err)}
	}

	data, err := msgpack.Marshal(list)
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("encoding tasks: %w", err)}
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("writing temp file: %w", err)}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &WriteError{Path: path, Err: fmt.Errorf("renaming temp file: %w", err)}
	}
	return nil
}

// File is a task file at a fixed path.
type File struct {
	Path string

	// unprotected is set when Load could neither read the file nor move it
	// aside; Save then refuses to replace it.
	unprotected bool
}

// NewFile returns a File bound to path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load reads the file. See Load.
func (f *File) Load() ([]model.Task, error) {
	list, err := Load(f.Path)
	var readErr *ReadError
	f.unprotected = errors.As(err, &readErr) && readErr.BackupPath == ""
	return list, err
}

// Save flushes list to the file. See Save.
func (f *File) Save(list []model.Task) error {
	if f.unprotected {
		return &WriteError{Path: f.Path, Err: ErrUnprotected}
	}
	return Save(f.Path, list)
}
