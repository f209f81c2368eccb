// Package compdb loads clang JSON compilation databases and resolves the
// front-end arguments a build would pass for a source file.
package compdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-shellwords"
)

// FileName is the database file looked up inside the configured directory.
const FileName = "compile_commands.json"

// Command is one recorded compilation of a file.
type Command struct {
	Directory string
	File      string // absolute and cleaned
	Arguments []string
	Output    string
}

type entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
	Command   string   `json:"command"`
	Output    string   `json:"output"`
}

// Database is a loaded compilation database. It is read-only after Load.
type Database struct {
	dir      string
	commands []Command
	byFile   map[string][]int
}

// Load reads dir/compile_commands.json.
func Load(dir string) (*Database, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve database directory: %w", err)
	}

	path := filepath.Join(absDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load compilation database: %w", err)
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse compilation database %s: %w", path, err)
	}

	db := &Database{
		dir:      absDir,
		commands: make([]Command, 0, len(entries)),
		byFile:   make(map[string][]int, len(entries)),
	}
	for i, e := range entries {
		cmd, err := db.command(e)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", path, i+1, err)
		}
		db.byFile[cmd.File] = append(db.byFile[cmd.File], len(db.commands))
		db.commands = append(db.commands, cmd)
	}
	return db, nil
}

func (db *Database) command(e entry) (Command, error) {
	if e.File == "" {
		return Command{}, fmt.Errorf("missing file")
	}

	directory := e.Directory
	if directory == "" {
		directory = db.dir
	} else if !filepath.IsAbs(directory) {
		directory = filepath.Join(db.dir, directory)
	}

	file := e.File
	if !filepath.IsAbs(file) {
		file = filepath.Join(directory, file)
	}

	args := e.Arguments
	if len(args) == 0 && e.Command != "" {
		split, err := shellwords.Parse(e.Command)
		if err != nil {
			return Command{}, fmt.Errorf("split command: %w", err)
		}
		args = split
	}

	return Command{
		Directory: filepath.Clean(directory),
		File:      filepath.Clean(file),
		Arguments: args,
		Output:    e.Output,
	}, nil
}

// Dir returns the absolute directory the database was loaded from.
func (db *Database) Dir() string { return db.dir }

// Len returns the number of recorded commands.
func (db *Database) Len() int {
	if db == nil {
		return 0
	}
	return len(db.commands)
}

// Commands returns every command recorded for path, in database order.
// Relative paths are resolved against the working directory.
func (db *Database) Commands(path string) []Command {
	if db == nil {
		return nil
	}
	key, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	idx := db.byFile[filepath.Clean(key)]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Command, 0, len(idx))
	for _, i := range idx {
		out = append(out, db.commands[i])
	}
	return out
}
