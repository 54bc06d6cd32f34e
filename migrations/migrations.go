// Package migrations embeds the SQL schema of the trips table.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

// Files returns the migration files of direction ("up" or "down") in the
// order they must run
func Files(direction string) ([]string, error) {
	if direction != "up" && direction != "down" {
		return nil, fmt.Errorf("invalid migration direction %q (want up or down)", direction)
	}

	names, err := fs.Glob(files, "*."+direction+".sql")
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	if direction == "down" {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}
	return names, nil
}

// Read returns the SQL of a migration file
func Read(name string) (string, error) {
	content, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read migration %s: %w", name, err)
	}
	return strings.TrimSpace(string(content)), nil
}
