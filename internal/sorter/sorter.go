// Package sorter implements the File Sorter (§4.2): orders a mod's files by
// the first non-empty line ("header") against the fixed priority list in
// internal/schema.
package sorter

import (
	"bufio"
	"os"
	"strings"

	"github.com/dfmod/rawc/internal/schema"
)

// FirstLine returns the first non-empty line of path, or "" if the file has
// none (or cannot be read).
func FirstLine(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line != "" {
			return line
		}
	}
	return ""
}

// matchHeader finds the longest header-priority prefix matching line. Ties
// are broken by priority-list order (schema.HeaderPriority is scanned
// linearly, first match at the longest length wins).
func matchHeader(priority []string, line string) (string, bool) {
	best := ""
	found := false
	for _, prefix := range priority {
		if strings.HasPrefix(line, prefix) {
			if !found || len(prefix) > len(best) {
				best = prefix
				found = true
			}
		}
	}
	return best, found
}

// Sort orders fileNames (a mod's file listing) by the header of each file's
// first line, grouped by header-priority-list order; within a group, the
// input order of fileNames is preserved. Files whose first line matches no
// known header are dropped silently (§3, §7: "Unknown header — file skipped
// silently").
//
// readFirstLine lets callers (and tests) supply file contents without
// touching the filesystem; production callers pass FirstLine.
func Sort(sc *schema.Schema, fileNames []string, readFirstLine func(string) string) []string {
	groups := make(map[string][]string, len(sc.HeaderPriority))
	for _, name := range fileNames {
		line := readFirstLine(name)
		header, ok := matchHeader(sc.HeaderPriority, line)
		if !ok {
			continue
		}
		groups[header] = append(groups[header], name)
	}

	out := make([]string, 0, len(fileNames))
	for _, header := range sc.HeaderPriority {
		out = append(out, groups[header]...)
	}
	return out
}
