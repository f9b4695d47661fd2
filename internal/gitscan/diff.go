package gitscan

import (
	"strings"
	"unicode/utf8"
)

// CountPatch counts added and removed lines in a unified diff, restricted to
// files accepted by isCodeFile. Binary sections and sections that are not
// valid UTF-8 are skipped entirely, no partial credit.
func CountPatch(patch string, isCodeFile func(string) bool) (added, removed int) {
	for _, section := range splitFileSections(patch) {
		if !isCodeFile(sectionPath(section)) {
			continue
		}
		if strings.Contains(section, "\nBinary files ") || strings.Contains(section, "\nGIT binary patch") {
			continue
		}
		if !utf8.ValidString(section) {
			continue
		}

		for _, line := range strings.Split(section, "\n") {
			switch {
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				// hunk file headers, never counted
			case strings.HasPrefix(line, "+"):
				added++
			case strings.HasPrefix(line, "-"):
				removed++
			}
		}
	}
	return added, removed
}

// splitFileSections splits a patch into per-file sections on the
// "diff --git" marker.
func splitFileSections(patch string) []string {
	var sections []string
	var current []string

	for _, line := range strings.Split(patch, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			if len(current) > 0 {
				sections = append(sections, strings.Join(current, "\n"))
			}
			current = []string{line}
			continue
		}
		if len(current) > 0 {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		sections = append(sections, strings.Join(current, "\n"))
	}
	return sections
}

// sectionPath extracts the changed file's path from a per-file diff section,
// preferring the post-image path and falling back to the pre-image for
// deletions.
func sectionPath(section string) string {
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, "+++ ") {
			path := strings.TrimPrefix(line, "+++ ")
			if path != "/dev/null" {
				return strings.TrimPrefix(path, "b/")
			}
		}
		if strings.HasPrefix(line, "--- ") {
			path := strings.TrimPrefix(line, "--- ")
			if path != "/dev/null" {
				return strings.TrimPrefix(path, "a/")
			}
		}
	}

	// Binary sections carry no ---/+++ headers; fall back to the diff line.
	header := strings.SplitN(section, "\n", 2)[0]
	fields := strings.Fields(strings.TrimPrefix(header, "diff --git "))
	if len(fields) > 0 {
		return strings.TrimPrefix(fields[len(fields)-1], "b/")
	}
	return ""
}
