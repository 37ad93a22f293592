// Package stacktrace trims runtime stack dumps down to this module's frames.
package stacktrace

import "strings"

const internalMarker = "/internal/"

// InternalPaths returns the "internal/<pkg>/<file>.go:<line>" locations found
// in a raw debug.Stack dump, innermost first.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)

	for _, line := range lines {
		if path, ok := internalPath(strings.TrimSpace(line)); ok {
			paths = append(paths, path)
		}
	}

	return paths
}

// internalPath extracts the location from a file line such as
// "/src/app/internal/pkg/x.go:12 +0x1d".
func internalPath(line string) (string, bool) {
	at := strings.Index(line, ".go:")
	if at == -1 {
		return "", false
	}

	loc, _, _ := strings.Cut(line, " ")
	if len(loc) < at {
		return "", false
	}

	idx := strings.Index(loc, internalMarker)
	if idx == -1 {
		return "", false
	}

	return loc[idx+1:], true
}
