package shader

import (
	"fmt"
	"sort"
	"strings"
)

// Specialize injects a `#define NAME VALUE` line per entry of defines right
// after the `#version` directive. Names are emitted in sorted order so the
// same define set always yields the same text. A source without a version
// directive gets the defines prepended.
func Specialize(source string, defines map[string]string) string {
	if len(defines) == 0 {
		return source
	}
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Strings(names)

	var block strings.Builder
	for _, name := range names {
		fmt.Fprintf(&block, "#define %s %s\n", name, defines[name])
	}

	lines := strings.SplitAfter(source, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "#version") {
			continue
		}
		var out strings.Builder
		for _, l := range lines[:i+1] {
			out.WriteString(l)
		}
		if !strings.HasSuffix(line, "\n") {
			out.WriteString("\n")
		}
		out.WriteString(block.String())
		for _, l := range lines[i+1:] {
			out.WriteString(l)
		}
		return out.String()
	}
	return block.String() + source
}
