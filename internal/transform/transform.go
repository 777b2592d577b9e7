// Package transform holds the per-file rewrites the migration engine applies
// to a legacy prototype. Every function here is pure: content in, content
// out, no file system access. Each one owns exactly one concern and promises
// a surgical rewrite - known boilerplate is replaced, everything else in the
// file is preserved byte for byte. Re-applying any transform to its own
// output returns the input unchanged.
package transform

import (
	"bytes"
	"regexp"
)

// stripMatchingLines removes every line matching one of the patterns,
// leaving all other lines (and their line endings) untouched.
func stripMatchingLines(in []byte, patterns []*regexp.Regexp) []byte {
	lines := bytes.Split(in, []byte("\n"))
	kept := make([][]byte, 0, len(lines))

outer:
	for _, line := range lines {
		for _, re := range patterns {
			if re.Match(line) {
				continue outer
			}
		}
		kept = append(kept, line)
	}

	return bytes.Join(kept, []byte("\n"))
}

// collapseBlankRuns squeezes runs of three or more newlines (left behind by
// boilerplate removal) down to a single blank line.
var blankRuns = regexp.MustCompile(`\n{3,}`)

func collapseBlankRuns(in []byte) []byte {
	return blankRuns.ReplaceAll(in, []byte("\n\n"))
}
