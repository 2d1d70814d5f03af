package formatter

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is how many unchanged lines are shown around each change
const contextLines = 3

// Diff returns a line-oriented diff between the current and canonical
// contents of path. Unchanged runs longer than the context are elided.
func Diff(path string, current, canonical []byte) (out string, err error) {
	defer func() {
		// dmp may panic on some large inputs; report it as an error instead
		if r := recover(); r != nil {
			err = fmt.Errorf("diffmatchpatch panic: %v", r)
		}
	}()

	dmp := diffmatchpatch.New()
	a, b, lines := linesToRunes(string(current), string(canonical))
	diffs := runesToLines(dmp.DiffMainRunes(a, b, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s (formatted)\n", path, path)

	for i, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writeLines(&sb, "-", chunk)
		case diffmatchpatch.DiffInsert:
			writeLines(&sb, "+", chunk)
		case diffmatchpatch.DiffEqual:
			first, last := i == 0, i == len(diffs)-1
			writeEqual(&sb, chunk, first, last)
		}
	}
	return sb.String(), nil
}

// lineBase is the first rune used to stand for a line. Starting in the
// private use area keeps every index clear of the surrogate range.
const lineBase = 0xE000

// linesToRunes maps every distinct line of a and b to one rune, so the
// character diff of the results is a line diff. DiffLinesToChars is not
// used because it encodes lines as comma-separated decimal indexes.
func linesToRunes(a, b string) ([]rune, []rune, []string) {
	var lines []string
	index := make(map[string]rune)
	encode := func(text string) []rune {
		var out []rune
		for _, line := range splitLines(text) {
			r, ok := index[line]
			if !ok {
				r = rune(lineBase + len(lines))
				index[line] = r
				lines = append(lines, line)
			}
			out = append(out, r)
		}
		return out
	}
	ra := encode(a)
	rb := encode(b)
	return ra, rb, lines
}

func runesToLines(diffs []diffmatchpatch.Diff, lines []string) []diffmatchpatch.Diff {
	out := make([]diffmatchpatch.Diff, 0, len(diffs))
	for _, d := range diffs {
		var sb strings.Builder
		for _, r := range d.Text {
			sb.WriteString(lines[r-lineBase])
		}
		out = append(out, diffmatchpatch.Diff{Type: d.Type, Text: sb.String()})
	}
	return out
}

func writeEqual(sb *strings.Builder, chunk []string, first, last bool) {
	head, tail := contextLines, contextLines
	if first {
		head = 0
	}
	if last {
		tail = 0
	}
	if len(chunk) <= head+tail {
		writeLines(sb, " ", chunk)
		return
	}
	writeLines(sb, " ", chunk[:head])
	fmt.Fprintf(sb, "@@ %d unchanged lines @@\n", len(chunk)-head-tail)
	writeLines(sb, " ", chunk[len(chunk)-tail:])
}

func writeLines(sb *strings.Builder, prefix string, lines []string) {
	for _, line := range lines {
		sb.WriteString(prefix)
		sb.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			sb.WriteByte('\n')
		}
	}
}

func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
