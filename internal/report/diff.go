package report

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffStatistics holds diff calculation results
type DiffStatistics struct {
	LinesAdded   int
	LinesDeleted int
	IsIdentical  bool
}

// DiffProcessor renders line-based differences between a text and its
// sanitized form.
type DiffProcessor struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewDiffProcessor creates a new diff processor
func NewDiffProcessor() *DiffProcessor {
	return &DiffProcessor{dmp: diffmatchpatch.New()}
}

// LineDiffs diffs before and after line by line.
func (dp *DiffProcessor) LineDiffs(before, after string) []diffmatchpatch.Diff {
	a, b, lines := dp.dmp.DiffLinesToChars(before, after)
	diffs := dp.dmp.DiffMain(a, b, false)
	return dp.dmp.DiffCharsToLines(diffs, lines)
}

// Unified renders before/after as "-"/"+" prefixed lines with unchanged
// lines prefixed by a space. Identical input renders as the empty string.
func (dp *DiffProcessor) Unified(before, after string) (string, DiffStatistics) {
	diffs := dp.LineDiffs(before, after)
	stats := DiffStatistics{IsIdentical: true}

	var b strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
			stats.IsIdentical = false
		case diffmatchpatch.DiffDelete:
			prefix = "-"
			stats.IsIdentical = false
		}
		for _, line := range splitLines(d.Text) {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				stats.LinesAdded++
			case diffmatchpatch.DiffDelete:
				stats.LinesDeleted++
			}
		}
	}

	if stats.IsIdentical {
		return "", stats
	}
	return b.String(), stats
}

// splitLines splits text into lines without their terminators. A trailing
// newline does not produce an empty last line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
